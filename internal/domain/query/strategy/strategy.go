package strategy

// Strategy selects which retrieval sources run for a query.
type Strategy string

// Retrieval strategies.
const (
	StructuredOnly Strategy = "structured_only"
	SemanticOnly   Strategy = "semantic_only"
	Combined       Strategy = "combined"
)

// IsValid checks if the strategy is one of the supported values.
func (s Strategy) IsValid() bool {
	return s == StructuredOnly || s == SemanticOnly || s == Combined
}

// RunsStructured reports whether the structured store is queried.
func (s Strategy) RunsStructured() bool { return s != SemanticOnly }

// RunsSemantic reports whether the semantic index is queried.
func (s Strategy) RunsSemantic() bool { return s != StructuredOnly }

// Category labels the intent recognized for a query.
type Category string

// Query categories produced by the deterministic cascade.
const (
	ListAll          Category = "list_all"
	SingleEmployee   Category = "single_employee"
	DeploymentStatus Category = "deployment_status"
	Project          Category = "project"
	Location         Category = "location"
	Department       Category = "department"
	Skill            Category = "skill"
	MultiCondition   Category = "multi_condition"
	// General is used for fallback decisions and model answers without a type.
	General Category = "general"
)
