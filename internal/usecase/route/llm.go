package route

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/rosterdex/internal/domain"
	"github.com/kailas-cloud/rosterdex/internal/domain/query/decision"
	"github.com/kailas-cloud/rosterdex/internal/domain/query/strategy"
	"github.com/kailas-cloud/rosterdex/internal/domain/query/structured"
	"github.com/kailas-cloud/rosterdex/internal/usecase/extract"
	"github.com/kailas-cloud/rosterdex/internal/usecase/synth"
)

const promptTemplate = `You route questions about a company's employee roster.

Tables:
  employees(employee_id, name, department, role, designation, sub_department, tech_group,
            location, deployment_status, reporting_manager, delivery_owner, skills, experience)
  projects(employee_id, project_name, customer, project_department, project_industry, project_status)

deployment_status values contain one of: free, billable, budgeted, support.
skills and experience are free text.

Choose an action:
  "sql"    - the question filters on exact fields (names, locations, departments, status)
  "vector" - the question is fuzzy or descriptive (expertise, background, similar profiles)
  "hybrid" - both apply

Examples:
  "who is on the bench in pune" -> {"action":"sql","query_type":"deployment_status","sql_query":"SELECT * FROM employees WHERE LOWER(deployment_status) LIKE '%%free%%' AND LOWER(location) LIKE '%%pune%%'","vector_search_terms":"","reasoning":"status and location filter"}
  "people who have built payment systems" -> {"action":"vector","query_type":"general","sql_query":"","vector_search_terms":"payment systems fintech development","reasoning":"descriptive expertise"}

Answer with a single JSON object with exactly these keys:
action, query_type, sql_query, vector_search_terms, reasoning.
sql_query must be a single read-only SELECT or empty.

Question: %s`

// Prompt renders the fixed routing prompt for a question.
func Prompt(question string) string {
	return fmt.Sprintf(promptTemplate, question)
}

// modelAnswer is the strict shape expected from the model.
type modelAnswer struct {
	Action            string `json:"action"`
	QueryType         string `json:"query_type"`
	SQLQuery          string `json:"sql_query"`
	VectorSearchTerms string `json:"vector_search_terms"`
	Reasoning         string `json:"reasoning"`
}

var actions = map[string]strategy.Strategy{
	"sql":         strategy.StructuredOnly,
	"structured":  strategy.StructuredOnly,
	"sql_only":    strategy.StructuredOnly,
	"vector":      strategy.SemanticOnly,
	"semantic":    strategy.SemanticOnly,
	"vector_only": strategy.SemanticOnly,
	"hybrid":      strategy.Combined,
	"combined":    strategy.Combined,
	"both":        strategy.Combined,
}

var categories = map[strategy.Category]struct{}{
	strategy.ListAll: {}, strategy.SingleEmployee: {}, strategy.DeploymentStatus: {},
	strategy.Project: {}, strategy.Location: {}, strategy.Department: {},
	strategy.Skill: {}, strategy.MultiCondition: {}, strategy.General: {},
}

func (r *Router) askModel(ctx context.Context, raw string) decision.Decision {
	if r.completer == nil {
		return decision.Fallback(raw, r.limit, FallbackReason)
	}

	out, err := r.completer.Complete(ctx, Prompt(raw))
	if err != nil {
		r.logger.Warn("language model routing failed", zap.Error(err))
		return decision.Fallback(raw, r.limit, FallbackReason)
	}

	d, err := r.parseAnswer(out, raw)
	if err != nil {
		r.logger.Warn("language model answer rejected", zap.Error(err))
		return decision.Fallback(raw, r.limit, FallbackReason)
	}
	return d
}

// parseAnswer decodes a model answer into a decision.
func (r *Router) parseAnswer(out, raw string) (decision.Decision, error) {
	body := StripCodeFence(out)

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.DisallowUnknownFields()
	var a modelAnswer
	if err := dec.Decode(&a); err != nil {
		return decision.Decision{}, fmt.Errorf("%w: %w", domain.ErrLLMResponse, err)
	}
	if dec.More() {
		return decision.Decision{}, fmt.Errorf("%w: trailing data after object", domain.ErrLLMResponse)
	}

	s, ok := actions[strings.ToLower(strings.TrimSpace(a.Action))]
	if !ok {
		return decision.Decision{}, fmt.Errorf("%w: unknown action %q", domain.ErrLLMResponse, a.Action)
	}

	category := strategy.Category(strings.ToLower(strings.TrimSpace(a.QueryType)))
	if _, known := categories[category]; !known {
		category = strategy.General
	}

	conds := extract.Extract(raw)
	rationale := strings.TrimSpace(a.Reasoning)
	var q structured.Query
	if stmt := strings.TrimSpace(a.SQLQuery); stmt != "" {
		checked, err := structured.CheckStatement(stmt)
		if err != nil {
			return decision.Decision{}, fmt.Errorf("%w: %w", domain.ErrLLMResponse, err)
		}
		q = structured.Raw(checked, r.limit, rationale)
	} else {
		q = synth.Synthesize(conds, r.limit)
	}
	if rationale == "" {
		rationale = q.Rationale()
	}

	terms := strings.TrimSpace(a.VectorSearchTerms)
	if terms == "" && s.RunsSemantic() {
		terms = raw
	}
	return decision.New(s, category, q, terms, rationale, conds), nil
}

// StripCodeFence removes a surrounding markdown code fence, with or without
// a language tag.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
