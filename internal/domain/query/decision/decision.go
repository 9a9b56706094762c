package decision

import (
	"github.com/kailas-cloud/rosterdex/internal/domain/query/condition"
	"github.com/kailas-cloud/rosterdex/internal/domain/query/strategy"
	"github.com/kailas-cloud/rosterdex/internal/domain/query/structured"
)

// Decision is the immutable outcome of routing one query.
type Decision struct {
	strategy   strategy.Strategy
	category   strategy.Category
	query      structured.Query
	terms      string
	rationale  string
	conditions condition.Set
	fallback   bool
}

// New creates a Decision. An invalid strategy is coerced to Combined.
func New(
	s strategy.Strategy, c strategy.Category,
	q structured.Query, terms, rationale string,
	conds condition.Set,
) Decision {
	if !s.IsValid() {
		s = strategy.Combined
	}
	if c == "" {
		c = strategy.General
	}
	return Decision{
		strategy: s, category: c, query: q,
		terms: terms, rationale: rationale, conditions: conds,
	}
}

// Fallback is the conservative decision used when nothing else applies:
// combined retrieval, an open row-limited query and the raw text as terms.
func Fallback(text string, limit int, reason string) Decision {
	d := New(
		strategy.Combined, strategy.General,
		structured.Open(limit, reason), text, reason, condition.Set{},
	)
	d.fallback = true
	return d
}

// Strategy returns the retrieval strategy.
func (d Decision) Strategy() strategy.Strategy { return d.strategy }

// Category returns the recognized intent.
func (d Decision) Category() strategy.Category { return d.category }

// Query returns the structured query.
func (d Decision) Query() structured.Query { return d.query }

// Terms returns the semantic search text.
func (d Decision) Terms() string { return d.terms }

// Rationale returns the human-readable explanation.
func (d Decision) Rationale() string { return d.rationale }

// Conditions returns the extracted criteria.
func (d Decision) Conditions() condition.Set { return d.conditions }

// IsFallback reports whether this is the conservative fallback decision.
func (d Decision) IsFallback() bool { return d.fallback }
