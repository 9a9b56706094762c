// Package structured describes a structured-store query independent of any SQL dialect.
package structured

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/rosterdex/internal/domain/roster"
)

const (
	// DefaultLimit caps rows returned by a structured query.
	DefaultLimit = 100
	// MaxPredicatesPerGroup is the maximum number of predicates per group.
	MaxPredicatesPerGroup = 32
)

// searchable lists the columns predicates may reference.
var searchable = map[string]struct{}{
	roster.FieldEmployeeID:       {},
	roster.FieldName:             {},
	roster.FieldDepartment:       {},
	roster.FieldRole:             {},
	roster.FieldDesignation:      {},
	roster.FieldSubDepartment:    {},
	roster.FieldTechGroup:        {},
	roster.FieldLocation:         {},
	roster.FieldDeploymentStatus: {},
	roster.FieldReportingManager: {},
	roster.FieldDeliveryOwner:    {},
	roster.FieldSkills:           {},
	roster.FieldExperience:       {},
}

// IsSearchable reports whether column may appear in a predicate.
func IsSearchable(column string) bool {
	_, ok := searchable[column]
	return ok
}

// MatchMode selects how a predicate compares text.
type MatchMode int

const (
	// Contains is a case-insensitive substring match.
	Contains MatchMode = iota
	// WholeWord matches the value only between word boundaries.
	WholeWord
)

// Predicate matches value against any of its columns (OR across columns).
type Predicate struct {
	columns []string
	value   string
	mode    MatchMode
}

// NewContains creates a case-insensitive substring predicate.
func NewContains(value string, columns ...string) (Predicate, error) {
	return newPredicate(value, Contains, columns)
}

// NewWholeWord creates a whole-word predicate.
func NewWholeWord(value string, columns ...string) (Predicate, error) {
	return newPredicate(value, WholeWord, columns)
}

func newPredicate(value string, mode MatchMode, columns []string) (Predicate, error) {
	value = strings.ToLower(strings.Join(strings.Fields(value), " "))
	if value == "" {
		return Predicate{}, fmt.Errorf("predicate value is required")
	}
	if len(columns) == 0 {
		return Predicate{}, fmt.Errorf("at least one column is required")
	}
	for _, c := range columns {
		if !IsSearchable(c) {
			return Predicate{}, fmt.Errorf("column %q is not searchable", c)
		}
	}
	return Predicate{columns: append([]string(nil), columns...), value: value, mode: mode}, nil
}

// Columns returns the columns the predicate checks.
func (p Predicate) Columns() []string { return p.columns }

// Value returns the normalized lower-case needle.
func (p Predicate) Value() string { return p.value }

// Mode returns the match mode.
func (p Predicate) Mode() MatchMode { return p.mode }

func (p Predicate) String() string {
	op := "~"
	if p.mode == WholeWord {
		op = "=~"
	}
	parts := make([]string, len(p.columns))
	for i, c := range p.columns {
		parts[i] = fmt.Sprintf("%s %s %s", c, op, strconv.Quote(p.value))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// Query is an immutable structured query: every must predicate holds, at least
// one should predicate holds when any are present, and the optional project
// constraint restricts rows to employees with a matching engagement.
type Query struct {
	must      []Predicate
	should    []Predicate
	project   string
	limit     int
	deferred  bool
	raw       string
	rationale string
}

// New validates and creates a Query. A non-positive limit means DefaultLimit.
func New(must, should []Predicate, project string, limit int, rationale string) (Query, error) {
	if len(must) > MaxPredicatesPerGroup {
		return Query{}, fmt.Errorf("too many must predicates (max %d)", MaxPredicatesPerGroup)
	}
	if len(should) > MaxPredicatesPerGroup {
		return Query{}, fmt.Errorf("too many should predicates (max %d)", MaxPredicatesPerGroup)
	}
	return Query{
		must:      must,
		should:    should,
		project:   strings.TrimSpace(project),
		limit:     normalizeLimit(limit),
		rationale: rationale,
	}, nil
}

// Open creates an unfiltered, row-limited query.
func Open(limit int, rationale string) Query {
	return Query{limit: normalizeLimit(limit), rationale: rationale}
}

// Raw creates a query carrying a model-authored statement. The statement is
// only executed after the store has verified it is a single read-only SELECT.
func Raw(statement string, limit int, rationale string) Query {
	return Query{raw: strings.TrimSpace(statement), limit: normalizeLimit(limit), rationale: rationale}
}

// WithDeferredLimit returns a copy whose row cap applies after in-process
// filtering. The store returns every matching row.
func (q Query) WithDeferredLimit() Query {
	if q.IsRaw() {
		return q
	}
	q.deferred = true
	return q
}

// LimitDeferred reports whether the store must fetch without the row cap.
func (q Query) LimitDeferred() bool { return q.deferred }

// Must returns the conjunctive predicates.
func (q Query) Must() []Predicate { return q.must }

// Should returns the disjunctive predicates.
func (q Query) Should() []Predicate { return q.should }

// Project returns the engagement join constraint or "".
func (q Query) Project() string { return q.project }

// Limit returns the row cap.
func (q Query) Limit() int { return q.limit }

// Statement returns the raw statement or "".
func (q Query) Statement() string { return q.raw }

// IsRaw reports whether the query carries a raw statement.
func (q Query) IsRaw() bool { return q.raw != "" }

// Rationale returns the human-readable explanation.
func (q Query) Rationale() string { return q.rationale }

// IsOpen reports whether the query selects without any filter.
func (q Query) IsOpen() bool {
	return !q.IsRaw() && len(q.must) == 0 && len(q.should) == 0 && q.project == ""
}

// String renders the query for logs and API responses.
func (q Query) String() string {
	if q.IsRaw() {
		return q.raw
	}

	var b strings.Builder
	b.WriteString("SELECT employees")
	if q.project != "" {
		b.WriteString(" JOIN projects ON project_name ~ ")
		b.WriteString(strconv.Quote(strings.ToLower(q.project)))
	}

	var clauses []string
	for _, p := range q.must {
		clauses = append(clauses, p.String())
	}
	if len(q.should) > 0 {
		parts := make([]string, len(q.should))
		for i, p := range q.should {
			parts[i] = p.String()
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}
	if len(clauses) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(clauses, " AND "))
	}
	b.WriteString(" LIMIT ")
	b.WriteString(strconv.Itoa(q.limit))
	if q.deferred {
		b.WriteString(" AFTER FILTER")
	}
	return b.String()
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
