package structured

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/rosterdex/internal/domain/roster"
)

func mustContains(t *testing.T, value string, cols ...string) Predicate {
	t.Helper()
	p, err := NewContains(value, cols...)
	if err != nil {
		t.Fatalf("NewContains: %v", err)
	}
	return p
}

func TestNewPredicate_Normalizes(t *testing.T) {
	p, err := NewWholeWord("  Asha   RAO ", roster.FieldName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Value() != "asha rao" {
		t.Errorf("expected normalized value, got %q", p.Value())
	}
	if p.Mode() != WholeWord {
		t.Error("expected whole-word mode")
	}
}

func TestNewPredicate_Validation(t *testing.T) {
	if _, err := NewContains("", roster.FieldSkills); err == nil {
		t.Error("expected error for empty value")
	}
	if _, err := NewContains("x"); err == nil {
		t.Error("expected error for no columns")
	}
	if _, err := NewContains("x", "salary; DROP TABLE employees"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestNew_TooManyPredicates(t *testing.T) {
	many := make([]Predicate, MaxPredicatesPerGroup+1)
	if _, err := New(many, nil, "", 0, ""); err == nil {
		t.Error("expected error for too many must predicates")
	}
	if _, err := New(nil, many, "", 0, ""); err == nil {
		t.Error("expected error for too many should predicates")
	}
}

func TestNew_DefaultLimit(t *testing.T) {
	q, err := New(nil, nil, "", 0, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Limit() != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, q.Limit())
	}
	if !q.IsOpen() {
		t.Error("query without predicates must be open")
	}
}

func TestQuery_String(t *testing.T) {
	must := []Predicate{mustContains(t, "python", roster.FieldSkills, roster.FieldTechGroup)}
	should := []Predicate{
		mustContains(t, "free", roster.FieldDeploymentStatus),
		mustContains(t, "billable", roster.FieldDeploymentStatus),
	}
	q, err := New(must, should, "ACME_PORTAL", 50, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := q.String()
	for _, want := range []string{
		`JOIN projects ON project_name ~ "acme_portal"`,
		`(skills ~ "python" OR tech_group ~ "python")`,
		`(deployment_status ~ "free" OR deployment_status ~ "billable")`,
		" AND ",
		"LIMIT 50",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
	if q.IsOpen() {
		t.Error("filtered query must not be open")
	}
}

func TestRaw(t *testing.T) {
	q := Raw("  SELECT * FROM employees ", 0, "model")
	if !q.IsRaw() || q.Statement() != "SELECT * FROM employees" {
		t.Errorf("unexpected raw statement %q", q.Statement())
	}
	if q.String() != q.Statement() {
		t.Error("raw query must render its statement")
	}
	if q.IsOpen() {
		t.Error("raw query is not open")
	}
}

func TestOpen(t *testing.T) {
	q := Open(10, "all")
	if !q.IsOpen() || q.Limit() != 10 || q.Rationale() != "all" {
		t.Errorf("unexpected open query: %+v", q)
	}
	if q.String() != "SELECT employees LIMIT 10" {
		t.Errorf("unexpected rendering %q", q.String())
	}
}

func TestWithDeferredLimit(t *testing.T) {
	q := Open(10, "experience").WithDeferredLimit()
	if !q.LimitDeferred() || q.Limit() != 10 {
		t.Errorf("unexpected deferred query: %+v", q)
	}
	if q.String() != "SELECT employees LIMIT 10 AFTER FILTER" {
		t.Errorf("unexpected rendering %q", q.String())
	}
	if Open(10, "all").LimitDeferred() {
		t.Error("limit must not be deferred by default")
	}
	if Raw("SELECT 1", 10, "model").WithDeferredLimit().LimitDeferred() {
		t.Error("raw queries keep their own limit")
	}
}
