package semantic

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/rosterdex/internal/domain/search/hit"
)

type mockIndex struct {
	matches []Match
	err     error
	called  bool
	text    string
	limit   int
}

func (m *mockIndex) Search(_ context.Context, text string, limit int) ([]Match, error) {
	m.called = true
	m.text = text
	m.limit = limit
	return m.matches, m.err
}

func TestAdapter_Search(t *testing.T) {
	idx := &mockIndex{matches: []Match{
		{Content: "Asha Rao. Skills: go", Metadata: map[string]string{"employee_id": "E1", "name": "Asha Rao"}, Distance: 0.2},
		{Content: "Ravi", Metadata: map[string]string{"employee_id": "E2", "name": "Ravi"}, Distance: 0.75},
	}}
	a := NewAdapter(idx, nil)

	hits := a.Search(context.Background(), " golang expertise ", 5)

	if idx.text != "golang expertise" || idx.limit != 5 {
		t.Errorf("index called with (%q, %d)", idx.text, idx.limit)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ID() != "E1" || hits[0].Name() != "Asha Rao" {
		t.Errorf("unexpected first hit %s/%s", hits[0].ID(), hits[0].Name())
	}
	if math.Abs(hits[0].Score()-0.8) > 1e-9 {
		t.Errorf("Score() = %v, want 0.8", hits[0].Score())
	}
	if math.Abs(hits[1].Score()-0.25) > 1e-9 {
		t.Errorf("Score() = %v, want 0.25", hits[1].Score())
	}
	if hits[1].Source() != hit.Semantic {
		t.Errorf("Source() = %s", hits[1].Source())
	}
}

func TestAdapter_ErrorYieldsEmpty(t *testing.T) {
	a := NewAdapter(&mockIndex{err: errors.New("index down")}, nil)

	hits := a.Search(context.Background(), "python", 5)

	if hits == nil || len(hits) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", hits)
	}
}

func TestAdapter_EmptyTermsSkipsIndex(t *testing.T) {
	idx := &mockIndex{}
	a := NewAdapter(idx, nil)

	if hits := a.Search(context.Background(), "  ", 5); len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
	if idx.called {
		t.Error("index must not be called for empty terms")
	}
}

func TestAdapter_MetadataCopied(t *testing.T) {
	meta := map[string]string{"employee_id": "E1"}
	a := NewAdapter(&mockIndex{matches: []Match{{Metadata: meta}}}, nil)

	hits := a.Search(context.Background(), "x", 1)
	hits[0].Attributes()["employee_id"] = "changed"

	if meta["employee_id"] != "E1" {
		t.Error("hit attributes must not alias index metadata")
	}
}
