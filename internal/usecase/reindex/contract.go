package reindex

import (
	"context"

	"github.com/kailas-cloud/rosterdex/internal/domain/roster"
)

// Profile is one indexable employee document.
type Profile struct {
	ID       string
	Content  string
	Metadata map[string]string
	Vector   []float32
}

// RosterSource lists every employee on the roster.
type RosterSource interface {
	All(ctx context.Context) ([]roster.Employee, error)
}

// Index stores profile vectors.
type Index interface {
	EnsureIndex(ctx context.Context) error
	RecreateIndex(ctx context.Context) error
	Upsert(ctx context.Context, profiles []Profile) error
	Prune(ctx context.Context, keep map[string]struct{}) (int, error)
}
