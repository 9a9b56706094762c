package search

import (
	"context"

	"github.com/kailas-cloud/rosterdex/internal/domain/query/decision"
	"github.com/kailas-cloud/rosterdex/internal/domain/query/structured"
	"github.com/kailas-cloud/rosterdex/internal/domain/roster"
	"github.com/kailas-cloud/rosterdex/internal/domain/search/hit"
)

// Router classifies a query into a retrieval decision.
type Router interface {
	Route(ctx context.Context, text string) decision.Decision
}

// StructuredStore executes structured queries against the roster.
type StructuredStore interface {
	Find(ctx context.Context, q structured.Query) ([]roster.Employee, error)
}

// SemanticSearcher returns similarity hits. It never fails.
type SemanticSearcher interface {
	Search(ctx context.Context, terms string, limit int) []hit.Hit
}
