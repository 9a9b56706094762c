// Package semantic adapts a similarity index to normalized hits.
package semantic

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/rosterdex/internal/domain/roster"
	"github.com/kailas-cloud/rosterdex/internal/domain/search/hit"
	"github.com/kailas-cloud/rosterdex/internal/metrics"
)

// Match is one similarity result: indexed content, its metadata and the
// cosine distance to the query.
type Match struct {
	Content  string
	Metadata map[string]string
	Distance float64
}

// Index searches indexed profiles by text.
type Index interface {
	Search(ctx context.Context, text string, limit int) ([]Match, error)
}

// Adapter converts index matches into hits. It never fails; index errors
// yield an empty list.
type Adapter struct {
	index  Index
	logger *zap.Logger
}

// NewAdapter creates an Adapter.
func NewAdapter(index Index, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{index: index, logger: logger}
}

// Search returns up to limit semantic hits scored 1 - distance.
func (a *Adapter) Search(ctx context.Context, terms string, limit int) []hit.Hit {
	terms = strings.TrimSpace(terms)
	if terms == "" || limit <= 0 {
		return []hit.Hit{}
	}

	matches, err := a.index.Search(ctx, terms, limit)
	if err != nil {
		metrics.RetrievalErrorsTotal.WithLabelValues("semantic").Inc()
		a.logger.Warn("semantic search failed", zap.Error(err))
		return []hit.Hit{}
	}

	hits := make([]hit.Hit, 0, len(matches))
	for _, m := range matches {
		attrs := make(map[string]string, len(m.Metadata))
		for k, v := range m.Metadata {
			attrs[k] = v
		}
		hits = append(hits, hit.New(
			attrs[roster.FieldEmployeeID],
			attrs[roster.FieldName],
			attrs,
			hit.Semantic,
			1-m.Distance,
		))
	}
	return hits
}
