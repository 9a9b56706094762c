package search

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/rosterdex/internal/domain/query/decision"
	"github.com/kailas-cloud/rosterdex/internal/domain/query/strategy"
	"github.com/kailas-cloud/rosterdex/internal/domain/search/hit"
	"github.com/kailas-cloud/rosterdex/internal/domain/search/request"
	"github.com/kailas-cloud/rosterdex/internal/metrics"
	"github.com/kailas-cloud/rosterdex/internal/usecase/experience"
	"github.com/kailas-cloud/rosterdex/internal/usecase/fuse"
)

// Retrieval source labels.
const (
	sourceStructured = "structured"
	sourceSemantic   = "semantic"
)

// Options tunes the orchestrator.
type Options struct {
	// SemanticTopK caps similarity hits per query. Zero means 10.
	SemanticTopK      int
	StructuredTimeout time.Duration
	SemanticTimeout   time.Duration
}

// Response is the outcome of one search.
type Response struct {
	QueryID         uuid.UUID
	Query           string
	Category        strategy.Category
	Strategy        strategy.Strategy
	Rationale       string
	StructuredQuery string
	Hits            []hit.Hit
	Counts          hit.Counts
	Error           string
	Latency         time.Duration
}

// Service sequences routing, retrieval and fusion for one query.
type Service struct {
	router     Router
	store      StructuredStore
	semantic   SemanticSearcher
	opts       Options
	logger     *zap.Logger
	newQueryID func() uuid.UUID
}

// New creates a search service.
func New(router Router, store StructuredStore, semantic SemanticSearcher, opts Options, logger *zap.Logger) *Service {
	if opts.SemanticTopK <= 0 {
		opts.SemanticTopK = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		router: router, store: store, semantic: semantic,
		opts: opts, logger: logger, newQueryID: uuid.New,
	}
}

// Route exposes the routing decision without retrieval.
func (s *Service) Route(ctx context.Context, req request.Request) decision.Decision {
	return s.router.Route(ctx, req.Query())
}

// Search answers one query. Collaborator failures degrade to empty results
// for that source; no retrieval error is returned to the caller.
func (s *Service) Search(ctx context.Context, req request.Request) (Response, error) {
	start := time.Now()

	d := s.router.Route(ctx, req.Query())
	metrics.RouteDecisionsTotal.WithLabelValues(string(d.Strategy()), string(d.Category())).Inc()

	var structuredHits, semanticHits []hit.Hit
	if d.Strategy().RunsStructured() {
		structuredHits = s.runStructured(ctx, d)
	}
	if d.Strategy().RunsSemantic() {
		semanticHits = s.runSemantic(ctx, d)
	}

	fused := fuse.Fuse(structuredHits, semanticHits)

	hits := fused.Hits
	if req.MinScore() > 0 {
		filtered := hits[:0]
		for _, h := range hits {
			if h.Score() >= req.MinScore() {
				filtered = append(filtered, h)
			}
		}
		hits = filtered
	}
	if len(hits) > req.Limit() {
		hits = hits[:req.Limit()]
	}
	metrics.FusedHits.Observe(float64(len(hits)))

	resp := Response{
		QueryID:         s.newQueryID(),
		Query:           req.Query(),
		Category:        d.Category(),
		Strategy:        d.Strategy(),
		Rationale:       d.Rationale(),
		StructuredQuery: d.Query().String(),
		Hits:            hits,
		Counts:          fused.Counts,
		Latency:         time.Since(start),
	}
	if fused.Err != nil {
		s.logger.Error("fusion failed", zap.Error(fused.Err))
		resp.Error = fused.Err.Error()
	}
	return resp, nil
}

func (s *Service) runStructured(ctx context.Context, d decision.Decision) []hit.Hit {
	if s.opts.StructuredTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.StructuredTimeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := s.store.Find(ctx, d.Query())
	metrics.RetrievalDuration.WithLabelValues(sourceStructured).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RetrievalErrorsTotal.WithLabelValues(sourceStructured).Inc()
		s.logger.Warn("structured search failed",
			zap.Error(err), zap.String("query", d.Query().String()))
		return nil
	}

	hits := make([]hit.Hit, 0, len(rows))
	for i := range rows {
		e := &rows[i]
		hits = append(hits, hit.New(e.ID, e.Name, e.Attributes(), hit.Structured, fuse.StructuredScore))
	}
	hits = experience.Filter(hits, d.Conditions())
	if q := d.Query(); q.LimitDeferred() && len(hits) > q.Limit() {
		hits = hits[:q.Limit()]
	}
	return hits
}

func (s *Service) runSemantic(ctx context.Context, d decision.Decision) []hit.Hit {
	if s.opts.SemanticTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.SemanticTimeout)
		defer cancel()
	}

	start := time.Now()
	hits := s.semantic.Search(ctx, d.Terms(), s.opts.SemanticTopK)
	metrics.RetrievalDuration.WithLabelValues(sourceSemantic).Observe(time.Since(start).Seconds())
	return hits
}
