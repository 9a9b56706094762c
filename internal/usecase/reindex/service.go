// Package reindex rebuilds the semantic profile index from the roster.
package reindex

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/rosterdex/internal/domain"
	"github.com/kailas-cloud/rosterdex/internal/domain/roster"
)

// DefaultBatchSize is the number of profiles embedded and written per round-trip.
const DefaultBatchSize = 64

// Options controls a reindex run.
type Options struct {
	BatchSize int
	// Recreate drops and rebuilds the index before writing.
	Recreate bool
	// Prune deletes indexed profiles that are no longer on the roster.
	Prune bool
}

// Report summarizes a reindex run.
type Report struct {
	Employees int
	Indexed   int
	Skipped   int
	Pruned    int
	Tokens    int
	Duration  time.Duration
}

// Service embeds roster profiles and writes them to the index.
type Service struct {
	source   RosterSource
	index    Index
	embedder domain.Embedder
	logger   *zap.Logger
}

// New creates a reindex Service. embedder should carry the document instruction.
func New(source RosterSource, index Index, embedder domain.Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, index: index, embedder: embedder, logger: logger}
}

// Run indexes every employee with an id. A failed batch aborts the run.
func (s *Service) Run(ctx context.Context, opts Options) (Report, error) {
	start := time.Now()
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	employees, err := s.source.All(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load roster: %w", err)
	}

	if opts.Recreate {
		err = s.index.RecreateIndex(ctx)
	} else {
		err = s.index.EnsureIndex(ctx)
	}
	if err != nil {
		return Report{}, fmt.Errorf("prepare index: %w", err)
	}

	rep := Report{Employees: len(employees)}
	keep := make(map[string]struct{}, len(employees))
	batch := make([]roster.Employee, 0, opts.BatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		tokens, err := s.writeBatch(ctx, batch)
		if err != nil {
			return err
		}
		rep.Indexed += len(batch)
		rep.Tokens += tokens
		batch = batch[:0]
		return nil
	}

	for i := range employees {
		e := employees[i]
		if strings.TrimSpace(e.ID) == "" {
			rep.Skipped++
			continue
		}
		keep[e.ID] = struct{}{}
		batch = append(batch, e)
		if len(batch) == opts.BatchSize {
			if err := flush(); err != nil {
				return rep, err
			}
		}
	}
	if err := flush(); err != nil {
		return rep, err
	}

	if opts.Prune {
		n, err := s.index.Prune(ctx, keep)
		if err != nil {
			return rep, fmt.Errorf("prune index: %w", err)
		}
		rep.Pruned = n
	}

	rep.Duration = time.Since(start)
	s.logger.Info("Reindex completed",
		zap.Int("employees", rep.Employees),
		zap.Int("indexed", rep.Indexed),
		zap.Int("skipped", rep.Skipped),
		zap.Int("pruned", rep.Pruned),
		zap.Int("tokens", rep.Tokens),
		zap.Duration("duration", rep.Duration),
	)
	return rep, nil
}

func (s *Service) writeBatch(ctx context.Context, batch []roster.Employee) (int, error) {
	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = batch[i].ProfileText()
	}

	res, err := domain.BatchEmbed(ctx, s.embedder, texts)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, err)
	}
	if len(res.Embeddings) != len(batch) {
		return 0, fmt.Errorf("%w: got %d vectors for %d profiles",
			domain.ErrEmbeddingProviderError, len(res.Embeddings), len(batch))
	}

	profiles := make([]Profile, len(batch))
	for i := range batch {
		profiles[i] = Profile{
			ID:       batch[i].ID,
			Content:  texts[i],
			Metadata: metadata(&batch[i]),
			Vector:   res.Embeddings[i],
		}
	}
	if err := s.index.Upsert(ctx, profiles); err != nil {
		return 0, fmt.Errorf("write profiles: %w", err)
	}

	s.logger.Debug("Indexed batch", zap.Int("size", len(batch)), zap.Int("tokens", res.TotalTokens))
	return res.TotalTokens, nil
}

func metadata(e *roster.Employee) map[string]string {
	attrs := e.Attributes()
	out := make(map[string]string, len(attrs))
	for _, f := range roster.MetadataFields() {
		if v, ok := attrs[f]; ok {
			out[f] = v
		}
	}
	return out
}
