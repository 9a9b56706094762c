package semantic

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/rosterdex/internal/db"
	"github.com/kailas-cloud/rosterdex/internal/domain"
)

// Hash field names used by the profile index.
const (
	fieldContent = "__content"
	fieldVector  = "vector"
)

// Vector index algorithms.
const (
	AlgorithmHNSW = "hnsw"
	AlgorithmFlat = "flat"
)

// IndexConfig describes the profile vector index.
type IndexConfig struct {
	Name        string
	Prefix      string
	Dimensions  int
	Algorithm   string
	M           int
	EFConstruct int
}

// DefaultIndexConfig returns the index layout used when nothing is configured.
func DefaultIndexConfig(dimensions int) IndexConfig {
	return IndexConfig{
		Name:        domain.KeyPrefix + "profiles:idx",
		Prefix:      domain.KeyPrefix + "profile:",
		Dimensions:  dimensions,
		Algorithm:   AlgorithmHNSW,
		M:           16,
		EFConstruct: 200,
	}
}

func buildIndex(cfg IndexConfig) (*db.IndexDefinition, error) {
	b := db.NewIndex(cfg.Name).
		Prefix(cfg.Prefix).
		Tag("employee_id").
		Text(fieldContent)

	switch cfg.Algorithm {
	case AlgorithmFlat:
		b = b.VectorFlat(fieldVector, cfg.Dimensions, db.DistanceCosine, 0)
	case AlgorithmHNSW, "":
		b = b.VectorHNSW(fieldVector, cfg.Dimensions, db.DistanceCosine, cfg.M, cfg.EFConstruct)
	default:
		return nil, fmt.Errorf("unknown vector algorithm %q", cfg.Algorithm)
	}
	return b.Build()
}

// EnsureIndex creates the profile index unless it already exists.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.cfg.Name)
	if err != nil {
		return fmt.Errorf("%w: check index: %w", domain.ErrIndexUnavailable, err)
	}
	if exists {
		return nil
	}
	return r.createIndex(ctx)
}

// RecreateIndex drops and rebuilds the index definition. Indexed hashes stay in
// place and are picked up again by the new index.
func (r *Repo) RecreateIndex(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.cfg.Name); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("%w: drop index: %w", domain.ErrIndexUnavailable, err)
	}
	return r.createIndex(ctx)
}

func (r *Repo) createIndex(ctx context.Context) error {
	def, err := buildIndex(r.cfg)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("%w: create index: %w", domain.ErrIndexUnavailable, err)
	}
	r.logger.Info("created profile index", zap.String("definition", def.String()))
	return nil
}
