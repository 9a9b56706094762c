// Package semantic stores employee profiles in a Redis vector index and
// answers similarity queries over them.
package semantic

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/rosterdex/internal/db"
	"github.com/kailas-cloud/rosterdex/internal/domain"
	"github.com/kailas-cloud/rosterdex/internal/domain/roster"
	"github.com/kailas-cloud/rosterdex/internal/usecase/reindex"
	semsearch "github.com/kailas-cloud/rosterdex/internal/usecase/semantic"
)

// store is the consumer interface for the profile index (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, keys ...string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements semantic.Index over Redis hashes.
type Repo struct {
	store    store
	embedder domain.Embedder
	cfg      IndexConfig
	logger   *zap.Logger
}

// New creates a profile index repository. embedder vectorizes query text.
func New(s store, embedder domain.Embedder, cfg IndexConfig, logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{store: s, embedder: embedder, cfg: cfg, logger: logger}
}

// Search embeds text and returns the limit nearest profiles with raw cosine distances.
func (r *Repo) Search(ctx context.Context, text string, limit int) ([]semsearch.Match, error) {
	emb, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, err)
	}
	domain.UsageFromContext(ctx).AddEmbeddingTokens(emb.TotalTokens)

	returnFields := append([]string{fieldContent}, roster.MetadataFields()...)
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.cfg.Name,
		Vector:       emb.Embedding,
		K:            limit,
		ReturnFields: returnFields,
		RawScores:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}

	matches := make([]semsearch.Match, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		meta := make(map[string]string, len(e.Fields))
		for k, v := range e.Fields {
			if k == fieldContent {
				continue
			}
			meta[k] = v
		}
		if meta[roster.FieldEmployeeID] == "" {
			meta[roster.FieldEmployeeID] = strings.TrimPrefix(e.Key, r.cfg.Prefix)
		}
		matches = append(matches, semsearch.Match{
			Content:  e.Fields[fieldContent],
			Metadata: meta,
			Distance: e.Score,
		})
	}
	return matches, nil
}

// Upsert writes profiles in one pipelined round-trip.
func (r *Repo) Upsert(ctx context.Context, profiles []reindex.Profile) error {
	if len(profiles) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, 0, len(profiles))
	for _, p := range profiles {
		if len(p.Vector) != r.cfg.Dimensions {
			return fmt.Errorf("profile %s: vector has %d dimensions, index expects %d",
				p.ID, len(p.Vector), r.cfg.Dimensions)
		}
		fields := make(map[string]string, len(p.Metadata)+2)
		for k, v := range p.Metadata {
			fields[k] = v
		}
		fields[roster.FieldEmployeeID] = p.ID
		fields[fieldContent] = p.Content
		fields[fieldVector] = vectorToBytes(p.Vector)
		items = append(items, db.HashSetItem{Key: r.Key(p.ID), Fields: fields})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("%w: write profiles: %w", domain.ErrIndexUnavailable, err)
	}
	return nil
}

// Prune deletes indexed profiles whose id is not in keep and returns how many were removed.
func (r *Repo) Prune(ctx context.Context, keep map[string]struct{}) (int, error) {
	keys, err := r.store.Scan(ctx, r.cfg.Prefix+"*")
	if err != nil {
		return 0, fmt.Errorf("%w: scan profiles: %w", domain.ErrIndexUnavailable, err)
	}

	var stale []string
	for _, k := range keys {
		if _, ok := keep[strings.TrimPrefix(k, r.cfg.Prefix)]; !ok {
			stale = append(stale, k)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if err := r.store.Del(ctx, stale...); err != nil {
		return 0, fmt.Errorf("%w: delete stale profiles: %w", domain.ErrIndexUnavailable, err)
	}
	return len(stale), nil
}

// Key returns the hash key for an employee profile.
func (r *Repo) Key(id string) string {
	return r.cfg.Prefix + id
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
