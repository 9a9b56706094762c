// Package fuse merges structured and semantic hits into one ranked list.
package fuse

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/rosterdex/internal/domain/search/hit"
)

// StructuredScore is the fixed score of every structured hit.
const StructuredScore = 1.0

// order sorts hits by score descending, keeping the relative order of ties.
var order = func(hits []hit.Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score() > hits[j].Score()
	})
}

// Fuse deduplicates by employee id with structured hits taking precedence,
// then orders by score descending. Ties keep structured-before-semantic and
// the original relative order. Hits without an id are never deduplicated.
// Fuse never panics; an internal failure yields an empty result with Err set.
func Fuse(structuredHits, semanticHits []hit.Hit) (out hit.Fused) {
	defer func() {
		if rec := recover(); rec != nil {
			out = hit.Fused{Hits: []hit.Hit{}, Err: fmt.Errorf("fuse results: %v", rec)}
		}
	}()

	merged := make([]hit.Hit, 0, len(structuredHits)+len(semanticHits))
	seen := make(map[string]struct{}, len(structuredHits))
	var counts hit.Counts

	for _, h := range structuredHits {
		if h.ID() != "" {
			if _, dup := seen[h.ID()]; dup {
				continue
			}
			seen[h.ID()] = struct{}{}
		}
		merged = append(merged, h.WithScore(StructuredScore))
		counts.Structured++
	}

	for _, h := range semanticHits {
		if h.ID() != "" {
			if _, dup := seen[h.ID()]; dup {
				continue
			}
			seen[h.ID()] = struct{}{}
		}
		merged = append(merged, h)
		counts.Semantic++
	}

	order(merged)

	counts.Total = len(merged)
	return hit.Fused{Hits: merged, Counts: counts}
}
