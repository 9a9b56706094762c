package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/rosterdex/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed query length in bytes.
	MaxQueryLength = 1024
	DefaultLimit   = 20
	MaxLimit       = 100
)

// Request is a validated roster search.
type Request struct {
	query    string
	limit    int
	minScore float64
}

// New validates and normalizes search parameters.
// Defaults: limit=20, clamped to MaxLimit. minScore must lie in [0, 1].
func New(query string, limit int, minScore float64) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if minScore < 0 || minScore > 1 {
		return Request{}, fmt.Errorf("%w: min_score must be between 0 and 1", domain.ErrInvalidQuery)
	}
	return Request{query: query, limit: limit, minScore: minScore}, nil
}

// Query returns the trimmed query text.
func (r Request) Query() string { return r.query }

// Limit returns the maximum number of fused hits.
func (r Request) Limit() int { return r.limit }

// MinScore returns the minimum fused score.
func (r Request) MinScore() float64 { return r.minScore }
