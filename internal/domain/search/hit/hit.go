// Package hit holds normalized search results and the fused result set.
package hit

// Source is the provenance of a hit.
type Source string

// Hit sources.
const (
	Structured Source = "structured"
	Semantic   Source = "semantic"
)

// Hit is a single normalized search result.
type Hit struct {
	id         string
	name       string
	attrs      map[string]string
	source     Source
	score      float64
	experience *float64
}

// New creates a hit.
func New(id, name string, attrs map[string]string, source Source, score float64) Hit {
	return Hit{id: id, name: name, attrs: attrs, source: source, score: score}
}

// ID returns the employee identifier.
func (h Hit) ID() string { return h.id }

// Name returns the display name.
func (h Hit) Name() string { return h.name }

// Attributes returns the attribute projection.
func (h Hit) Attributes() map[string]string { return h.attrs }

// Source returns the provenance.
func (h Hit) Source() Source { return h.source }

// Score returns the relevance score.
func (h Hit) Score() float64 { return h.score }

// Experience returns the parsed years of experience, if attached.
func (h Hit) Experience() (float64, bool) {
	if h.experience == nil {
		return 0, false
	}
	return *h.experience, true
}

// WithScore returns a copy with the given score.
func (h Hit) WithScore(score float64) Hit {
	h.score = score
	return h
}

// WithExperience returns a copy carrying parsed experience years.
func (h Hit) WithExperience(years float64) Hit {
	h.experience = &years
	return h
}

// Counts summarizes a fused result.
type Counts struct {
	Total      int
	Structured int
	Semantic   int
}

// Fused is the ordered, deduplicated merge of both sources.
// Err is set when fusion failed and Hits is empty.
type Fused struct {
	Hits   []Hit
	Counts Counts
	Err    error
}
