// Package experience applies numeric experience bounds to fetched hits.
//
// Experience is stored as free text ("8+ years", "3.5 yrs"), so it cannot be
// filtered by the structured store and is checked here after retrieval.
package experience

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/rosterdex/internal/domain/query/condition"
	"github.com/kailas-cloud/rosterdex/internal/domain/roster"
	"github.com/kailas-cloud/rosterdex/internal/domain/search/hit"
)

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Parse returns the first number in raw, or 0 when there is none.
func Parse(raw string) float64 {
	m := numberPattern.FindString(strings.ToLower(strings.TrimSpace(raw)))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// Filter keeps hits whose parsed experience lies within the inclusive bounds
// of conds, preserving order. Surviving hits carry the parsed value.
func Filter(hits []hit.Hit, conds condition.Set) []hit.Hit {
	lo, hasLo := conds.ExperienceMin()
	hi, hasHi := conds.ExperienceMax()

	out := make([]hit.Hit, 0, len(hits))
	for _, h := range hits {
		years := Parse(h.Attributes()[roster.FieldExperience])
		if hasLo && years < lo {
			continue
		}
		if hasHi && years > hi {
			continue
		}
		out = append(out, h.WithExperience(years))
	}
	return out
}
