package chi

import (
	"github.com/kailas-cloud/rosterdex/internal/domain/query/condition"
	"github.com/kailas-cloud/rosterdex/internal/domain/query/decision"
	"github.com/kailas-cloud/rosterdex/internal/domain/search/hit"
	searchuc "github.com/kailas-cloud/rosterdex/internal/usecase/search"
)

func hitToDTO(h hit.Hit) HitDTO {
	attrs := h.Attributes()
	if attrs == nil {
		attrs = map[string]string{}
	}
	dto := HitDTO{
		ID:         h.ID(),
		Name:       h.Name(),
		Source:     string(h.Source()),
		Score:      h.Score(),
		Attributes: attrs,
	}
	if years, ok := h.Experience(); ok {
		dto.Experience = &years
	}
	return dto
}

func searchResponseToDTO(resp *searchuc.Response) SearchResponse {
	hits := make([]HitDTO, len(resp.Hits))
	for i, h := range resp.Hits {
		hits[i] = hitToDTO(h)
	}
	return SearchResponse{
		QueryID:         resp.QueryID.String(),
		Query:           resp.Query,
		Category:        string(resp.Category),
		Strategy:        string(resp.Strategy),
		Rationale:       resp.Rationale,
		StructuredQuery: resp.StructuredQuery,
		Hits:            hits,
		Counts: CountsDTO{
			Total:      resp.Counts.Total,
			Structured: resp.Counts.Structured,
			Semantic:   resp.Counts.Semantic,
		},
		Error:     resp.Error,
		LatencyMS: resp.Latency.Milliseconds(),
	}
}

func decisionToDTO(d decision.Decision) RouteResponse {
	return RouteResponse{
		Category:        string(d.Category()),
		Strategy:        string(d.Strategy()),
		Rationale:       d.Rationale(),
		StructuredQuery: d.Query().String(),
		SemanticTerms:   d.Terms(),
		Fallback:        d.IsFallback(),
		Conditions:      conditionsToDTO(d.Conditions()),
	}
}

func conditionsToDTO(c condition.Set) ConditionsDTO {
	dto := ConditionsDTO{
		Skills:     c.Skills(),
		Department: c.Department(),
		Location:   c.Location(),
		Project:    c.Project(),
		Name:       c.Name(),
	}
	for _, flag := range []struct {
		on   bool
		name string
	}{
		{c.Free(), "free"},
		{c.Billable(), "billable"},
		{c.Budgeted(), "budgeted"},
		{c.Support(), "support"},
	} {
		if flag.on {
			dto.Deployment = append(dto.Deployment, flag.name)
		}
	}
	if v, ok := c.ExperienceMin(); ok {
		dto.ExperienceMin = &v
	}
	if v, ok := c.ExperienceMax(); ok {
		dto.ExperienceMax = &v
	}
	return dto
}
