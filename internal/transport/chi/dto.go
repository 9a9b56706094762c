package chi

// ErrorCode classifies API errors.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeRateLimited      ErrorCode = "rate_limited"
	ErrorCodeUpstream         ErrorCode = "upstream_error"
	ErrorCodeUnavailable      ErrorCode = "unavailable"
	ErrorCodeInternal         ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchRequest is the body of POST /api/v1/search and /api/v1/route.
type SearchRequest struct {
	Query    string   `json:"query"`
	Limit    *int     `json:"limit,omitempty"`
	MinScore *float64 `json:"min_score,omitempty"`
}

// HitDTO is one ranked hit.
type HitDTO struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Source     string            `json:"source"`
	Score      float64           `json:"score"`
	Experience *float64          `json:"experience_years,omitempty"`
	Attributes map[string]string `json:"attributes"`
}

// CountsDTO summarizes where hits came from.
type CountsDTO struct {
	Total      int `json:"total"`
	Structured int `json:"structured"`
	Semantic   int `json:"semantic"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	QueryID         string    `json:"query_id"`
	Query           string    `json:"query"`
	Category        string    `json:"category"`
	Strategy        string    `json:"strategy"`
	Rationale       string    `json:"rationale"`
	StructuredQuery string    `json:"structured_query"`
	Hits            []HitDTO  `json:"hits"`
	Counts          CountsDTO `json:"counts"`
	Error           string    `json:"error,omitempty"`
	LatencyMS       int64     `json:"latency_ms"`
}

// ConditionsDTO lists what the router understood from the query.
type ConditionsDTO struct {
	Deployment    []string `json:"deployment,omitempty"`
	Skills        []string `json:"skills,omitempty"`
	Department    string   `json:"department,omitempty"`
	Location      string   `json:"location,omitempty"`
	Project       string   `json:"project,omitempty"`
	Name          string   `json:"name,omitempty"`
	ExperienceMin *float64 `json:"experience_min,omitempty"`
	ExperienceMax *float64 `json:"experience_max,omitempty"`
}

// RouteResponse is the body of POST /api/v1/route.
type RouteResponse struct {
	Category        string        `json:"category"`
	Strategy        string        `json:"strategy"`
	Rationale       string        `json:"rationale"`
	StructuredQuery string        `json:"structured_query"`
	SemanticTerms   string        `json:"semantic_terms"`
	Fallback        bool          `json:"fallback"`
	Conditions      ConditionsDTO `json:"conditions"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
