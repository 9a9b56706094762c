// Package chi exposes the search pipeline over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/rosterdex/internal/domain"
	"github.com/kailas-cloud/rosterdex/internal/domain/query/decision"
	"github.com/kailas-cloud/rosterdex/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/rosterdex/internal/logger"
	"github.com/kailas-cloud/rosterdex/internal/metrics"
	healthuc "github.com/kailas-cloud/rosterdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/rosterdex/internal/usecase/search"
)

// maxBodyBytes bounds request bodies; queries are capped far below this.
const maxBodyBytes = 64 << 10

// Searcher answers and routes queries.
type Searcher interface {
	Search(ctx context.Context, req request.Request) (searchuc.Response, error)
	Route(ctx context.Context, req request.Request) decision.Decision
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers.
type Server struct {
	search        Searcher
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{search: search, health: health, logger: logger}
	s.errorHandlers = []errorHandler{
		detailHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, ErrorCodeUnavailable),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, ErrorCodeUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, ErrorCodeUpstream),
		sentinelHandler(domain.ErrLLMUnavailable, http.StatusBadGateway, ErrorCodeUpstream),
	}
	return s
}

// Router builds the chi router with the standard middleware chain.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Post("/route", s.Route)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
	return r
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := s.search.Search(ctx, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setUsageHeaders(w, usage)
	w.Header().Set("X-Query-ID", resp.QueryID.String())
	writeJSON(w, http.StatusOK, searchResponseToDTO(&resp))
}

// Route handles POST /api/v1/route: the routing decision without retrieval.
func (s *Server) Route(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	d := s.search.Route(ctx, req)

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, decisionToDTO(d))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (request.Request, bool) {
	var body SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return request.Request{}, false
	}

	limit := 0
	if body.Limit != nil {
		limit = *body.Limit
	}
	minScore := 0.0
	if body.MinScore != nil {
		minScore = *body.MinScore
	}

	req, err := request.New(body.Query, limit, minScore)
	if err != nil {
		s.handleDomainError(w, r, err)
		return request.Request{}, false
	}
	return req, true
}

func setUsageHeaders(w http.ResponseWriter, usage *domain.RequestUsage) {
	if n := usage.EmbeddingTokens(); n > 0 {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(n))
	}
	if usage.LLMCalled() {
		w.Header().Set("X-LLM-Tokens", strconv.Itoa(usage.LLMTokens()))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler matches a single sentinel and reports only its message,
// keeping wrapped internals out of responses.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// detailHandler is sentinelHandler for errors whose full text is client-safe.
func detailHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternal, "internal error")
}
