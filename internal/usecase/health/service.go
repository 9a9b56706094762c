package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates that search still answers with reduced quality.
	Degraded Status = "degraded"
	// Unhealthy indicates the roster itself cannot be queried.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentRoster    = "roster"
	ComponentIndex     = "index"
	ComponentEmbedding = "embedding"
	ComponentLLM       = "llm"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	roster    Pinger
	index     Pinger
	embedding Checker
	llm       Checker
}

// New creates a Service. Every dependency except roster can be nil.
func New(roster, index Pinger, embedding, llm Checker) *Service {
	return &Service{roster: roster, index: index, embedding: embedding, llm: llm}
}

// Check runs health checks against all components. A roster failure is
// unhealthy; any other failure only degrades search.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks[ComponentRoster] = result(s.roster.Ping(ctx))
	if s.index != nil {
		checks[ComponentIndex] = result(s.index.Ping(ctx))
	}
	if s.embedding != nil {
		checks[ComponentEmbedding] = result(s.embedding.HealthCheck(ctx))
	}
	if s.llm != nil {
		checks[ComponentLLM] = result(s.llm.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks[ComponentRoster] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
