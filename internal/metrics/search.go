package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search pipeline metrics.
var (
	RouteDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_decisions_total",
			Help:      "Routing decisions by strategy and category",
		},
		[]string{"strategy", "category"},
	)

	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_duration_seconds",
			Help:      "Retrieval duration per source in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"source"},
	)

	RetrievalErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_errors_total",
			Help:      "Retrieval failures per source",
		},
		[]string{"source"},
	)

	FusedHits = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fused_hits",
			Help:      "Number of hits returned per search",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Language model routing requests by status",
		},
		[]string{"status"},
	)

	LLMRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Language model request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers the search pipeline metrics.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(
			RouteDecisionsTotal,
			RetrievalDuration,
			RetrievalErrorsTotal,
			FusedHits,
			LLMRequestsTotal,
			LLMRequestDuration,
		)
	})
}
