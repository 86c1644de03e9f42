// Package metrics wires Prometheus counters and histograms into the
// HTTP middleware and the comparison driver, adapted from a sketch
// the source project had left disabled.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestCount counts HTTP requests by method, route and status.
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration measures HTTP request duration.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "endpoint"},
	)

	// ComputationCount counts plagiarism computation runs by outcome.
	ComputationCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plagiarism_computations_total",
			Help: "Total number of plagiarism computations",
		},
		[]string{"status"},
	)

	// ComputationDuration measures a full drive computation's wall time.
	ComputationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "plagiarism_computation_duration_seconds",
			Help: "Plagiarism computation duration in seconds",
		},
	)

	// ComparisonsEvaluated counts individual pairwise comparisons run
	// by the matcher, split by whether they cleared the similarity
	// threshold.
	ComparisonsEvaluated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plagiarism_comparisons_total",
			Help: "Total number of pairwise comparisons evaluated",
		},
		[]string{"significant"},
	)
)

// InitPrometheus registers every collector with the default registry.
func InitPrometheus() {
	prometheus.MustRegister(RequestCount)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(ComputationCount)
	prometheus.MustRegister(ComputationDuration)
	prometheus.MustRegister(ComparisonsEvaluated)
}

// ObserveComputation records a completed drive computation.
func ObserveComputation(status string, elapsed time.Duration) {
	ComputationCount.WithLabelValues(status).Inc()
	ComputationDuration.Observe(elapsed.Seconds())
}

// ObserveComparison records one pairwise comparison outcome.
func ObserveComparison(significant bool) {
	label := "false"
	if significant {
		label = "true"
	}
	ComparisonsEvaluated.WithLabelValues(label).Inc()
}
