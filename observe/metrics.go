// Package observe exposes Prometheus instrumentation for the codegate
// command surfaces.
package observe

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Evaluations counts completed evaluations by outcome.
	Evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codegate",
		Name:      "evaluations_total",
		Help:      "Completed constraint evaluations by outcome.",
	}, []string{"outcome"})

	// Violations counts reported violations by tier.
	Violations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codegate",
		Name:      "violations_total",
		Help:      "Constraint violations reported by tier.",
	}, []string{"tier"})

	// ParseFailures counts units rejected before evaluation.
	ParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "codegate",
		Name:      "parse_failures_total",
		Help:      "Source units that failed to parse.",
	})
)

// RecordEvaluation updates the counters for one completed evaluation.
func RecordEvaluation(passed bool, primary, secondary int) {
	outcome := "passed"
	if !passed {
		outcome = "rejected"
	}
	Evaluations.WithLabelValues(outcome).Inc()
	Violations.WithLabelValues("primary").Add(float64(primary))
	Violations.WithLabelValues("secondary").Add(float64(secondary))
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
