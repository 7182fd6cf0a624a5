// Package metrics exposes Prometheus instrumentation for rewrite
// outcomes, in the Namespace/Subsystem/CounterVec/HistogramVec shape
// this corpus's own rule engine already registers its metrics in.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"tftpremap/internal/domain"
)

var (
	rewritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tftpremap",
			Subsystem: "engine",
			Name:      "rewrites_total",
			Help:      "Total Rewrite calls by outcome",
		},
		[]string{"outcome"},
	)

	ruleSteps = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tftpremap",
			Subsystem: "engine",
			Name:      "rule_steps",
			Help:      "Regex-execution steps consumed per Rewrite call",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	deadmanTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tftpremap",
			Subsystem: "engine",
			Name:      "deadman_total",
			Help:      "Total deadman step-budget trips",
		},
	)
)

func init() {
	prometheus.MustRegister(rewritesTotal, ruleSteps, deadmanTotal)
}

// Registry implements rules.Recorder against the package-level
// Prometheus collectors above.
type Registry struct{}

// NewRegistry builds a Registry. Its methods are safe for concurrent use
// since they only delegate to prometheus.CounterVec/HistogramVec, which
// are themselves concurrency-safe.
func NewRegistry() *Registry { return &Registry{} }

// ObserveRewrite records the outcome and step count of one Rewrite call.
func (*Registry) ObserveRewrite(outcome domain.Outcome, steps int) {
	rewritesTotal.WithLabelValues(string(outcome)).Inc()
	ruleSteps.WithLabelValues(string(outcome)).Observe(float64(steps))
	if outcome == domain.OutcomeDeadman {
		deadmanTotal.Inc()
	}
}
