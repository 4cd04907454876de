// Package metrics exposes Prometheus collectors for optimization runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/copyleftdev/labbench/internal/optimization"
)

const namespace = "labbench"

// Metrics holds the run collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	evaluations *prometheus.CounterVec
	lastBest    *prometheus.GaugeVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed optimization runs.",
		}, []string{"strategy"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a complete run.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"strategy"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objective_evaluations_total",
			Help:      "Objective evaluations performed by runs.",
		}, []string{"strategy"}),
		lastBest: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_best_value",
			Help:      "Final best-so-far value of the most recent run.",
		}, []string{"strategy"}),
	}

	for _, c := range []prometheus.Collector{m.runs, m.duration, m.evaluations, m.lastBest} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveRun records a completed run.
func (m *Metrics) ObserveRun(result *optimization.RunResult, elapsed time.Duration) {
	if m == nil || result == nil {
		return
	}
	strategy := string(result.Strategy)
	m.runs.WithLabelValues(strategy).Inc()
	m.duration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	m.evaluations.WithLabelValues(strategy).Add(float64(len(result.History)))
	if len(result.History) > 0 {
		m.lastBest.WithLabelValues(strategy).Set(result.FinalBest())
	}
}
