package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks bootstrap activity.
//
// All methods are safe on a nil *Metrics so library callers that do not
// care about metrics can pass nil.
type Metrics struct {
	// RunCounter counts finished runs.
	// Labels: method (parametric|nonparametric|plugin), status (success|error)
	RunCounter *prometheus.CounterVec

	// RunDuration measures wall time per run in seconds.
	// Labels: method
	RunDuration *prometheus.HistogramVec

	// IterationCounter counts bootstrap iterations that produced a value.
	// Labels: method
	IterationCounter *prometheus.CounterVec

	// ExcludedCounter counts nonparametric resamples dropped for non-convergence.
	ExcludedCounter prometheus.Counter

	// ErrorCounter counts failed runs by error category.
	// Labels: category (configuration|extraction|convergence|randomness|canceled|internal)
	ErrorCounter *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg.
// Pass prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediate_bootstrap_runs_total",
				Help: "Total number of bootstrap runs by method and status",
			},
			[]string{"method", "status"},
		),
		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mediate_bootstrap_run_duration_seconds",
				Help:    "Bootstrap run duration in seconds",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"method"},
		),
		IterationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediate_bootstrap_iterations_total",
				Help: "Total number of retained bootstrap iterations",
			},
			[]string{"method"},
		),
		ExcludedCounter: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mediate_bootstrap_excluded_iterations_total",
				Help: "Total number of nonparametric resamples excluded for non-convergence",
			},
		),
		ErrorCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediate_bootstrap_errors_total",
				Help: "Total number of failed bootstrap runs by error category",
			},
			[]string{"category"},
		),
	}
}

// RunSucceeded records a completed run
func (m *Metrics) RunSucceeded(method string, iterations, excluded int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RunCounter.WithLabelValues(method, "success").Inc()
	m.RunDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	m.IterationCounter.WithLabelValues(method).Add(float64(iterations))
	m.ExcludedCounter.Add(float64(excluded))
}

// RunFailed records a failed run
func (m *Metrics) RunFailed(method, category string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RunCounter.WithLabelValues(method, "error").Inc()
	m.RunDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	m.ErrorCounter.WithLabelValues(category).Inc()
}
