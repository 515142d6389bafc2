package workflow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides Prometheus-compatible metrics for workflow execution.
//
// Metrics exposed (all namespaced "onex"):
//
//  1. executions_total (counter): Execute calls by terminal status.
//     Labels: status (COMPLETED, FAILED, CANCELLED).
//  2. steps_total (counter): steps by terminal bucket.
//     Labels: bucket (completed, failed, skipped).
//  3. actions_emitted_total (counter): actions emitted across all runs.
//  4. waves_total (counter): waves processed across all runs.
//  5. execute_latency_ms (histogram): Execute call duration.
//     Buckets: 1ms to 10s.
//  6. validation_errors_total (counter): Validate rejections.
//
// Usage:
//
//	registry := prometheus.NewRegistry()
//	metrics := workflow.NewMetrics(registry)
//	exec := workflow.NewExecutor(workflow.WithMetrics(metrics))
//
// Expose via promhttp.HandlerFor(registry, ...) for scraping. Metrics are
// optional: a nil *Metrics disables collection entirely.
type Metrics struct {
	executions       *prometheus.CounterVec
	steps            *prometheus.CounterVec
	actionsEmitted   prometheus.Counter
	waves            prometheus.Counter
	executeLatency   prometheus.Histogram
	validationErrors prometheus.Counter
}

// NewMetrics creates and registers all workflow metrics with the provided
// registry (prometheus.DefaultRegisterer when nil).
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		executions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onex",
			Name:      "executions_total",
			Help:      "Workflow Execute calls by terminal status",
		}, []string{"status"}),

		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onex",
			Name:      "steps_total",
			Help:      "Steps by terminal bucket across all executions",
		}, []string{"bucket"}),

		actionsEmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "onex",
			Name:      "actions_emitted_total",
			Help:      "Actions emitted across all executions",
		}),

		waves: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "onex",
			Name:      "waves_total",
			Help:      "Execution waves processed across all executions",
		}),

		executeLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "onex",
			Name:      "execute_latency_ms",
			Help:      "Execute call duration in milliseconds",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		}),

		validationErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "onex",
			Name:      "validation_errors_total",
			Help:      "Workflow contract validation rejections",
		}),
	}
}

// observeExecution records the terminal facts of one Execute call.
// Safe to call on a nil receiver.
func (m *Metrics) observeExecution(result WorkflowResult, waves int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.executions.WithLabelValues(string(result.Status)).Inc()
	m.steps.WithLabelValues("completed").Add(float64(len(result.CompletedSteps)))
	m.steps.WithLabelValues("failed").Add(float64(len(result.FailedSteps)))
	m.steps.WithLabelValues("skipped").Add(float64(len(result.SkippedSteps)))
	m.actionsEmitted.Add(float64(len(result.ActionsEmitted)))
	m.waves.Add(float64(waves))
	m.executeLatency.Observe(float64(elapsed.Milliseconds()))
}

// observeValidationFailure records a Validate rejection.
// Safe to call on a nil receiver.
func (m *Metrics) observeValidationFailure() {
	if m == nil {
		return
	}
	m.validationErrors.Inc()
}
