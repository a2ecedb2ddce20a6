// Package metrics provides Prometheus collectors for the review workflow.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics counts use case outcomes and best-effort failures.
type WorkflowMetrics struct {
	registry *prometheus.Registry

	operationsTotal         *prometheus.CounterVec
	operationDuration       *prometheus.HistogramVec
	bestEffortFailuresTotal *prometheus.CounterVec
}

// NewWorkflowMetrics creates and registers workflow metrics.
func NewWorkflowMetrics(registry *prometheus.Registry) (*WorkflowMetrics, error) {
	m := &WorkflowMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *WorkflowMetrics) initMetrics() {
	m.operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_workflow_operations_total",
			Help: "Total number of review workflow operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	m.operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "review_workflow_operation_duration_seconds",
			Help:    "Time taken by review workflow operations",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"operation"},
	)

	m.bestEffortFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_workflow_best_effort_failures_total",
			Help: "Total number of swallowed failures in best-effort side effects",
		},
		[]string{"operation"},
	)
}

// Describe implements the Collector interface
func (m *WorkflowMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.operationsTotal.Describe(ch)
	m.operationDuration.Describe(ch)
	m.bestEffortFailuresTotal.Describe(ch)
}

// Collect implements the Collector interface
func (m *WorkflowMetrics) Collect(ch chan<- prometheus.Metric) {
	m.operationsTotal.Collect(ch)
	m.operationDuration.Collect(ch)
	m.bestEffortFailuresTotal.Collect(ch)
}

func (m *WorkflowMetrics) ObserveOperation(operation string, outcome string, duration time.Duration) {
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *WorkflowMetrics) RecordBestEffortFailure(operation string) {
	m.bestEffortFailuresTotal.WithLabelValues(operation).Inc()
}
