package db

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	// Register the metrics for registry queries
	RegisterQueryMetrics()
}

// Subsystem used to define the metrics:
const metricsSubsystem = "registry"

// Names of the labels added to metrics:
const (
	metricsOperationLabel = "operation"
	metricsStatusLabel    = "status"
)

// metricsLabels - Array of labels added to metrics:
var metricsLabels = []string{
	metricsOperationLabel,
	metricsStatusLabel,
}

// Values of the status label:
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Names of the metrics:
const (
	countMetric    = "query_count"
	durationMetric = "query_duration"
)

// Description of the query count metric:
var queryCountMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: metricsSubsystem,
		Name:      countMetric,
		Help:      "Number of server registry queries.",
	},
	metricsLabels,
)

// Description of the query duration metric:
var queryDurationMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Subsystem: metricsSubsystem,
		Name:      durationMetric,
		Help:      "Server registry query durations in seconds.",
		Buckets: []float64{
			0.01,
			0.05,
			0.1,
			0.5,
			1.0,
			5.0,
		},
	},
	metricsLabels,
)

// Register the metrics:
func RegisterQueryMetrics() {
	prometheus.MustRegister(queryCountMetric)
	prometheus.MustRegister(queryDurationMetric)
}

// Unregister the metrics:
func UnregisterQueryMetrics() {
	prometheus.Unregister(queryCountMetric)
	prometheus.Unregister(queryDurationMetric)
}

// ResetQueryMetricsCollectors resets all collectors
func ResetQueryMetricsCollectors() {
	queryCountMetric.Reset()
	queryDurationMetric.Reset()
}

// UpdateQueryMetrics records one registry query that started at startTime.
func UpdateQueryMetrics(operation string, err error, startTime time.Time) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	labels := prometheus.Labels{
		metricsOperationLabel: operation,
		metricsStatusLabel:    status,
	}
	queryCountMetric.With(labels).Inc()
	queryDurationMetric.With(labels).Observe(time.Since(startTime).Seconds())
}
