package detector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	RegisterDetectorMetrics()
}

// Subsystem used to define the metrics:
const metricsSubsystem = "detector"

// Names of the labels added to metrics:
const (
	metricsOutcomeLabel = "outcome"
	metricsZoneLabel    = "zone"
	metricsToLabel      = "to"
)

const (
	transitionAlive = "alive"
	transitionDead  = "dead"
)

var heartbeatsMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: metricsSubsystem,
		Name:      "heartbeats_total",
		Help:      "Number of heartbeats applied to the state table, by outcome.",
	},
	[]string{metricsOutcomeLabel},
)

var aliveServersMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Subsystem: metricsSubsystem,
		Name:      "alive_servers",
		Help:      "Number of servers currently considered alive, by zone.",
	},
	[]string{metricsZoneLabel},
)

var transitionsMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: metricsSubsystem,
		Name:      "transitions_total",
		Help:      "Number of liveness transitions, by target state.",
	},
	[]string{metricsToLabel},
)

var sweepDurationMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Subsystem: metricsSubsystem,
		Name:      "sweep_duration_seconds",
		Help:      "Duration of the periodic liveness sweep in seconds.",
		Buckets: []float64{
			0.0001,
			0.001,
			0.01,
			0.1,
			1.0,
		},
	},
)

// Register the metrics:
func RegisterDetectorMetrics() {
	prometheus.MustRegister(heartbeatsMetric)
	prometheus.MustRegister(aliveServersMetric)
	prometheus.MustRegister(transitionsMetric)
	prometheus.MustRegister(sweepDurationMetric)
}

// Unregister the metrics:
func UnregisterDetectorMetrics() {
	prometheus.Unregister(heartbeatsMetric)
	prometheus.Unregister(aliveServersMetric)
	prometheus.Unregister(transitionsMetric)
	prometheus.Unregister(sweepDurationMetric)
}

// ResetDetectorMetrics resets all collectors
func ResetDetectorMetrics() {
	heartbeatsMetric.Reset()
	aliveServersMetric.Reset()
	transitionsMetric.Reset()
}

func updateHeartbeatsMetric(outcome Outcome) {
	heartbeatsMetric.With(prometheus.Labels{metricsOutcomeLabel: outcome.String()}).Inc()
}

func updateTransitionMetrics(zone string, alive bool) {
	gauge := aliveServersMetric.With(prometheus.Labels{metricsZoneLabel: zone})
	if alive {
		gauge.Inc()
		transitionsMetric.With(prometheus.Labels{metricsToLabel: transitionAlive}).Inc()
		return
	}
	gauge.Dec()
	transitionsMetric.With(prometheus.Labels{metricsToLabel: transitionDead}).Inc()
}

func updateSweepDurationMetric(startTime time.Time) {
	sweepDurationMetric.Observe(time.Since(startTime).Seconds())
}
