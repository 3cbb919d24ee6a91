package heartbeat

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	RegisterHeartbeatMetrics()
}

const metricsSubsystem = "heartbeat"

const metricsResultLabel = "result"

// Values of the result label:
const (
	resultAcked       = "acked"
	resultDecodeError = "decode_error"
	resultApplyError  = "apply_error"
	resultAckError    = "ack_error"
)

var messagesMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: metricsSubsystem,
		Name:      "messages_total",
		Help:      "Number of heartbeat messages handled, by result.",
	},
	[]string{metricsResultLabel},
)

var fetchErrorsMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: metricsSubsystem,
		Name:      "fetch_errors_total",
		Help:      "Number of failed pulls from the heartbeat stream.",
	},
)

var batchSizeMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Subsystem: metricsSubsystem,
		Name:      "batch_size",
		Help:      "Number of messages returned by one pull.",
		Buckets:   prometheus.LinearBuckets(0, 2, 11),
	},
)

// Register the metrics:
func RegisterHeartbeatMetrics() {
	prometheus.MustRegister(messagesMetric)
	prometheus.MustRegister(fetchErrorsMetric)
	prometheus.MustRegister(batchSizeMetric)
}

// Unregister the metrics:
func UnregisterHeartbeatMetrics() {
	prometheus.Unregister(messagesMetric)
	prometheus.Unregister(fetchErrorsMetric)
	prometheus.Unregister(batchSizeMetric)
}

// ResetHeartbeatMetrics resets the labeled collectors
func ResetHeartbeatMetrics() {
	messagesMetric.Reset()
}

func updateMessagesMetric(result string) {
	messagesMetric.With(prometheus.Labels{metricsResultLabel: result}).Inc()
}
