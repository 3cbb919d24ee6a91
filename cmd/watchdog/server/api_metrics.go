package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	prometheus.MustRegister(requestCountMetric)
	prometheus.MustRegister(requestDurationMetric)
}

// Subsystem used to define the metrics:
const metricsSubsystem = "api_inbound"

// Names of the labels added to metrics:
const (
	metricsMethodLabel = "method"
	metricsPathLabel   = "path"
	metricsCodeLabel   = "code"
)

// MetricsLabels - Array of labels added to metrics:
var MetricsLabels = []string{
	metricsMethodLabel,
	metricsPathLabel,
	metricsCodeLabel,
}

// Description of the requests count metric:
var requestCountMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: metricsSubsystem,
		Name:      "request_count",
		Help:      "Number of requests served.",
	},
	MetricsLabels,
)

// Description of the request duration metric:
var requestDurationMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Subsystem: metricsSubsystem,
		Name:      "request_duration",
		Help:      "Request duration in seconds.",
		Buckets: []float64{
			0.001,
			0.01,
			0.1,
			1.0,
		},
	},
	MetricsLabels,
)

// MetricsMiddleware records count and duration of every API request, labeled by the route
// template so zone values do not create new series.
func MetricsMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapper := &metricsResponseWrapper{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()

		handler.ServeHTTP(wrapper, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if template, err := route.GetPathTemplate(); err == nil {
				path = template
			}
		}
		labels := prometheus.Labels{
			metricsMethodLabel: r.Method,
			metricsPathLabel:   path,
			metricsCodeLabel:   strconv.Itoa(wrapper.code),
		}
		requestCountMetric.With(labels).Inc()
		requestDurationMetric.With(labels).Observe(time.Since(start).Seconds())
	})
}

// ResetMetricCollectors resets all prometheus collectors
func ResetMetricCollectors() {
	requestCountMetric.Reset()
	requestDurationMetric.Reset()
}

type metricsResponseWrapper struct {
	http.ResponseWriter
	code int
}

func (w *metricsResponseWrapper) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
