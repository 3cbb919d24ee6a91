package logging

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"k8s.io/klog/v2"
)

// RegisterLoggerMiddleware installs RequestLoggingMiddleware on the given router.
func RegisterLoggerMiddleware(router *mux.Router) {
	router.Use(RequestLoggingMiddleware)
}

func RequestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSuffix(r.URL.Path, "/")
		doLog := true
		logLevel := 2

		// scraped constantly, not useful at the default level
		if path == "/metrics" {
			doLog = false
		}

		if path == "/healthcheck" {
			logLevel = 4
		}

		logger := klog.FromContext(r.Context())
		loggingWriter := NewLoggingWriter(logger, w, r, NewJSONLogFormatter())

		if doLog {
			msg, err := loggingWriter.prepareRequestLog()
			loggingWriter.log(logLevel, msg, err)
		}

		before := time.Now()
		next.ServeHTTP(loggingWriter, r)
		elapsed := time.Since(before).String()

		if doLog {
			msg, err := loggingWriter.prepareResponseLog(elapsed)
			loggingWriter.log(logLevel, msg, err)
		}
	})
}
