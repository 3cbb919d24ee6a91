package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"

	"github.com/openshift-online/watchdog/pkg/api"
)

type metricsServer struct {
	httpServer *http.Server
}

var _ Server = &metricsServer{}

func NewMetricsServer() Server {
	mainRouter := mux.NewRouter()
	mainRouter.NotFoundHandler = http.HandlerFunc(api.SendNotFound)

	// metrics endpoint
	prometheusMetricsHandler := promhttp.Handler()
	mainRouter.Handle("/metrics", prometheusMetricsHandler)

	var mainHandler http.Handler = mainRouter

	s := &metricsServer{}
	s.httpServer = &http.Server{
		Addr:    env().Config.HTTPServer.Hostname + ":" + env().Config.Metrics.BindPort,
		Handler: mainHandler,
	}
	return s
}

func (s metricsServer) Start(ctx context.Context) {
	logger := klog.FromContext(ctx)
	var err error
	if env().Config.Metrics.EnableHTTPS {
		if env().Config.HTTPServer.HTTPSCertFile == "" || env().Config.HTTPServer.HTTPSKeyFile == "" {
			check(ctx,
				fmt.Errorf("unspecified required --https-cert-file, --https-key-file"),
				"Can't start https server",
			)
		}

		// Serve with TLS
		logger.Info("Serving Metrics with TLS", "port", env().Config.Metrics.BindPort)
		err = s.httpServer.ListenAndServeTLS(env().Config.HTTPServer.HTTPSCertFile, env().Config.HTTPServer.HTTPSKeyFile)
	} else {
		logger.Info("Serving Metrics without TLS", "port", env().Config.Metrics.BindPort)
		err = s.httpServer.ListenAndServe()
	}
	check(ctx, err, "Metrics server terminated with errors")
	logger.Info("Metrics server terminated")
}

func (s metricsServer) Stop() error {
	return s.httpServer.Shutdown(context.Background())
}
