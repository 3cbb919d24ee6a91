package server

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"

	"github.com/openshift-online/watchdog/cmd/watchdog/server/logging"
)

const healthCheckInterval = 10 * time.Second

// dependencyCheck reports an error when a backing dependency is unusable.
type dependencyCheck func() error

type HealthCheckServer struct {
	httpServer *http.Server
	checks     map[string]dependencyCheck
	ready      atomic.Bool
}

var _ Server = &HealthCheckServer{}

func NewHealthCheckServer() *HealthCheckServer {
	checks := map[string]dependencyCheck{}
	if sessionFactory := env().Database.SessionFactory; sessionFactory != nil {
		checks["database"] = sessionFactory.CheckConnection
	}
	if client := env().Clients.JetStream; client != nil {
		checks["message_broker"] = func() error {
			if !client.Connected() {
				return fmt.Errorf("not connected to %s", env().Config.MessageBroker.URL)
			}
			return nil
		}
	}

	server := newHealthCheckServer(checks)
	server.httpServer.Addr = env().Config.HTTPServer.Hostname + ":" + env().Config.HealthCheck.BindPort
	return server
}

func newHealthCheckServer(checks map[string]dependencyCheck) *HealthCheckServer {
	router := mux.NewRouter()
	logging.RegisterLoggerMiddleware(router)

	server := &HealthCheckServer{
		httpServer: &http.Server{Handler: router},
		checks:     checks,
	}
	router.HandleFunc("/healthcheck", server.healthCheckHandler).Methods(http.MethodGet)
	return server
}

func (s *HealthCheckServer) Start(ctx context.Context) {
	logger := klog.FromContext(ctx)
	logger.Info("Starting HealthCheck server")

	// periodically probe the dependencies, the handler only reads the cached result
	go wait.UntilWithContext(ctx, s.probe, healthCheckInterval)

	var err error
	if env().Config.HealthCheck.EnableHTTPS {
		if env().Config.HTTPServer.HTTPSCertFile == "" || env().Config.HTTPServer.HTTPSKeyFile == "" {
			check(ctx,
				fmt.Errorf("unspecified required --https-cert-file, --https-key-file"),
				"Can't start https server",
			)
		}

		// Serve with TLS
		logger.Info("Serving HealthCheck with TLS", "port", env().Config.HealthCheck.BindPort)
		err = s.httpServer.ListenAndServeTLS(env().Config.HTTPServer.HTTPSCertFile, env().Config.HTTPServer.HTTPSKeyFile)
	} else {
		logger.Info("Serving HealthCheck without TLS", "port", env().Config.HealthCheck.BindPort)
		err = s.httpServer.ListenAndServe()
	}
	check(ctx, err, "HealthCheck server terminated with errors")
	logger.Info("HealthCheck server terminated")
}

func (s *HealthCheckServer) Stop() error {
	return s.httpServer.Shutdown(context.Background())
}

func (s *HealthCheckServer) probe(ctx context.Context) {
	logger := klog.FromContext(ctx)
	ready := true
	for name, checkFn := range s.checks {
		if err := checkFn(); err != nil {
			logger.Error(err, "Dependency check failed", "dependency", name)
			ready = false
		}
	}
	if ready != s.ready.Load() {
		logger.Info("Readiness changed", "ready", ready)
	}
	s.ready.Store(ready)
}

// healthCheckHandler returns a 200 OK if every dependency answered on the last probe, 503 Service Unavailable otherwise.
func (s *HealthCheckServer) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	logger := klog.FromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")

	if s.ready.Load() {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status": "ok"}`)); err != nil {
			logger.Error(err, "Error writing healthcheck response")
		}
		return
	}

	w.WriteHeader(http.StatusServiceUnavailable)
	if _, err := w.Write([]byte(`{"status": "not ready"}`)); err != nil {
		logger.Error(err, "Error writing healthcheck response")
	}
}
