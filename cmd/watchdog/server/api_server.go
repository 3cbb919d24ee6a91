package server

import (
	"context"
	"fmt"
	"net"
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	gorillahandlers "github.com/gorilla/handlers"
	"k8s.io/klog/v2"
)

type apiServer struct {
	httpServer *http.Server
}

var _ Server = &apiServer{}

func NewAPIServer() Server {
	s := &apiServer{}

	mainRouter := s.routes()

	// Sentryhttp middleware attaches a *sentry.Hub to the request context and reports panics
	if env().Config.Sentry.Enabled {
		sentryhttpOptions := sentryhttp.Options{
			Repanic:         true,
			WaitForDelivery: false,
			Timeout:         env().Config.Sentry.Timeout,
		}
		sentryMW := sentryhttp.New(sentryhttpOptions)
		mainRouter.Use(sentryMW.Handle)
	}

	// referring to the router as type http.Handler allows us to add middleware via more handlers
	var mainHandler http.Handler = mainRouter
	mainHandler = gorillahandlers.RecoveryHandler(gorillahandlers.PrintRecoveryStack(true))(mainHandler)
	mainHandler = removeTrailingSlash(mainHandler)

	s.httpServer = &http.Server{
		Addr:         env().Config.HTTPServer.BindAddress(),
		Handler:      mainHandler,
		ReadTimeout:  env().Config.HTTPServer.ReadTimeout,
		WriteTimeout: env().Config.HTTPServer.WriteTimeout,
	}

	return s
}

// Serve start the blocking call to Serve.
// Useful for breaking up ListenAndServer (Start) when you require the server to be listening before continuing
func (s apiServer) Serve(ctx context.Context, listener net.Listener) {
	logger := klog.FromContext(ctx)
	var err error
	if env().Config.HTTPServer.EnableHTTPS {
		// Check https cert and key path path
		if env().Config.HTTPServer.HTTPSCertFile == "" || env().Config.HTTPServer.HTTPSKeyFile == "" {
			check(ctx,
				fmt.Errorf("unspecified required --https-cert-file, --https-key-file"),
				"Can't start https server",
			)
		}

		// Serve with TLS
		logger.Info("Serving with TLS", "address", env().Config.HTTPServer.BindAddress())
		err = s.httpServer.ServeTLS(listener, env().Config.HTTPServer.HTTPSCertFile, env().Config.HTTPServer.HTTPSKeyFile)
	} else {
		logger.Info("Serving without TLS", "address", env().Config.HTTPServer.BindAddress())
		err = s.httpServer.Serve(listener)
	}

	// Web server terminated.
	check(ctx, err, "Web server terminated with errors")
	logger.Info("Web server terminated")
}

// Listen only start the listener, not the server.
func (s apiServer) Listen() (listener net.Listener, err error) {
	return net.Listen("tcp", env().Config.HTTPServer.BindAddress())
}

// Start listening on the configured port and start the server. This is a convenience wrapper for Listen() and Serve(listener Listener)
func (s apiServer) Start(ctx context.Context) {
	listener, err := s.Listen()
	check(ctx, err, "Unable to start API server")
	s.Serve(ctx, listener)
}

func (s apiServer) Stop() error {
	return s.httpServer.Shutdown(context.Background())
}
