package server

import (
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/openshift-online/watchdog/cmd/watchdog/server/logging"
	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/handlers"
	"github.com/openshift-online/watchdog/pkg/logger"
)

func (s *apiServer) routes() *mux.Router {
	services := &env().Services

	bestServerHandler := handlers.NewBestServerHandler(services.BestServers())

	// mainRouter is top level "/"
	mainRouter := mux.NewRouter()
	mainRouter.NotFoundHandler = http.HandlerFunc(api.SendNotFound)

	// Operation ID middleware sets a relatively unique operation ID in the context of each request for debugging purposes
	mainRouter.Use(logger.OperationIDMiddleware)

	// Request logging middleware logs pertinent information about the request and response
	mainRouter.Use(logging.RequestLoggingMiddleware)

	//  /api/watchdog/v1
	apiV1Router := mainRouter.PathPrefix("/api/watchdog/v1").Subrouter()
	registerApiMiddleware(apiV1Router)

	//  /api/watchdog/v1/best
	apiV1Router.HandleFunc("/best", bestServerHandler.List).Methods(http.MethodGet)

	//  /api/watchdog/v1/servers
	apiV1Router.HandleFunc("/servers", bestServerHandler.States).Methods(http.MethodGet)

	return mainRouter
}

func registerApiMiddleware(router *mux.Router) {
	router.Use(MetricsMiddleware)

	router.Use(gorillahandlers.CompressHandler)
}
