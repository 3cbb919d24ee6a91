package handlers

import (
	"encoding/json"
	"net/http"

	"k8s.io/klog/v2"

	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/api/presenters"
	"github.com/openshift-online/watchdog/pkg/errors"
	"github.com/openshift-online/watchdog/pkg/logger"
)

// handlerConfig defines the common things each REST controller must do.
// The corresponding handle() func runs the validations, then the action, then
// renders either the result or the error.
type handlerConfig struct {
	Validate     []validate
	Action       httpAction
	ErrorHandler errorHandlerFunc
}

type validate func() *errors.ServiceError
type errorHandlerFunc func(r *http.Request, w http.ResponseWriter, err *errors.ServiceError)
type httpAction func() (interface{}, *errors.ServiceError)

func handleError(r *http.Request, w http.ResponseWriter, err *errors.ServiceError) {
	ctx := r.Context()
	log := klog.FromContext(ctx)
	operationID := logger.GetOperationID(ctx)
	// If this is a 400 error, it's the caller's issue, log as info
	if err.HttpCode >= 400 && err.HttpCode <= 499 {
		log.Info("Request failed", "reason", err.Error())
	} else {
		log.Error(err.AsError(), "Request failed")
	}

	writeJSONResponse(w, r, err.HttpCode, presenters.PresentError(err, operationID))
}

// handleGet runs a read-only action, there is no request body to unmarshal.
func handleGet(w http.ResponseWriter, r *http.Request, cfg *handlerConfig) {
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = handleError
	}

	for _, v := range cfg.Validate {
		if err := v(); err != nil {
			cfg.ErrorHandler(r, w, err)
			return
		}
	}

	result, serviceErr := cfg.Action()
	if serviceErr != nil {
		cfg.ErrorHandler(r, w, serviceErr)
		return
	}
	writeJSONResponse(w, r, http.StatusOK, result)
}

func writeJSONResponse(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")

	if payload == nil {
		w.WriteHeader(code)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		klog.FromContext(r.Context()).Error(err, "Unable to marshal response")
		api.SendPanic(w, r)
		return
	}

	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		klog.FromContext(r.Context()).Error(err, "cannot send response body for request", "path", r.URL.Path)
	}
}
