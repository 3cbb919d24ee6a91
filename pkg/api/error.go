package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"k8s.io/klog/v2"
)

const ErrorType = "Error"

// Error is the JSON body of every error response.
type Error struct {
	Kind        string `json:"kind"`
	ID          string `json:"id"`
	Href        string `json:"href"`
	Code        string `json:"code"`
	Reason      string `json:"reason"`
	OperationID string `json:"operation_id,omitempty"`
}

// SendNotFound sends a 404 response with some details about the non existing resource.
func SendNotFound(w http.ResponseWriter, r *http.Request) {
	// Set the content type:
	w.Header().Set("Content-Type", "application/json")

	// Prepare the body:
	id := "404"
	reason := fmt.Sprintf(
		"The requested resource '%s' doesn't exist",
		r.URL.Path,
	)
	body := Error{
		Kind:   ErrorType,
		ID:     id,
		Href:   "/api/watchdog/v1/errors/" + id,
		Code:   "watchdog-" + id,
		Reason: reason,
	}
	data, err := json.Marshal(body)
	if err != nil {
		SendPanic(w, r)
		return
	}

	// Send the response:
	w.WriteHeader(http.StatusNotFound)
	_, err = w.Write(data)
	if err != nil {
		logger := klog.FromContext(r.Context())
		logger.Error(err, "cannot send response body for request", "path", r.URL.Path)
		return
	}
}

// SendPanic sends a panic error response to the client, but it doesn't end the process.
func SendPanic(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, err := w.Write(panicBody)
	if err != nil {
		logger := klog.FromContext(r.Context())
		logger.Error(err, "cannot send response body for request", "path", r.URL.Path)
	}
}

// panicBody is sent when building another error response failed.
var panicBody []byte

func init() {
	var err error

	panicID := "1000"
	panicError := Error{
		Kind: ErrorType,
		ID:   panicID,
		Href: "/api/watchdog/v1/errors/" + panicID,
		Code: "watchdog-" + panicID,
		Reason: "An unexpected error happened, please check the log of the service " +
			"for details",
	}

	panicBody, err = json.Marshal(panicError)
	if err != nil {
		klog.Errorf("cannot create the panic error body: %s", err.Error())
		os.Exit(1)
	}
}
