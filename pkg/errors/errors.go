package errors

import (
	"fmt"
	"net/http"
	"strconv"

	"k8s.io/klog/v2"
)

const (
	ErrorTypeHref   = "/api/watchdog/v1/errors"
	ErrorCodePrefix = "watchdog"

	// Invalid request
	ErrorBadRequest ServiceErrorCode = 1

	// Resource not found
	ErrorNotFound ServiceErrorCode = 2

	// General validation failure
	ErrorValidation ServiceErrorCode = 3

	// Something is broken in the service that the user cannot fix
	ErrorGeneral ServiceErrorCode = 4

	// A dependency of the service, database or message broker, is not reachable
	ErrorServiceUnavailable ServiceErrorCode = 5

	// Endpoint exists but is not implemented
	ErrorNotImplemented ServiceErrorCode = 6

	// Resource with the same unique key already exists
	ErrorConflict ServiceErrorCode = 7
)

type ServiceErrorCode int

type ServiceErrors []ServiceError

func Find(code ServiceErrorCode) (bool, *ServiceError) {
	for _, err := range Errors() {
		if err.Code == code {
			return true, &err
		}
	}
	return false, nil
}

func Errors() ServiceErrors {
	return ServiceErrors{
		ServiceError{ErrorBadRequest, "Bad request", http.StatusBadRequest},
		ServiceError{ErrorNotFound, "Resource not found", http.StatusNotFound},
		ServiceError{ErrorValidation, "General validation failure", http.StatusBadRequest},
		ServiceError{ErrorGeneral, "Unspecified error", http.StatusInternalServerError},
		ServiceError{ErrorServiceUnavailable, "Service unavailable", http.StatusServiceUnavailable},
		ServiceError{ErrorNotImplemented, "HTTP Method not implemented for this endpoint", http.StatusMethodNotAllowed},
		ServiceError{ErrorConflict, "An entity with the specified unique values already exists", http.StatusConflict},
	}
}

// ServiceError is the error type returned by services and rendered by handlers.
type ServiceError struct {
	// Code is the numeric and distinct ID for the error
	Code ServiceErrorCode
	// Reason is the context-specific reason the error was generated
	Reason string
	// HttpCode is the HttpCode associated with the error when the error is returned as an API response
	HttpCode int
}

// New returns a ServiceError for the given code with a formatted reason.
// An unknown code is logged and mapped to ErrorGeneral.
func New(code ServiceErrorCode, reason string, values ...interface{}) *ServiceError {
	exists, err := Find(code)
	if !exists {
		klog.Errorf("Undefined error code used: %d", code)
		err = &ServiceError{ErrorGeneral, "Unspecified error", http.StatusInternalServerError}
	}

	// If the reason is unspecified, use the default
	if reason != "" {
		err.Reason = fmt.Sprintf(reason, values...)
	}

	return err
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", CodeStr(e.Code), e.Reason)
}

func (e *ServiceError) AsError() error {
	return fmt.Errorf("%s", e.Error())
}

func (e *ServiceError) Is404() bool {
	return e.Code == NotFound("").Code
}

func CodeStr(code ServiceErrorCode) string {
	return ErrorCodePrefix + "-" + strconv.Itoa(int(code))
}

func Href(code ServiceErrorCode) string {
	return ErrorTypeHref + "/" + strconv.Itoa(int(code))
}

func NotFound(reason string, values ...interface{}) *ServiceError {
	return New(ErrorNotFound, reason, values...)
}

func GeneralError(reason string, values ...interface{}) *ServiceError {
	return New(ErrorGeneral, reason, values...)
}

func Validation(reason string, values ...interface{}) *ServiceError {
	return New(ErrorValidation, reason, values...)
}

func BadRequest(reason string, values ...interface{}) *ServiceError {
	return New(ErrorBadRequest, reason, values...)
}

func ServiceUnavailable(reason string, values ...interface{}) *ServiceError {
	return New(ErrorServiceUnavailable, reason, values...)
}

func NotImplemented(reason string, values ...interface{}) *ServiceError {
	return New(ErrorNotImplemented, reason, values...)
}

func Conflict(reason string, values ...interface{}) *ServiceError {
	return New(ErrorConflict, reason, values...)
}
