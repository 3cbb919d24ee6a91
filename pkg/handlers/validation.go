package handlers

import (
	"net/http"

	"github.com/openshift-online/watchdog/pkg/errors"
)

func validateQueryNotEmpty(r *http.Request, param string) validate {
	return func() *errors.ServiceError {
		if r.URL.Query().Get(param) == "" {
			return errors.Validation("%s query parameter is required", param)
		}
		return nil
	}
}
