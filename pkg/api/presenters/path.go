package presenters

import (
	"fmt"

	"github.com/openshift-online/watchdog/pkg/errors"
)

const (
	BasePath = "/api/watchdog/v1"
)

func ObjectPath(id string, obj interface{}) string {
	return fmt.Sprintf("%s/%s/%s", BasePath, path(obj), id)
}

func path(i interface{}) string {
	switch i.(type) {
	case errors.ServiceError, *errors.ServiceError:
		return "errors"
	default:
		return ""
	}
}
