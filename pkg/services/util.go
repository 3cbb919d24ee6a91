package services

import (
	e "errors"
	"strings"

	"gorm.io/gorm"

	"github.com/openshift-online/watchdog/pkg/errors"
)

func handleGetError(resourceType, field string, value interface{}, err error) *errors.ServiceError {
	if e.Is(err, gorm.ErrRecordNotFound) {
		return errors.NotFound("%s with %s='%v' not found", resourceType, field, value)
	}
	return errors.GeneralError("Unable to find %s with %s='%v': %s", resourceType, field, value, err)
}

func handleCreateError(resourceType string, err error) *errors.ServiceError {
	if strings.Contains(err.Error(), "violates unique constraint") {
		return errors.Conflict("This %s already exists", resourceType)
	}
	return errors.GeneralError("Unable to create %s: %s", resourceType, err.Error())
}
