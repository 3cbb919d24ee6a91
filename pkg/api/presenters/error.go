package presenters

import (
	"strconv"

	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/errors"
)

func PresentError(err *errors.ServiceError, operationID string) api.Error {
	id := strconv.Itoa(int(err.Code))
	return api.Error{
		Kind:        ObjectKind(err),
		ID:          id,
		Href:        ObjectPath(id, err),
		Code:        errors.CodeStr(err.Code),
		Reason:      err.Reason,
		OperationID: operationID,
	}
}
