package presenters

import (
	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/errors"
)

func ObjectKind(i interface{}) string {
	switch i.(type) {
	case api.RankedServerList:
		return "BestServerList"
	case api.ServerStateList:
		return "ServerStateList"
	case errors.ServiceError, *errors.ServiceError:
		return api.ErrorType
	}
	return ""
}
