package environments

import (
	"github.com/openshift-online/watchdog/pkg/dao"
	"github.com/openshift-online/watchdog/pkg/services"
)

type ServerServiceLocator func() services.ServerService

func NewServerServiceLocator(env *Env) ServerServiceLocator {
	return func() services.ServerService {
		return services.NewServerService(dao.NewServerDao(&env.Database.SessionFactory))
	}
}

type BestServerServiceLocator func() services.BestServerService

func NewBestServerServiceLocator(env *Env) BestServerServiceLocator {
	return func() services.BestServerService {
		return services.NewBestServerService(env.Detector.StateTable)
	}
}
