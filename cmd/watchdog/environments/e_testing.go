package environments

import (
	"github.com/openshift-online/watchdog/pkg/dao/mocks"
	"github.com/openshift-online/watchdog/pkg/services"
)

// testingEnvImpl needs no postgres and no NATS, the registry is served from memory.
type testingEnvImpl struct {
	env *Env
}

var _ EnvironmentImpl = &testingEnvImpl{}

func (e *testingEnvImpl) VisitDatabase(c *Database) error {
	return nil
}

func (e *testingEnvImpl) VisitConfig(c *ApplicationConfig) error {
	return nil
}

func (e *testingEnvImpl) VisitServices(s *Services) error {
	serverDao := mocks.NewServerDao()
	s.Servers = func() services.ServerService {
		return services.NewServerService(serverDao)
	}
	return nil
}

func (e *testingEnvImpl) VisitClients(c *Clients) error {
	return nil
}

func (e *testingEnvImpl) Flags() map[string]string {
	return map[string]string{
		"enable-sentry":          "false",
		"enable-https":           "false",
		"disable-message-broker": "true",
		"heartbeat-timeout":      "70s",
		"sweep-interval":         "30s",
	}
}
