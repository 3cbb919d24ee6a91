package environments

import (
	"github.com/openshift-online/watchdog/pkg/db/db_session"
)

// devEnvImpl talks to a local postgres and NATS with verbose defaults.
type devEnvImpl struct {
	env *Env
}

var _ EnvironmentImpl = &devEnvImpl{}

func (e *devEnvImpl) VisitDatabase(c *Database) error {
	c.SessionFactory = db_session.NewProdFactory(e.env.Config.Database)
	return nil
}

func (e *devEnvImpl) VisitConfig(c *ApplicationConfig) error {
	return nil
}

func (e *devEnvImpl) VisitServices(s *Services) error {
	return nil
}

func (e *devEnvImpl) VisitClients(c *Clients) error {
	return nil
}

func (e *devEnvImpl) Flags() map[string]string {
	return map[string]string{
		"enable-sentry":            "false",
		"enable-https":             "false",
		"enable-db-debug":          "false",
		"db-sslmode":               "disable",
		"server-hostname":          "localhost",
		"http-server-bindport":     "8000",
		"heartbeat-max-deliver":    "3",
		"nats-connect-timeout":     "2s",
		"disable-message-broker":   "false",
		"heartbeat-stream-max-age": "2m",
	}
}
