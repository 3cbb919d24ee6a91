package environments

import (
	"github.com/openshift-online/watchdog/pkg/db/db_session"
)

type productionEnvImpl struct {
	env *Env
}

var _ EnvironmentImpl = &productionEnvImpl{}

func (e *productionEnvImpl) VisitDatabase(c *Database) error {
	c.SessionFactory = db_session.NewProdFactory(e.env.Config.Database)
	return nil
}

func (e *productionEnvImpl) VisitConfig(c *ApplicationConfig) error {
	return nil
}

func (e *productionEnvImpl) VisitServices(s *Services) error {
	return nil
}

func (e *productionEnvImpl) VisitClients(c *Clients) error {
	return nil
}

func (e *productionEnvImpl) Flags() map[string]string {
	return map[string]string{
		"enable-sentry":          "true",
		"server-hostname":        "",
		"db-sslmode":             "verify-full",
		"disable-message-broker": "false",
	}
}
