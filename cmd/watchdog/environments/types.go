package environments

import (
	"sync"

	"github.com/openshift-online/watchdog/pkg/client/jetstream"
	"github.com/openshift-online/watchdog/pkg/config"
	"github.com/openshift-online/watchdog/pkg/db"
	"github.com/openshift-online/watchdog/pkg/detector"
)

type Env struct {
	Name     string
	Services Services
	Clients  Clients
	Database Database
	Detector Detector
	// packaging requires this construct for visiting
	ApplicationConfig ApplicationConfig
	// most code relies on env.Config
	Config *config.ApplicationConfig
}

type ApplicationConfig struct {
	ApplicationConfig *config.ApplicationConfig
}

type Database struct {
	SessionFactory db.SessionFactory
}

// Detector holds the process wide liveness state. It is created before the services
// so the query side and the ingestion side share one table.
type Detector struct {
	StateTable *detector.StateTable
}

type Services struct {
	Servers     ServerServiceLocator
	BestServers BestServerServiceLocator
}

type Clients struct {
	JetStream *jetstream.Client
}

var environment *Env
var once sync.Once
var environments map[string]EnvironmentImpl

// ApplicationConfig visitor
var _ ConfigVisitable = &ApplicationConfig{}

type ConfigVisitable interface {
	Accept(v ConfigVisitor) error
}

type ConfigVisitor interface {
	VisitConfig(c *ApplicationConfig) error
}

func (c *ApplicationConfig) Accept(v ConfigVisitor) error {
	return v.VisitConfig(c)
}

// Database visitor
var _ DatabaseVisitable = &Database{}

type DatabaseVisitable interface {
	Accept(v DatabaseVisitor) error
}

type DatabaseVisitor interface {
	VisitDatabase(s *Database) error
}

func (d *Database) Accept(v DatabaseVisitor) error {
	return v.VisitDatabase(d)
}

// Services visitor
var _ ServiceVisitable = &Services{}

type ServiceVisitable interface {
	Accept(v ServiceVisitor) error
}

type ServiceVisitor interface {
	VisitServices(s *Services) error
}

func (s *Services) Accept(v ServiceVisitor) error {
	return v.VisitServices(s)
}

// Clients visitor
var _ ClientVisitable = &Clients{}

type ClientVisitor interface {
	VisitClients(c *Clients) error
}

type ClientVisitable interface {
	Accept(v ClientVisitor) error
}

func (c *Clients) Accept(v ClientVisitor) error {
	return v.VisitClients(c)
}
