package environments

import (
	"fmt"
	"log"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	envtypes "github.com/openshift-online/watchdog/cmd/watchdog/environments/types"
	"github.com/openshift-online/watchdog/pkg/client/jetstream"
	"github.com/openshift-online/watchdog/pkg/config"
	"github.com/openshift-online/watchdog/pkg/detector"
)

func init() {
	once.Do(func() {
		environment = &Env{}

		// Create the configuration, the visitors see the same instance as the rest of the code
		cfg := config.NewApplicationConfig()
		environment.Config = cfg
		environment.ApplicationConfig = ApplicationConfig{cfg}
		environment.Name = envtypes.GetEnvironmentStrFromEnv()

		environments = map[string]EnvironmentImpl{
			envtypes.DevelopmentEnv: &devEnvImpl{environment},
			envtypes.TestingEnv:     &testingEnvImpl{environment},
			envtypes.ProductionEnv:  &productionEnvImpl{environment},
		}
	})
}

// EnvironmentImpl defines a set of behaviors for a watchdog environment.
// Each environment provides a set of flags for basic set/override of the environment
// and visits the components after they are instantiated.
// VisitConfig is applied after instantiation but before ReadFiles is called.
type EnvironmentImpl interface {
	Flags() map[string]string
	VisitConfig(c *ApplicationConfig) error
	VisitDatabase(s *Database) error
	VisitServices(s *Services) error
	VisitClients(c *Clients) error
}

func Environment() *Env {
	return environment
}

// Adds environment flags, using the environment's config struct, to the flagset 'flags'
func (e *Env) AddFlags(flags *pflag.FlagSet) error {
	e.Config.AddFlags(flags)
	impl, found := environments[e.Name]
	if !found {
		return fmt.Errorf("unknown runtime environment: %s", e.Name)
	}
	return setConfigDefaults(flags, impl.Flags())
}

// Initialize loads the environment's resources
// This should be called after the e.Config has been set appropriately though AddFlags and parsing, done elsewhere
// The environment does NOT handle flag parsing
func (e *Env) Initialize() error {
	klog.Infof("Initializing environment: %s", e.Name)

	envImpl, found := environments[e.Name]
	if !found {
		log.Fatalf("Unknown runtime environment: %s", e.Name)
	}

	if err := envImpl.VisitConfig(&e.ApplicationConfig); err != nil {
		log.Fatalf("Failed to visit ApplicationConfig: %s", err)
	}

	messages := e.Config.ReadFiles()
	if len(messages) != 0 {
		log.Fatalf("Unable to read configuration files:\n%s", strings.Join(messages, "\n"))
	}
	if err := e.Config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := e.InitializeSentry(); err != nil {
		return err
	}

	// each env will set db explicitly because the DB impl has a `once` init section
	if err := envImpl.VisitDatabase(&e.Database); err != nil {
		log.Fatalf("Failed to visit Database: %s", err)
	}

	e.Detector.StateTable = detector.NewStateTable(clock.RealClock{}, e.Config.Detector.HeartbeatTimeout)

	e.LoadServices()
	if err := envImpl.VisitServices(&e.Services); err != nil {
		log.Fatalf("Failed to visit Services: %s", err)
	}

	if err := e.LoadClients(); err != nil {
		return fmt.Errorf("failed to load clients: %w", err)
	}
	if err := envImpl.VisitClients(&e.Clients); err != nil {
		log.Fatalf("Failed to visit Clients: %s", err)
	}

	return nil
}

func (e *Env) LoadServices() {
	e.Services.Servers = NewServerServiceLocator(e)
	e.Services.BestServers = NewBestServerServiceLocator(e)
}

func (e *Env) LoadClients() error {
	if e.Config.MessageBroker.Disable {
		klog.Info("Message broker disabled, heartbeats will not be consumed")
		return nil
	}

	client, err := jetstream.NewClient(e.Config.MessageBroker)
	if err != nil {
		return err
	}
	e.Clients.JetStream = client
	return nil
}

func (e *Env) InitializeSentry() error {
	if !e.Config.Sentry.Enabled {
		klog.Info("Disabled sentry for environment")
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         e.Config.Sentry.DSN,
		Environment: e.Name,
		Debug:       e.Config.Sentry.Debug,
	})
	if err != nil {
		return fmt.Errorf("unable to initialize sentry integration: %w", err)
	}
	klog.Info("Sentry error reporting enabled")
	return nil
}

// Teardown releases what Initialize acquired. It is called once the servers stopped.
func (e *Env) Teardown() {
	if e.Clients.JetStream != nil {
		e.Clients.JetStream.Close()
	}
	if e.Database.SessionFactory != nil {
		if err := e.Database.SessionFactory.Close(); err != nil {
			log.Fatalf("Unable to close db connection: %s", err.Error())
		}
	}
}

func setConfigDefaults(flags *pflag.FlagSet, defaults map[string]string) error {
	for name, value := range defaults {
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("error setting flag %s: %v", name, err)
		}
	}
	return nil
}
