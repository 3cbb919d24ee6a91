package servecmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/openshift-online/watchdog/cmd/watchdog/environments"
	"github.com/openshift-online/watchdog/cmd/watchdog/server"
	"github.com/openshift-online/watchdog/pkg/logger"
)

var logLevel string

func NewServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the watchdog server",
		Long:  "Start the watchdog server.",
		Run:   runServer,
	}
	err := environments.Environment().AddFlags(cmd.PersistentFlags())
	if err != nil {
		glog.Fatalf("Unable to add environment flags to serve command: %s", err.Error())
	}
	cmd.Flags().StringVar(&logLevel, "zap-log-level", "", "Level of the broker client logger (debug, info, warn, error), the environment decides when empty")

	return cmd
}

func runServer(cmd *cobra.Command, args []string) {
	err := environments.Environment().Initialize()
	if err != nil {
		glog.Fatalf("Unable to initialize environment: %s", err.Error())
	}
	if logLevel != "" {
		logger.SetLogLevel(logLevel)
	}
	glog.Infof("Broker client log level: %s", logger.GetLoggerLevel())

	ctx, cancel := context.WithCancel(context.Background())

	// The state table must be seeded and the stream must exist before anything is served
	detectorServer := server.NewDetectorServer(ctx)
	if err := detectorServer.Bootstrap(ctx); err != nil {
		glog.Fatalf("Unable to bootstrap detector: %s", err.Error())
	}

	// Create the servers
	apiserver := server.NewAPIServer()
	metricsServer := server.NewMetricsServer()
	healthcheckServer := server.NewHealthCheckServer()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer cancel()
		<-stopCh
		// Received SIGTERM or SIGINT signal, shutting down servers gracefully.
		if err := apiserver.Stop(); err != nil {
			glog.Errorf("Failed to stop api server, %v", err)
		}

		if err := metricsServer.Stop(); err != nil {
			glog.Errorf("Failed to stop metrics server, %v", err)
		}

		if err := healthcheckServer.Stop(); err != nil {
			glog.Errorf("Failed to stop healthcheck server, %v", err)
		}

		if err := detectorServer.Stop(); err != nil {
			glog.Errorf("Failed to stop detector server, %v", err)
		}
	}()

	// Run the servers
	go apiserver.Start(ctx)
	go metricsServer.Start(ctx)
	go healthcheckServer.Start(ctx)
	detectorServer.Start(ctx)

	<-ctx.Done()

	environments.Environment().Teardown()
	logger.SyncLogger()
}
