package main

import (
	"flag"
	"log"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/openshift-online/watchdog/cmd/watchdog/migrate"
	"github.com/openshift-online/watchdog/cmd/watchdog/publish"
	"github.com/openshift-online/watchdog/cmd/watchdog/register"
	"github.com/openshift-online/watchdog/cmd/watchdog/servecmd"
)

func main() {
	// check if the glog flag is already registered to avoid duplicate flag define error
	if flag.CommandLine.Lookup("alsologtostderr") != nil {
		flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	}

	// add klog flags
	klog.InitFlags(nil)

	// Initialize root command
	rootCmd := &cobra.Command{
		Use:  "watchdog",
		Long: "watchdog tracks the liveness of edge servers and ranks the healthy ones per zone",
	}

	// Add klog flags to root command
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	// All subcommands under root
	migrateCmd := migrate.NewMigrationCommand()
	serveCmd := servecmd.NewServerCommand()
	registerCmd := register.NewRegisterCommand()
	publishCmd := publish.NewPublishCommand()

	// Add subcommand(s)
	rootCmd.AddCommand(migrateCmd, serveCmd, registerCmd, publishCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("error running command: %v", err)
	}
}
