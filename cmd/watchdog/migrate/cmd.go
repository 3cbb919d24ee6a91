package migrate

import (
	"context"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/openshift-online/watchdog/pkg/config"
	"github.com/openshift-online/watchdog/pkg/db"
	"github.com/openshift-online/watchdog/pkg/db/db_session"
)

var (
	dbConfig     = config.NewDatabaseConfig()
	migrateTo    string
	rollbackLast bool
)

// migration sub-command handles running migrations
func NewMigrationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migration",
		Short: "Run watchdog registry migrations",
		Long:  "Run watchdog registry migrations",
		Run:   runMigration,
	}

	dbConfig.AddFlags(cmd.PersistentFlags())
	cmd.Flags().StringVar(&migrateTo, "to", "", "Migrate up to the given migration ID instead of the latest")
	cmd.Flags().BoolVar(&rollbackLast, "rollback-last", false, "Roll back the most recent migration")
	return cmd
}

func runMigration(_ *cobra.Command, _ []string) {
	err := dbConfig.ReadFiles()
	if err != nil {
		klog.Fatal(err)
	}

	connection := db_session.NewProdFactory(dbConfig)
	defer connection.Close()

	switch {
	case rollbackLast:
		err = db.RollbackLast(connection.New(context.Background()))
	case migrateTo != "":
		err = db.MigrateTo(connection, migrateTo)
	default:
		err = db.Migrate(connection.New(context.Background()))
	}
	if err != nil {
		klog.Fatal(err)
	}
}
