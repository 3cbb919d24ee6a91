package register

import (
	"context"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/config"
	"github.com/openshift-online/watchdog/pkg/dao"
	"github.com/openshift-online/watchdog/pkg/db"
	"github.com/openshift-online/watchdog/pkg/db/db_session"
	"github.com/openshift-online/watchdog/pkg/services"
)

var (
	dbConfig   = config.NewDatabaseConfig()
	serverName string
	serverZone string
)

// register sub-command adds an edge server to the registry. A running watchdog picks it up on its next start.
func NewRegisterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register an edge server",
		Long:  "Register an edge server in the watchdog registry",
		Run:   runRegister,
	}

	dbConfig.AddFlags(cmd.PersistentFlags())
	cmd.Flags().StringVar(&serverName, "name", "", "Unique name of the server, a DNS-1123 label")
	cmd.Flags().StringVar(&serverZone, "zone", "", "Zone the server belongs to")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("zone")
	return cmd
}

func runRegister(_ *cobra.Command, _ []string) {
	if err := dbConfig.ReadFiles(); err != nil {
		klog.Fatal(err)
	}

	var sessionFactory db.SessionFactory = db_session.NewProdFactory(dbConfig)
	defer sessionFactory.Close()

	service := services.NewServerService(dao.NewServerDao(&sessionFactory))
	server, svcErr := service.Create(context.Background(), &api.Server{Name: serverName, Zone: serverZone})
	if svcErr != nil {
		klog.Fatalf("Unable to register server %s: %s", serverName, svcErr.Error())
	}
	klog.Infof("Registered server %s in zone %s with id %s", server.Name, server.Zone, server.ID)
}
