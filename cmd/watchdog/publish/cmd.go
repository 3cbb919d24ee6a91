package publish

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/client/jetstream"
	"github.com/openshift-online/watchdog/pkg/config"
)

var (
	brokerConfig = config.NewMessageBrokerConfig()
	serverName   string
	count        int
	interval     time.Duration
	metrics      api.Metrics
)

// publish sub-command sends heartbeats on behalf of a server, to exercise a running watchdog by hand.
func NewPublishCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish heartbeats for a server",
		Long:  "Publish heartbeats for a server to the heartbeat stream",
		Run:   runPublish,
	}

	brokerConfig.AddFlags(cmd.PersistentFlags())
	cmd.Flags().StringVar(&serverName, "name", "", "Name of the server the heartbeats are sent for")
	cmd.Flags().IntVar(&count, "count", 2, "Number of heartbeats to send, two make a cold server alive")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Pause between two heartbeats")
	cmd.Flags().Float64Var(&metrics.ConnectionAmount, "connections", 0, "Reported connection amount")
	cmd.Flags().Float64Var(&metrics.TrafficAmountBytes1m, "traffic", 0, "Reported traffic of the last minute in bytes")
	cmd.Flags().Float64Var(&metrics.IfaceBytesCap, "iface-cap", 1, "Reported interface capacity in bytes")
	cmd.Flags().Float64Var(&metrics.CPULoad1m, "cpu", 0, "Reported one minute CPU load")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func runPublish(_ *cobra.Command, _ []string) {
	if err := brokerConfig.ReadFiles(); err != nil {
		klog.Fatal(err)
	}

	client, err := jetstream.NewClient(brokerConfig)
	if err != nil {
		klog.Fatal(err)
	}
	defer client.Close()

	ctx := context.Background()
	for i := 0; i < count; i++ {
		if i > 0 {
			time.Sleep(interval)
		}
		hb := &api.Heartbeat{Name: serverName, UTCSent: time.Now().UTC(), Metrics: metrics}
		if err := client.Publish(ctx, hb); err != nil {
			klog.Errorf("Unable to publish heartbeat %d of %s: %v", i+1, serverName, err)
			return
		}
		klog.Infof("Published heartbeat %d of %s", i+1, serverName)
	}
}
