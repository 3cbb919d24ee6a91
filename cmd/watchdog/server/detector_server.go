package server

import (
	"context"
	"fmt"
	"sync"

	"k8s.io/klog/v2"

	"github.com/openshift-online/watchdog/pkg/heartbeat"
)

// DetectorServer runs the heartbeat consumer and the liveness sweeper against the
// environment's state table.
type DetectorServer struct {
	mu      sync.Mutex
	wg      sync.WaitGroup
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
}

var _ Server = &DetectorServer{}

func NewDetectorServer(ctx context.Context) *DetectorServer {
	runCtx, cancel := context.WithCancel(ctx)
	return &DetectorServer{ctx: runCtx, cancel: cancel}
}

// Bootstrap seeds the state table from the registry and makes sure the heartbeat
// stream and durable consumer exist. Any failure here should stop the process.
func (s *DetectorServer) Bootstrap(ctx context.Context) error {
	logger := klog.FromContext(ctx)

	servers, svcErr := env().Services.Servers().All(ctx)
	if svcErr != nil {
		return fmt.Errorf("unable to load server registry: %s", svcErr.Error())
	}
	if err := env().Detector.StateTable.Bootstrap(servers); err != nil {
		return fmt.Errorf("unable to seed state table: %w", err)
	}
	logger.Info("Seeded state table", "servers", len(servers))

	client := env().Clients.JetStream
	if client == nil {
		logger.Info("Message broker disabled, heartbeats will not be consumed")
		return nil
	}
	if err := client.EnsureStream(ctx); err != nil {
		return fmt.Errorf("unable to ensure heartbeat stream: %w", err)
	}
	if err := client.EnsureConsumer(ctx); err != nil {
		return fmt.Errorf("unable to ensure heartbeat consumer: %w", err)
	}
	return nil
}

// Start launches the consumer and the sweeper and returns. It is a no-op after Stop.
func (s *DetectorServer) Start(ctx context.Context) {
	logger := klog.FromContext(ctx)
	runCtx := klog.NewContext(s.ctx, logger)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		logger.Info("Detector server already stopped, not starting")
		return
	}

	table := env().Detector.StateTable

	if client := env().Clients.JetStream; client != nil {
		brokerConfig := env().Config.MessageBroker
		ingestor := heartbeat.NewIngestor(table, brokerConfig.MaxDeliver)
		consumer := heartbeat.NewConsumer(client, ingestor, brokerConfig)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			consumer.Start(runCtx)
		}()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		table.StartSweeper(runCtx, env().Config.Detector.SweepInterval)
	}()
}

// Stop cancels the pull and the sweep, waits for both to return, closes the broker
// connection and finally closes the state table. Unacked messages are redelivered
// to the next instance.
func (s *DetectorServer) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	if client := env().Clients.JetStream; client != nil {
		client.Close()
	}
	env().Detector.StateTable.Close()
	return nil
}
