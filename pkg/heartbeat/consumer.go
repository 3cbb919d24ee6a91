package heartbeat

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"

	"github.com/openshift-online/watchdog/pkg/config"
	"github.com/openshift-online/watchdog/pkg/constants"
)

// Consumer periodically pulls heartbeat batches and feeds them to an Ingestor.
type Consumer struct {
	source    Source
	ingestor  *Ingestor
	batchSize int
	maxWait   time.Duration
	interval  time.Duration
}

func NewConsumer(source Source, ingestor *Ingestor, cfg *config.MessageBrokerConfig) *Consumer {
	c := &Consumer{
		source:    source,
		ingestor:  ingestor,
		batchSize: cfg.BatchSize,
		maxWait:   cfg.FetchMaxWait,
		interval:  cfg.PullInterval,
	}
	if c.batchSize <= 0 {
		c.batchSize = constants.PullBatchSize
	}
	if c.maxWait <= 0 {
		c.maxWait = constants.PullMaxWait
	}
	if c.interval <= 0 {
		c.interval = constants.PullInterval
	}
	return c
}

// Start pulls until ctx is done. It blocks and returns once the in-flight batch
// has been handled, run it in a goroutine.
func (c *Consumer) Start(ctx context.Context) {
	logger := klog.FromContext(ctx)
	logger.Info("Starting heartbeat consumer", "batch", c.batchSize, "interval", c.interval)

	wait.UntilWithContext(ctx, c.pull, c.interval)

	logger.Info("Heartbeat consumer stopped")
}

// pull runs one fetch and handles the returned messages in order. Messages that are
// not handled before ctx is cancelled stay unacked.
func (c *Consumer) pull(ctx context.Context) {
	logger := klog.FromContext(ctx)

	msgs, err := c.source.Fetch(ctx, c.batchSize, c.maxWait)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		fetchErrorsMetric.Inc()
		logger.Error(err, "Unable to fetch heartbeats")
		return
	}
	batchSizeMetric.Observe(float64(len(msgs)))

	for i, msg := range msgs {
		if ctx.Err() != nil {
			logger.V(4).Info("Consumer stopping, leaving messages unacked", "count", len(msgs)-i)
			return
		}
		// failures are logged by the ingestor and retried by redelivery
		_ = c.ingestor.Handle(ctx, msg)
	}
}
