package heartbeat

import (
	"context"
	"fmt"
	"time"

	"k8s.io/klog/v2"

	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/detector"
)

// Message is one delivery from the heartbeat queue.
type Message interface {
	Data() []byte
	Subject() string
	Ack() error
}

// Source pulls batches of messages from the heartbeat queue. Fetch returns at most
// batch messages and waits no longer than maxWait for them.
type Source interface {
	Fetch(ctx context.Context, batch int, maxWait time.Duration) ([]Message, error)
}

// Applier applies a decoded heartbeat to the liveness state.
type Applier interface {
	Apply(hb *api.Heartbeat) (detector.Outcome, error)
}

// deliveryCounter is implemented by messages that know how often they were delivered.
type deliveryCounter interface {
	NumDelivered() uint64
}

var _ Applier = &detector.StateTable{}

// Ingestor turns queue messages into state table updates. A message is acked only
// once its heartbeat reached a terminal outcome, otherwise it is left for redelivery.
type Ingestor struct {
	applier    Applier
	maxDeliver int
}

// NewIngestor returns an ingestor feeding applier. maxDeliver is the redelivery bound
// of the durable consumer, zero when unknown.
func NewIngestor(applier Applier, maxDeliver int) *Ingestor {
	return &Ingestor{
		applier:    applier,
		maxDeliver: maxDeliver,
	}
}

func (i *Ingestor) Handle(ctx context.Context, msg Message) error {
	logger := klog.FromContext(ctx).WithValues("subject", msg.Subject())

	hb, err := Decode(msg.Data())
	if err != nil {
		updateMessagesMetric(resultDecodeError)
		i.logFailure(logger, msg, err)
		return err
	}

	outcome, err := i.applier.Apply(hb)
	if err != nil {
		updateMessagesMetric(resultApplyError)
		err = fmt.Errorf("unable to apply heartbeat from %s: %w", hb.Name, err)
		i.logFailure(logger, msg, err)
		return err
	}
	if !outcome.Accepted() {
		logger.V(4).Info("Heartbeat rejected", "server", hb.Name, "outcome", outcome)
	}

	if err := msg.Ack(); err != nil {
		updateMessagesMetric(resultAckError)
		err = fmt.Errorf("unable to ack heartbeat from %s: %w", hb.Name, err)
		logger.Error(err, "Heartbeat applied but not acked, it will be redelivered")
		return err
	}
	updateMessagesMetric(resultAcked)
	logger.V(10).Info("Heartbeat acked", "server", hb.Name, "outcome", outcome)
	return nil
}

func (i *Ingestor) logFailure(logger klog.Logger, msg Message, err error) {
	if counter, ok := msg.(deliveryCounter); ok && i.maxDeliver > 0 && counter.NumDelivered() >= uint64(i.maxDeliver) {
		logger.Error(err, "Heartbeat failed on its final delivery and is dropped", "deliveries", counter.NumDelivered())
		return
	}
	logger.Error(err, "Heartbeat left unacked for redelivery")
}
