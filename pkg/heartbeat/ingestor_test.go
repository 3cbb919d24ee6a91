package heartbeat

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/constants"
	"github.com/openshift-online/watchdog/pkg/detector"
)

const validBody = `{"name":"edge1","utc_sent":"2026-01-10T12:00:00Z","connection_amount":10,"traffic_amount_bytes_1m":1000,"iface_bytes_cap":10000,"cpu_load_1m":0.5}`

func TestHandleAcksAcceptedHeartbeat(t *testing.T) {
	RegisterTestingT(t)

	applier := &fakeApplier{}
	msg := newFakeMessage(validBody)

	Expect(NewIngestor(applier, 5).Handle(context.Background(), msg)).To(Succeed())
	Expect(msg.Acked()).To(Equal(1))
	Expect(applier.Applied()).To(HaveLen(1))
	Expect(applier.Applied()[0].Name).To(Equal("edge1"))
}

func TestHandleAcksRejectedHeartbeat(t *testing.T) {
	for _, outcome := range []detector.Outcome{
		detector.OutcomeUnknownServer,
		detector.OutcomeStale,
		detector.OutcomeInvalidMetrics,
	} {
		t.Run(outcome.String(), func(t *testing.T) {
			g := NewWithT(t)
			msg := newFakeMessage(validBody)
			g.Expect(NewIngestor(&fakeApplier{outcome: outcome}, 5).Handle(context.Background(), msg)).To(Succeed())
			g.Expect(msg.Acked()).To(Equal(1))
		})
	}
}

func TestHandleLeavesMalformedUnacked(t *testing.T) {
	RegisterTestingT(t)

	applier := &fakeApplier{}
	msg := newFakeMessage(`{"name":`)

	Expect(NewIngestor(applier, 5).Handle(context.Background(), msg)).To(HaveOccurred())
	Expect(msg.Acked()).To(Equal(0))
	Expect(applier.Applied()).To(BeEmpty())

	// final delivery takes the same path
	msg.delivered = 5
	Expect(NewIngestor(applier, 5).Handle(context.Background(), msg)).To(HaveOccurred())
	Expect(msg.Acked()).To(Equal(0))
}

func TestHandleLeavesApplyErrorUnacked(t *testing.T) {
	RegisterTestingT(t)

	msg := newFakeMessage(validBody)
	err := NewIngestor(&fakeApplier{err: detector.ErrTableClosed}, 5).Handle(context.Background(), msg)
	Expect(err).To(MatchError(detector.ErrTableClosed))
	Expect(msg.Acked()).To(Equal(0))
}

func TestHandleAckError(t *testing.T) {
	RegisterTestingT(t)

	msg := newFakeMessage(validBody)
	msg.ackErr = errors.New("nats: connection closed")
	err := NewIngestor(&fakeApplier{}, 5).Handle(context.Background(), msg)
	Expect(err).To(HaveOccurred())
	Expect(err.Error()).To(ContainSubstring("unable to ack"))
}

func TestHandleMissingMetricsIsAckedAsInvalid(t *testing.T) {
	RegisterTestingT(t)

	table := detector.NewStateTable(testingclock.NewFakeClock(time.Now()), constants.HeartbeatTimeout)
	Expect(table.Bootstrap(api.ServerList{{Name: "edge1", Zone: "eu"}})).To(Succeed())

	msg := newFakeMessage(`{"name":"edge1","utc_sent":"2026-01-10T12:00:00Z","connection_amount":10}`)
	Expect(NewIngestor(table, 5).Handle(context.Background(), msg)).To(Succeed())
	Expect(msg.Acked()).To(Equal(1))

	state, _ := table.Get("edge1")
	Expect(state.ConsecutiveOk).To(Equal(0))
	Expect(state.LastSentTimestamp).To(BeNil())
}

func TestHandleRedeliveryIsStale(t *testing.T) {
	RegisterTestingT(t)

	table := detector.NewStateTable(testingclock.NewFakeClock(time.Now()), constants.HeartbeatTimeout)
	Expect(table.Bootstrap(api.ServerList{{Name: "edge1", Zone: "eu"}})).To(Succeed())
	ingestor := NewIngestor(table, 5)

	first := newFakeMessage(validBody)
	Expect(ingestor.Handle(context.Background(), first)).To(Succeed())
	redelivered := newFakeMessage(validBody)
	redelivered.delivered = 2
	Expect(ingestor.Handle(context.Background(), redelivered)).To(Succeed())
	Expect(redelivered.Acked()).To(Equal(1))

	state, _ := table.Get("edge1")
	Expect(state.ConsecutiveOk).To(Equal(1))
}
