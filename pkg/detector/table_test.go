package detector

import (
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/constants"
)

var epoch = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func newTestTable(t *testing.T) (*StateTable, *testingclock.FakeClock) {
	fakeClock := testingclock.NewFakeClock(epoch)
	table := NewStateTable(fakeClock, constants.HeartbeatTimeout)
	err := table.Bootstrap(api.ServerList{
		{Name: "edge1", Zone: "eu"},
		{Name: "edge3", Zone: "eu"},
		{Name: "edge2", Zone: "us"},
	})
	if err != nil {
		t.Fatalf("unexpected bootstrap error: %v", err)
	}
	return table, fakeClock
}

func newHeartbeat(name string, sent time.Time) *api.Heartbeat {
	return &api.Heartbeat{
		Name:    name,
		UTCSent: sent,
		Metrics: api.Metrics{
			ConnectionAmount:     10,
			TrafficAmountBytes1m: 1000,
			IfaceBytesCap:        10000,
			CPULoad1m:            0.5,
		},
	}
}

// sender keeps a monotonically increasing sender clock per test.
type sender struct {
	sent time.Time
}

func (s *sender) next(name string) *api.Heartbeat {
	s.sent = s.sent.Add(time.Second)
	return newHeartbeat(name, s.sent)
}

func mustApply(table *StateTable, hb *api.Heartbeat) Outcome {
	outcome, err := table.Apply(hb)
	Expect(err).NotTo(HaveOccurred())
	return outcome
}

func TestBootstrap(t *testing.T) {
	RegisterTestingT(t)

	table, _ := newTestTable(t)
	Expect(table.Len()).To(Equal(3))

	state, ok := table.Get("edge1")
	Expect(ok).To(BeTrue())
	Expect(state.Zone).To(Equal("eu"))
	Expect(state.IsAlive).To(BeFalse())
	Expect(state.ConsecutiveOk).To(Equal(0))
	Expect(state.Penalty).To(Equal(1.0))
	Expect(state.LastSentTimestamp).To(BeNil())
	Expect(state.LastReceivedAt).To(BeNil())
	Expect(state.Metrics).To(BeNil())

	Expect(table.Bootstrap(api.ServerList{{Name: "edge4", Zone: "eu"}})).To(HaveOccurred())
	Expect(table.Len()).To(Equal(3))
}

func TestBootstrapDuplicateName(t *testing.T) {
	RegisterTestingT(t)

	table := NewStateTable(testingclock.NewFakeClock(epoch), 0)
	err := table.Bootstrap(api.ServerList{
		{Name: "edge1", Zone: "eu"},
		{Name: "edge1", Zone: "us"},
	})
	Expect(err).To(HaveOccurred())
	Expect(err.Error()).To(ContainSubstring("duplicate"))
	Expect(table.Len()).To(Equal(0))
}

func TestApplyColdToAlive(t *testing.T) {
	RegisterTestingT(t)

	table, fakeClock := newTestTable(t)
	s := &sender{sent: epoch}

	Expect(mustApply(table, s.next("edge1"))).To(Equal(OutcomeAccepted))
	state, _ := table.Get("edge1")
	Expect(state.IsAlive).To(BeFalse())
	Expect(state.ConsecutiveOk).To(Equal(1))
	Expect(state.Metrics).NotTo(BeNil())
	Expect(*state.LastReceivedAt).To(Equal(fakeClock.Now()))

	fakeClock.Step(5 * time.Second)
	Expect(mustApply(table, s.next("edge1"))).To(Equal(OutcomeAccepted))
	state, _ = table.Get("edge1")
	Expect(state.IsAlive).To(BeTrue())
	Expect(state.ConsecutiveOk).To(Equal(2))
	Expect(state.Penalty).To(Equal(1.5))
	Expect(*state.LastSentTimestamp).To(Equal(s.sent))
}

func TestApplyPenaltyDecay(t *testing.T) {
	RegisterTestingT(t)

	table, fakeClock := newTestTable(t)
	s := &sender{sent: epoch}

	mustApply(table, s.next("edge1"))
	mustApply(table, s.next("edge1"))

	expected := []float64{1.35, 1.215, 1.0935, 1.0, 1.0, 1.0}
	for _, penalty := range expected {
		fakeClock.Step(10 * time.Second)
		mustApply(table, s.next("edge1"))
		state, _ := table.Get("edge1")
		Expect(state.IsAlive).To(BeTrue())
		Expect(state.Penalty).To(BeNumerically("~", penalty, 1e-9))
		Expect(state.Penalty).To(BeNumerically(">=", 1.0))
	}
}

func TestApplyStale(t *testing.T) {
	RegisterTestingT(t)

	table, _ := newTestTable(t)
	mustApply(table, newHeartbeat("edge1", epoch))
	before, _ := table.Get("edge1")

	// equal timestamp is a duplicate delivery
	Expect(mustApply(table, newHeartbeat("edge1", epoch))).To(Equal(OutcomeStale))
	Expect(mustApply(table, newHeartbeat("edge1", epoch.Add(-10*time.Second)))).To(Equal(OutcomeStale))

	after, _ := table.Get("edge1")
	Expect(after).To(Equal(before))
	Expect(after.ConsecutiveOk).To(Equal(1))
}

func TestApplyUnknownServer(t *testing.T) {
	RegisterTestingT(t)

	table, _ := newTestTable(t)
	before := table.Snapshot()

	Expect(mustApply(table, newHeartbeat("unknown", epoch))).To(Equal(OutcomeUnknownServer))
	Expect(table.Snapshot()).To(Equal(before))
	_, ok := table.Get("unknown")
	Expect(ok).To(BeFalse())
}

func TestApplyInvalidMetrics(t *testing.T) {
	RegisterTestingT(t)

	table, _ := newTestTable(t)
	s := &sender{sent: epoch}
	mustApply(table, s.next("edge1"))
	before, _ := table.Get("edge1")

	for _, mutate := range []func(m *api.Metrics){
		func(m *api.Metrics) { m.ConnectionAmount = math.NaN() },
		func(m *api.Metrics) { m.TrafficAmountBytes1m = math.Inf(1) },
		func(m *api.Metrics) { m.IfaceBytesCap = math.NaN() },
		func(m *api.Metrics) { m.CPULoad1m = math.Inf(-1) },
	} {
		hb := s.next("edge1")
		mutate(&hb.Metrics)
		Expect(mustApply(table, hb)).To(Equal(OutcomeInvalidMetrics))
	}

	after, _ := table.Get("edge1")
	Expect(after).To(Equal(before))
}

func TestApplyZeroCapacityIsAccepted(t *testing.T) {
	RegisterTestingT(t)

	table, _ := newTestTable(t)
	s := &sender{sent: epoch}
	for i := 0; i < 2; i++ {
		hb := s.next("edge1")
		hb.Metrics.IfaceBytesCap = 0
		Expect(mustApply(table, hb)).To(Equal(OutcomeAccepted))
	}
	state, _ := table.Get("edge1")
	Expect(state.IsAlive).To(BeTrue())
	Expect(state.Metrics.IfaceBytesCap).To(Equal(0.0))
}

func TestApplyAfterTimeout(t *testing.T) {
	RegisterTestingT(t)

	table, fakeClock := newTestTable(t)
	s := &sender{sent: epoch}
	mustApply(table, s.next("edge1"))
	mustApply(table, s.next("edge1"))

	fakeClock.Step(constants.HeartbeatTimeout + time.Second)
	Expect(mustApply(table, s.next("edge1"))).To(Equal(OutcomeAccepted))
	state, _ := table.Get("edge1")
	Expect(state.IsAlive).To(BeFalse())
	Expect(state.ConsecutiveOk).To(Equal(1))

	fakeClock.Step(time.Second)
	mustApply(table, s.next("edge1"))
	state, _ = table.Get("edge1")
	Expect(state.IsAlive).To(BeTrue())
	Expect(state.Penalty).To(Equal(1.5))
}

func TestApplyGapOfExactlyTimeout(t *testing.T) {
	RegisterTestingT(t)

	table, fakeClock := newTestTable(t)
	s := &sender{sent: epoch}
	mustApply(table, s.next("edge1"))

	fakeClock.Step(constants.HeartbeatTimeout)
	mustApply(table, s.next("edge1"))
	state, _ := table.Get("edge1")
	Expect(state.IsAlive).To(BeTrue())
	Expect(state.ConsecutiveOk).To(Equal(2))
}

func TestSweep(t *testing.T) {
	RegisterTestingT(t)

	table, fakeClock := newTestTable(t)
	s := &sender{sent: epoch}
	mustApply(table, s.next("edge1"))
	mustApply(table, s.next("edge1"))
	mustApply(table, s.next("edge2"))
	mustApply(table, s.next("edge2"))

	fakeClock.Step(30 * time.Second)
	Expect(table.Sweep()).To(Equal(0))

	// edge2 keeps reporting
	mustApply(table, s.next("edge2"))
	fakeClock.Step(41 * time.Second)
	Expect(table.Sweep()).To(Equal(1))

	edge1, _ := table.Get("edge1")
	Expect(edge1.IsAlive).To(BeFalse())
	Expect(edge1.ConsecutiveOk).To(Equal(0))
	Expect(edge1.Metrics).NotTo(BeNil())
	edge2, _ := table.Get("edge2")
	Expect(edge2.IsAlive).To(BeTrue())

	// a demoted server needs two fresh heartbeats again
	mustApply(table, s.next("edge1"))
	edge1, _ = table.Get("edge1")
	Expect(edge1.IsAlive).To(BeFalse())
	mustApply(table, s.next("edge1"))
	edge1, _ = table.Get("edge1")
	Expect(edge1.IsAlive).To(BeTrue())
	Expect(edge1.Penalty).To(Equal(1.5))
}

func TestSweepIgnoresColdServers(t *testing.T) {
	RegisterTestingT(t)

	table, fakeClock := newTestTable(t)
	mustApply(table, newHeartbeat("edge1", epoch))

	fakeClock.Step(2 * constants.HeartbeatTimeout)
	Expect(table.Sweep()).To(Equal(0))
	state, _ := table.Get("edge1")
	Expect(state.ConsecutiveOk).To(Equal(1))
}

func TestAliveByZone(t *testing.T) {
	RegisterTestingT(t)

	table, _ := newTestTable(t)
	s := &sender{sent: epoch}
	for _, name := range []string{"edge3", "edge1", "edge2"} {
		mustApply(table, s.next(name))
		mustApply(table, s.next(name))
	}

	eu := table.AliveByZone("eu")
	Expect(eu).To(HaveLen(2))
	Expect(eu[0].Name).To(Equal("edge1"))
	Expect(eu[1].Name).To(Equal("edge3"))

	us := table.AliveByZone("us")
	Expect(us).To(HaveLen(1))
	Expect(us[0].Name).To(Equal("edge2"))

	Expect(table.AliveByZone("asia")).To(BeEmpty())

	// returned states are copies
	eu[0].IsAlive = false
	eu[0].Metrics.ConnectionAmount = 999
	state, _ := table.Get("edge1")
	Expect(state.IsAlive).To(BeTrue())
	Expect(state.Metrics.ConnectionAmount).To(Equal(10.0))
}

func TestAliveByZoneExcludesCold(t *testing.T) {
	RegisterTestingT(t)

	table, _ := newTestTable(t)
	mustApply(table, newHeartbeat("edge1", epoch))
	Expect(table.AliveByZone("eu")).To(BeEmpty())
}

func TestClose(t *testing.T) {
	RegisterTestingT(t)

	table, _ := newTestTable(t)
	table.Close()
	table.Close()

	Expect(table.Len()).To(Equal(0))
	Expect(table.AliveByZone("eu")).To(BeEmpty())
	_, err := table.Apply(newHeartbeat("edge1", epoch))
	Expect(err).To(MatchError(ErrTableClosed))
	Expect(table.Sweep()).To(Equal(0))
	Expect(table.Bootstrap(api.ServerList{{Name: "edge1", Zone: "eu"}})).To(MatchError(ErrTableClosed))
}

func TestConcurrentApplyAndQuery(t *testing.T) {
	RegisterTestingT(t)

	fakeClock := testingclock.NewFakeClock(epoch)
	table := NewStateTable(fakeClock, constants.HeartbeatTimeout)
	servers := api.ServerList{}
	for i := 0; i < 20; i++ {
		servers = append(servers, &api.Server{Name: fmt.Sprintf("edge%d", i), Zone: "eu"})
	}
	Expect(table.Bootstrap(servers)).To(Succeed())

	var wg sync.WaitGroup
	for _, server := range servers {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for i := 1; i <= 50; i++ {
				_, _ = table.Apply(newHeartbeat(name, epoch.Add(time.Duration(i)*time.Second)))
			}
		}(server.Name)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				for _, state := range table.AliveByZone("eu") {
					if !state.IsAlive || state.Penalty < 1.0 {
						t.Errorf("inconsistent snapshot for %s", state.Name)
					}
				}
				table.Sweep()
			}
		}()
	}
	wg.Wait()

	alive := table.AliveByZone("eu")
	Expect(alive).To(HaveLen(20))
	for _, state := range alive {
		Expect(state.ConsecutiveOk).To(Equal(50))
		Expect(state.Penalty).To(Equal(1.0))
		Expect(*state.LastSentTimestamp).To(Equal(epoch.Add(50 * time.Second)))
	}
}
