// Package detector keeps the liveness view of every registered server.
//
// Each server moves between two states. It starts Cold and becomes Alive after
// two consecutive accepted heartbeats with no timeout in between. A gap longer than
// the heartbeat timeout, observed either by the next heartbeat or by the periodic
// sweep, sends it back to Cold. On recovery the load penalty jumps to 1.5 and then
// decays by 10% per accepted heartbeat down to 1.0.
package detector

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"k8s.io/utils/clock"

	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/constants"
)

// ErrTableClosed is returned by mutations that start after Close.
var ErrTableClosed = errors.New("state table is closed")

// StateTable holds one ServerState per registry entry. A single lock serializes
// every mutation, so updates to one entry are never interleaved.
type StateTable struct {
	mu      sync.RWMutex
	clock   clock.PassiveClock
	timeout time.Duration
	closed  bool

	states map[string]*api.ServerState
	// zone name -> server names, guarded by mu
	zones map[string]mapset.Set[string]
}

func NewStateTable(clock clock.PassiveClock, timeout time.Duration) *StateTable {
	if timeout <= 0 {
		timeout = constants.HeartbeatTimeout
	}
	return &StateTable{
		clock:   clock,
		timeout: timeout,
		states:  map[string]*api.ServerState{},
		zones:   map[string]mapset.Set[string]{},
	}
}

// Bootstrap seeds a Cold state for every registry entry. It may run once.
func (t *StateTable) Bootstrap(servers api.ServerList) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTableClosed
	}
	if len(t.states) != 0 {
		return fmt.Errorf("state table already holds %d servers", len(t.states))
	}

	states := make(map[string]*api.ServerState, len(servers))
	zones := map[string]mapset.Set[string]{}
	for _, s := range servers {
		if s.Name == "" {
			return fmt.Errorf("server %s has an empty name", s.ID)
		}
		if _, exists := states[s.Name]; exists {
			return fmt.Errorf("duplicate server name %q in registry", s.Name)
		}
		states[s.Name] = api.NewServerState(s.Name, s.Zone)
		if _, ok := zones[s.Zone]; !ok {
			zones[s.Zone] = mapset.NewThreadUnsafeSet[string]()
		}
		zones[s.Zone].Add(s.Name)
	}

	t.states = states
	t.zones = zones
	for zone := range zones {
		aliveServersMetric.WithLabelValues(zone).Set(0)
	}
	return nil
}

// Apply runs one heartbeat through the liveness state machine. Rejected heartbeats
// leave the table untouched. The only error is ErrTableClosed.
func (t *StateTable) Apply(hb *api.Heartbeat) (Outcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return "", ErrTableClosed
	}

	outcome := t.apply(hb)
	updateHeartbeatsMetric(outcome)
	return outcome, nil
}

func (t *StateTable) apply(hb *api.Heartbeat) Outcome {
	state, ok := t.states[hb.Name]
	if !ok {
		return OutcomeUnknownServer
	}
	if !finiteMetrics(hb.Metrics) {
		return OutcomeInvalidMetrics
	}
	if state.LastSentTimestamp != nil && !hb.UTCSent.After(*state.LastSentTimestamp) {
		return OutcomeStale
	}

	now := t.clock.Now()
	if state.LastReceivedAt != nil && now.Sub(*state.LastReceivedAt) > t.timeout {
		t.markCold(state)
	}

	sent := hb.UTCSent
	metrics := hb.Metrics
	state.LastSentTimestamp = &sent
	state.LastReceivedAt = &now
	state.Metrics = &metrics
	state.ConsecutiveOk++

	switch {
	case !state.IsAlive && state.ConsecutiveOk >= constants.AliveThreshold:
		state.IsAlive = true
		state.Penalty = constants.RecoveryPenalty
		updateTransitionMetrics(state.Zone, true)
	case state.IsAlive:
		state.Penalty = math.Max(constants.MinPenalty, state.Penalty*constants.PenaltyDecay)
	}
	return OutcomeAccepted
}

// Sweep demotes every alive server that has not been heard from within the timeout
// and returns how many were demoted.
func (t *StateTable) Sweep() int {
	start := time.Now()
	defer updateSweepDurationMetric(start)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0
	}

	now := t.clock.Now()
	demoted := 0
	for _, state := range t.states {
		if !state.IsAlive || state.LastReceivedAt == nil {
			continue
		}
		if now.Sub(*state.LastReceivedAt) > t.timeout {
			t.markCold(state)
			demoted++
		}
	}
	return demoted
}

// markCold must be called with mu held.
func (t *StateTable) markCold(state *api.ServerState) {
	if state.IsAlive {
		updateTransitionMetrics(state.Zone, false)
	}
	state.IsAlive = false
	state.ConsecutiveOk = 0
}

// AliveByZone returns copies of the alive states in zone ordered by name.
func (t *StateTable) AliveByZone(zone string) []api.ServerState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := []api.ServerState{}
	names, ok := t.zones[zone]
	if !ok {
		return result
	}
	for _, name := range names.ToSlice() {
		state := t.states[name]
		if state.IsAlive {
			result = append(result, state.Copy())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

func (t *StateTable) Get(name string) (api.ServerState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	state, ok := t.states[name]
	if !ok {
		return api.ServerState{}, false
	}
	return state.Copy(), true
}

// Snapshot returns copies of every state ordered by zone, then name.
func (t *StateTable) Snapshot() api.ServerStateList {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(api.ServerStateList, 0, len(t.states))
	for _, state := range t.states {
		result = append(result, state.Copy())
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Zone != result[j].Zone {
			return result[i].Zone < result[j].Zone
		}
		return result[i].Name < result[j].Name
	})
	return result
}

func (t *StateTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.states)
}

// Close blocks new mutations and drops every state. It waits for an in-flight
// mutation to finish and is safe to call more than once.
func (t *StateTable) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	for zone := range t.zones {
		aliveServersMetric.DeleteLabelValues(zone)
	}
	t.states = map[string]*api.ServerState{}
	t.zones = map[string]mapset.Set[string]{}
}

func finiteMetrics(m api.Metrics) bool {
	for _, v := range []float64{m.ConnectionAmount, m.TrafficAmountBytes1m, m.IfaceBytesCap, m.CPULoad1m} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
