package heartbeat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/detector"
)

type fakeMessage struct {
	data      []byte
	subject   string
	delivered uint64
	ackErr    error

	mu    sync.Mutex
	acked int
}

func newFakeMessage(data string) *fakeMessage {
	return &fakeMessage{data: []byte(data), subject: "heartbeat.edge1", delivered: 1}
}

func (m *fakeMessage) Data() []byte    { return m.data }
func (m *fakeMessage) Subject() string { return m.subject }

func (m *fakeMessage) NumDelivered() uint64 { return m.delivered }

func (m *fakeMessage) Ack() error {
	if m.ackErr != nil {
		return m.ackErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked++
	return nil
}

func (m *fakeMessage) Acked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acked
}

type fakeApplier struct {
	outcome detector.Outcome
	err     error
	onApply func(hb *api.Heartbeat)

	mu      sync.Mutex
	applied []*api.Heartbeat
}

func (a *fakeApplier) Apply(hb *api.Heartbeat) (detector.Outcome, error) {
	a.mu.Lock()
	a.applied = append(a.applied, hb)
	a.mu.Unlock()
	if a.onApply != nil {
		a.onApply(hb)
	}
	if a.err != nil {
		return "", a.err
	}
	if a.outcome == "" {
		return detector.OutcomeAccepted, nil
	}
	return a.outcome, nil
}

func (a *fakeApplier) Applied() []*api.Heartbeat {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*api.Heartbeat{}, a.applied...)
}

// fakeSource returns the queued batches one per fetch, then empty batches.
type fakeSource struct {
	mu      sync.Mutex
	batches [][]Message
	errs    []error
	fetches int
}

var errFetch = errors.New("nats: timeout")

func (s *fakeSource) Fetch(ctx context.Context, batch int, maxWait time.Duration) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if len(s.batches) == 0 {
		return nil, nil
	}
	next := s.batches[0]
	s.batches = s.batches[1:]
	if len(next) > batch {
		next = next[:batch]
	}
	return next, nil
}

func (s *fakeSource) Fetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}
