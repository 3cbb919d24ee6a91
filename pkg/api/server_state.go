package api

import "time"

// Metrics is the load snapshot carried by the last accepted heartbeat of a server.
type Metrics struct {
	ConnectionAmount     float64 `json:"connection_amount"`
	TrafficAmountBytes1m float64 `json:"traffic_amount_bytes_1m"`
	IfaceBytesCap        float64 `json:"iface_bytes_cap"`
	CPULoad1m            float64 `json:"cpu_load_1m"`
}

// ServerState is the liveness view the watchdog keeps for one registry entry.
// Name and Zone never change after the state is seeded from the registry.
type ServerState struct {
	Name string
	Zone string

	// LastSentTimestamp is the sender clock of the last accepted heartbeat.
	LastSentTimestamp *time.Time
	// LastReceivedAt is the local clock when the last accepted heartbeat was applied.
	LastReceivedAt *time.Time

	ConsecutiveOk int
	IsAlive       bool
	// Penalty multiplies the load score, it is never below 1.0.
	Penalty float64

	Metrics *Metrics
}

type ServerStateList []ServerState

// NewServerState returns the cold state of a freshly registered server.
func NewServerState(name, zone string) *ServerState {
	return &ServerState{
		Name:    name,
		Zone:    zone,
		Penalty: 1.0,
	}
}

// Copy returns a deep copy of the state so callers can read it without holding any lock.
func (s *ServerState) Copy() ServerState {
	c := *s
	if s.LastSentTimestamp != nil {
		t := *s.LastSentTimestamp
		c.LastSentTimestamp = &t
	}
	if s.LastReceivedAt != nil {
		t := *s.LastReceivedAt
		c.LastReceivedAt = &t
	}
	if s.Metrics != nil {
		m := *s.Metrics
		c.Metrics = &m
	}
	return c
}
