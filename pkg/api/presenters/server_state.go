package presenters

import (
	"math"
	"time"

	"github.com/openshift-online/watchdog/pkg/api"
)

type ServerState struct {
	Name              string       `json:"name"`
	Zone              string       `json:"zone"`
	Alive             bool         `json:"alive"`
	ConsecutiveOk     int          `json:"consecutive_ok"`
	Penalty           float64      `json:"penalty"`
	LastSentTimestamp *time.Time   `json:"last_sent_timestamp,omitempty"`
	LastReceivedAt    *time.Time   `json:"last_received_at,omitempty"`
	Metrics           *api.Metrics `json:"metrics,omitempty"`
}

type ServerStateList struct {
	Kind  string        `json:"kind"`
	Total int           `json:"total"`
	Items []ServerState `json:"items"`
}

func PresentServerState(state api.ServerState) ServerState {
	return ServerState{
		Name:              state.Name,
		Zone:              state.Zone,
		Alive:             state.IsAlive,
		ConsecutiveOk:     state.ConsecutiveOk,
		Penalty:           state.Penalty,
		LastSentTimestamp: state.LastSentTimestamp,
		LastReceivedAt:    state.LastReceivedAt,
		Metrics:           presentableMetrics(state.Metrics),
	}
}

func PresentServerStates(states api.ServerStateList) ServerStateList {
	items := make([]ServerState, 0, len(states))
	for _, s := range states {
		items = append(items, PresentServerState(s))
	}
	return ServerStateList{
		Kind:  ObjectKind(states),
		Total: len(items),
		Items: items,
	}
}

// stored metrics are always finite, anything else cannot be encoded as json
func presentableMetrics(m *api.Metrics) *api.Metrics {
	if m == nil {
		return nil
	}
	for _, v := range []float64{m.ConnectionAmount, m.TrafficAmountBytes1m, m.IfaceBytesCap, m.CPULoad1m} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
	}
	return m
}
