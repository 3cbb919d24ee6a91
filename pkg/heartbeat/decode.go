package heartbeat

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/openshift-online/watchdog/pkg/api"
)

// wireHeartbeat is the JSON body published by a server on heartbeat.<name>.
// Metric fields are pointers so a missing value can be told apart from zero.
// Zero values are still encoded, omitempty only drops nil pointers.
type wireHeartbeat struct {
	Name                 string   `json:"name"`
	UTCSent              string   `json:"utc_sent"`
	ConnectionAmount     *float64 `json:"connection_amount,omitempty"`
	TrafficAmountBytes1m *float64 `json:"traffic_amount_bytes_1m,omitempty"`
	IfaceBytesCap        *float64 `json:"iface_bytes_cap,omitempty"`
	CPULoad1m            *float64 `json:"cpu_load_1m,omitempty"`
}

// Decode parses a heartbeat message body. Missing or null metric values decode to NaN
// and are left for the state machine to reject.
func Decode(data []byte) (*api.Heartbeat, error) {
	var wire wireHeartbeat
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("malformed heartbeat: %w", err)
	}
	if wire.Name == "" {
		return nil, fmt.Errorf("heartbeat has no server name")
	}
	if wire.UTCSent == "" {
		return nil, fmt.Errorf("heartbeat from %q has no utc_sent", wire.Name)
	}
	sent, err := parseSent(wire.UTCSent)
	if err != nil {
		return nil, fmt.Errorf("heartbeat from %q has an invalid utc_sent: %w", wire.Name, err)
	}

	return &api.Heartbeat{
		Name:    wire.Name,
		UTCSent: sent.UTC(),
		Metrics: api.Metrics{
			ConnectionAmount:     valueOrNaN(wire.ConnectionAmount),
			TrafficAmountBytes1m: valueOrNaN(wire.TrafficAmountBytes1m),
			IfaceBytesCap:        valueOrNaN(wire.IfaceBytesCap),
			CPULoad1m:            valueOrNaN(wire.CPULoad1m),
		},
	}, nil
}

// sentLayouts are the ISO-8601 forms accepted for utc_sent, tried in order.
// A timestamp without an offset is read as UTC.
var sentLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
}

func parseSent(value string) (time.Time, error) {
	var firstErr error
	for _, layout := range sentLayouts {
		sent, err := time.Parse(layout, value)
		if err == nil {
			return sent, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// Encode is the inverse of Decode, `watchdog publish` uses it to send heartbeats by hand.
func Encode(hb *api.Heartbeat) ([]byte, error) {
	return json.Marshal(wireHeartbeat{
		Name:                 hb.Name,
		UTCSent:              hb.UTCSent.UTC().Format(time.RFC3339Nano),
		ConnectionAmount:     finiteOrNil(hb.Metrics.ConnectionAmount),
		TrafficAmountBytes1m: finiteOrNil(hb.Metrics.TrafficAmountBytes1m),
		IfaceBytesCap:        finiteOrNil(hb.Metrics.IfaceBytesCap),
		CPULoad1m:            finiteOrNil(hb.Metrics.CPULoad1m),
	})
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// json cannot carry NaN or Inf, they are sent as missing values
func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
