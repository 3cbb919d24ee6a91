package api

import "time"

// Heartbeat is a decoded heartbeat message. Metric values that were missing on the
// wire are NaN, so they fail the finiteness checks of the state machine.
type Heartbeat struct {
	Name    string
	UTCSent time.Time
	Metrics Metrics
}
