package detector

// Outcome is the result of applying one heartbeat to the state table.
// Every outcome is terminal for the message that carried the heartbeat.
type Outcome string

const (
	OutcomeAccepted       Outcome = "accepted"
	OutcomeUnknownServer  Outcome = "unknown_server"
	OutcomeStale          Outcome = "stale"
	OutcomeInvalidMetrics Outcome = "invalid_metrics"
)

func (o Outcome) String() string {
	return string(o)
}

// Accepted reports whether the heartbeat changed the state of its server.
func (o Outcome) Accepted() bool {
	return o == OutcomeAccepted
}
