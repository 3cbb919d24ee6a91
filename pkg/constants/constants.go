package constants

import "time"

const (
	AuthMethodPassword = "password" // Standard postgres username/password authentication.

	// HeartbeatTimeout is the longest gap between two accepted heartbeats before a server is
	// considered dead.
	HeartbeatTimeout = 70 * time.Second

	// SweepInterval is how often alive servers are checked for an expired heartbeat timeout.
	SweepInterval = 30 * time.Second

	// AliveThreshold is the number of consecutive accepted heartbeats needed to become alive.
	AliveThreshold = 2

	// Penalty policy: jump on recovery, decay while alive, never below the floor.
	RecoveryPenalty = 1.5
	PenaltyDecay    = 0.9
	MinPenalty      = 1.0

	// Score weights.
	ConnectionWeight = 0.4
	TrafficWeight    = 0.4
	CPUWeight        = 0.2
)

const (
	HeartbeatSubjectPrefix = "heartbeat"
	DefaultStreamName      = "HEARTBEATS"
	DefaultDurableName     = "watchdog"
	DefaultStreamMaxAge    = 120 * time.Second
	DefaultAckWait         = 30 * time.Second
	DefaultMaxDeliver      = 5

	PullInterval  = 1 * time.Second
	PullBatchSize = 10
	PullMaxWait   = 500 * time.Millisecond
)
