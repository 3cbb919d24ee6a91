package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/openshift-online/watchdog/pkg/constants"
)

// DetectorConfig contains the timing of the failure detector.
type DetectorConfig struct {
	HeartbeatTimeout time.Duration `json:"heartbeat_timeout"`
	SweepInterval    time.Duration `json:"sweep_interval"`
}

func NewDetectorConfig() *DetectorConfig {
	return &DetectorConfig{
		HeartbeatTimeout: constants.HeartbeatTimeout,
		SweepInterval:    constants.SweepInterval,
	}
}

// AddFlags configures the DetectorConfig with command line flags.
//   - "heartbeat-timeout" is the longest silence tolerated from an alive server (default: 70 seconds).
//   - "sweep-interval" determines how often alive servers are checked for silence (default: 30 seconds).
//
// A server that stops sending is marked dead at most one sweep interval after the timeout elapses.
func (c *DetectorConfig) AddFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&c.HeartbeatTimeout, "heartbeat-timeout", c.HeartbeatTimeout, "Longest gap between accepted heartbeats before a server is considered dead")
	fs.DurationVar(&c.SweepInterval, "sweep-interval", c.SweepInterval, "Interval of the liveness sweep over alive servers")
}

func (c *DetectorConfig) ReadFiles() error {
	return nil
}

func (c *DetectorConfig) Validate() error {
	if c.HeartbeatTimeout <= 0 {
		return fmt.Errorf("heartbeat timeout must be positive, got %s", c.HeartbeatTimeout)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", c.SweepInterval)
	}
	return nil
}
