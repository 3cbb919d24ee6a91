package config

import (
	"time"

	"github.com/spf13/pflag"
)

type SentryConfig struct {
	Enabled bool          `json:"enabled"`
	DSN     string        `json:"dsn"`
	DSNFile string        `json:"dsn_file"`
	Debug   bool          `json:"debug"`
	Timeout time.Duration `json:"timeout"`
}

func NewSentryConfig() *SentryConfig {
	return &SentryConfig{
		Enabled: false,
		DSNFile: "secrets/sentry.dsn",
		Timeout: 5 * time.Second,
	}
}

func (c *SentryConfig) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.Enabled, "enable-sentry", c.Enabled, "Enable sentry error monitoring")
	fs.StringVar(&c.DSNFile, "sentry-dsn-file", c.DSNFile, "File containing the sentry DSN")
	fs.BoolVar(&c.Debug, "enable-sentry-debug", c.Debug, "Enable sentry error monitoring debug mode")
	fs.DurationVar(&c.Timeout, "sentry-timeout", c.Timeout, "Timeout for all requests made to Sentry")
}

func (c *SentryConfig) ReadFiles() error {
	if !c.Enabled {
		return nil
	}
	return readFileValueString(c.DSNFile, &c.DSN)
}
