package config

import (
	"github.com/spf13/pflag"
)

type MetricsConfig struct {
	BindPort    string `json:"bind_port"`
	EnableHTTPS bool   `json:"enable_https"`
}

func NewMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		BindPort:    "8080",
		EnableHTTPS: false,
	}
}

func (s *MetricsConfig) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&s.BindPort, "metrics-server-bindport", s.BindPort, "Metrics server bind port")
	fs.BoolVar(&s.EnableHTTPS, "enable-metrics-https", s.EnableHTTPS, "Enable HTTPS for metrics server")
}

func (s *MetricsConfig) ReadFiles() error {
	return nil
}
