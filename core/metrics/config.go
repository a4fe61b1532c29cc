package metrics

import "github.com/communityshield/dispatch/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPort is the listen address of the /metrics server, e.g.
	// ":2112". Empty disables the server.
	PrometheusPort string `json:"prometheus_port"`
}
