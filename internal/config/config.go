// Package config defines process configuration for the collector and simulator
// binaries and the defaults used by the analytics client.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults, Load(ctx) to layer sources.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"runtime"
	"time"

	"github.com/okian/playpulse/internal/domain/mediaurl"
)

// Default collector endpoint base used by the analytics client.
const DefaultCollectorURL = mediaurl.DefaultCollectorBase

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the collector HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CollectorURL is the base the ping URL is derived from.
	CollectorURL string `koanf:"collector_url"`

	// PingIntervalMS is the reporting scheduler cadence.
	PingIntervalMS int `koanf:"ping_interval_ms"`

	// HTTPTimeoutMS bounds a single ping request.
	HTTPTimeoutMS int `koanf:"http_timeout_ms"`

	// BreakerFailures opens the transport circuit breaker after that many
	// consecutive failures. Zero disables the breaker.
	BreakerFailures int `koanf:"breaker_failures"`

	// BreakerCooldownMS is how long an open breaker rejects pings.
	BreakerCooldownMS int `koanf:"breaker_cooldown_ms"`

	// MetricsEnabled turns Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace prefixes every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// SimSessions is the number of simulated playback sessions.
	SimSessions int `koanf:"sim_sessions"`

	// SimWorkers is the number of concurrent simulated players.
	SimWorkers int `koanf:"sim_workers"`

	// SimStepMS is the pause between simulated player actions.
	SimStepMS int `koanf:"sim_step_ms"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		CollectorURL:      DefaultCollectorURL,
		PingIntervalMS:    10_000,
		HTTPTimeoutMS:     5_000,
		BreakerFailures:   0,
		BreakerCooldownMS: 30_000,
		MetricsEnabled:    true,
		MetricsNamespace:  "playpulse",
		SimSessions:       100,
		SimWorkers:        runtime.NumCPU() * 2,
		SimStepMS:         200,
	}
}

// PingInterval returns the scheduler cadence as a duration.
func (c *Config) PingInterval() time.Duration {
	return time.Duration(c.PingIntervalMS) * time.Millisecond
}

// HTTPTimeout returns the per-ping request timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}

// BreakerCooldown returns how long an open breaker stays open.
func (c *Config) BreakerCooldown() time.Duration {
	return time.Duration(c.BreakerCooldownMS) * time.Millisecond
}

// SimStep returns the pause between simulated player actions.
func (c *Config) SimStep() time.Duration {
	return time.Duration(c.SimStepMS) * time.Millisecond
}
