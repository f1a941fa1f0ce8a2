// Package config loads the application configuration.
// Defaults come from environment variables; an optional YAML file
// (APP_CONFIG_FILE) overrides them.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	pkgconfig "itemkeeper/pkg/config"
)

// Sampling interval bounds. Anything outside this range is either useless
// resolution or a misconfiguration.
const (
	minSampleInterval = 1 * time.Second
	maxSampleInterval = 10 * time.Minute
)

// AppConfig holds the runtime configuration of the service.
type AppConfig struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// MaxBodyBytes limits inbound request body size.
	MaxBodyBytes int64
	// SampleInterval is the cadence of the background system sampler.
	SampleInterval time.Duration
	// RateLimitEnabled toggles the per-client rate limiting middleware.
	RateLimitEnabled bool
	// RateLimitRPS is the sustained per-client request rate.
	RateLimitRPS float64
	// RateLimitBurst is the per-client burst capacity.
	RateLimitBurst int
}

// fileConfig mirrors the YAML file layout. Durations are strings parsed
// with time.ParseDuration.
type fileConfig struct {
	Server struct {
		Addr         string `yaml:"addr"`
		MaxBodyBytes int64  `yaml:"max_body_bytes"`
	} `yaml:"server"`
	Metrics struct {
		SampleInterval string `yaml:"sample_interval"`
	} `yaml:"metrics"`
	RateLimit struct {
		Enabled           *bool   `yaml:"enabled"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"ratelimit"`
}

// Load builds the application configuration from environment defaults,
// overlaid by the YAML file at path when path is non-empty.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{
		Addr:             pkgconfig.GetEnvString("APP_ADDR", ":8080"),
		MaxBodyBytes:     int64(pkgconfig.GetEnvInt("APP_MAX_BODY_BYTES", 1<<20)),
		SampleInterval:   pkgconfig.GetEnvDuration("METRICS_SAMPLE_INTERVAL", 15*time.Second),
		RateLimitEnabled: pkgconfig.GetEnvBool("RATELIMIT_ENABLED", true),
		RateLimitRPS:     float64(pkgconfig.GetEnvInt("RATELIMIT_RPS", 50)),
		RateLimitBurst:   pkgconfig.GetEnvInt("RATELIMIT_BURST", 100),
	}

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *AppConfig) applyFile(path string) error {
	// #nosec G304 -- path comes from operator configuration, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if fc.Server.Addr != "" {
		c.Addr = fc.Server.Addr
	}
	if fc.Server.MaxBodyBytes > 0 {
		c.MaxBodyBytes = fc.Server.MaxBodyBytes
	}
	if fc.Metrics.SampleInterval != "" {
		d, err := time.ParseDuration(fc.Metrics.SampleInterval)
		if err != nil {
			return fmt.Errorf("invalid metrics.sample_interval: %w", err)
		}
		c.SampleInterval = d
	}
	if fc.RateLimit.Enabled != nil {
		c.RateLimitEnabled = *fc.RateLimit.Enabled
	}
	if fc.RateLimit.RequestsPerSecond > 0 {
		c.RateLimitRPS = fc.RateLimit.RequestsPerSecond
	}
	if fc.RateLimit.Burst > 0 {
		c.RateLimitBurst = fc.RateLimit.Burst
	}
	return nil
}

func (c *AppConfig) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	if err := pkgconfig.ValidateDurationRange(c.SampleInterval, minSampleInterval, maxSampleInterval); err != nil {
		return fmt.Errorf("invalid sample interval: %w", err)
	}
	if c.RateLimitEnabled {
		if c.RateLimitRPS <= 0 {
			return fmt.Errorf("ratelimit requests_per_second must be positive")
		}
		if c.RateLimitBurst <= 0 {
			return fmt.Errorf("ratelimit burst must be positive")
		}
	}
	return nil
}
