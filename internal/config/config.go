// Package config handles YAML configuration loading with environment variable expansion.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Config is the top-level BFF configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Session   SessionConfig   `yaml:"session"`
	Database  DatabaseConfig  `yaml:"database"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig holds inbound HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// UpstreamConfig holds settings for the token-authenticated upstream API.
// The generous call timeout accommodates long-running AI analysis calls;
// short internal calls override it per outbound call.
type UpstreamConfig struct {
	BaseURL        string        `yaml:"base_url"`        // e.g. http://api.internal:8000/api/v1
	ConnectTimeout time.Duration `yaml:"connect_timeout"` // TCP connect budget
	CallTimeout    time.Duration `yaml:"call_timeout"`    // default per-call response budget
	IdleTimeout    time.Duration `yaml:"idle_timeout"`    // pooled connection idle limit
}

// SessionConfig holds browser session settings.
type SessionConfig struct {
	TTL          time.Duration `yaml:"ttl"`         // idle expiry of server-side sessions
	MaxSessions  int           `yaml:"max_sessions"`
	CookieName   string        `yaml:"cookie_name"`
	CookieSecure bool          `yaml:"cookie_secure"`
}

// DatabaseConfig holds SQLite settings for the local identity store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"` // file path or ":memory:"
}

// TelemetryConfig holds observability settings.
type TelemetryConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// MetricsConfig controls Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TracingConfig controls OpenTelemetry tracing.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Endpoint   string  `yaml:"endpoint"`    // OTLP gRPC endpoint
	SampleRate float64 `yaml:"sample_rate"` // 0.0 to 1.0
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnv replaces ${VAR} patterns with environment variable values.
func expandEnv(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := string(match[2 : len(match)-1])
		if val, ok := os.LookupEnv(varName); ok {
			return []byte(val)
		}
		return match
	})
}

// Defaults returns a Config populated with deployment defaults.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    200 * time.Second, // must outlast the slowest upstream call
			ShutdownTimeout: 30 * time.Second,
		},
		Upstream: UpstreamConfig{
			ConnectTimeout: 10 * time.Second,
			CallTimeout:    180 * time.Second,
			IdleTimeout:    180 * time.Second,
		},
		Session: SessionConfig{
			TTL:         24 * time.Hour,
			MaxSessions: 100_000,
			CookieName:  "foyer_session",
		},
		Database: DatabaseConfig{
			DSN: "foyer.db",
		},
	}
}

// Load reads and parses a YAML config file, expanding environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	data = expandEnv(data)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that cannot produce a working deployment.
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("config: upstream.base_url is required")
	}
	if !strings.HasPrefix(c.Upstream.BaseURL, "http://") && !strings.HasPrefix(c.Upstream.BaseURL, "https://") {
		return fmt.Errorf("config: upstream.base_url must be an http(s) URL")
	}
	return nil
}
