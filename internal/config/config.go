// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrJobsURLRequired is returned when JOBS_URL is blank.
	ErrJobsURLRequired = errors.New("config: JOBS_URL must not be empty")
	// ErrRegionMarkerRequired is returned when REGION_MARKER is blank.
	ErrRegionMarkerRequired = errors.New("config: REGION_MARKER must not be empty")
	// ErrInvalidKeyStrategy is returned for an unknown KEY_STRATEGY value.
	ErrInvalidKeyStrategy = errors.New(`config: KEY_STRATEGY must be "location-title" or "title"`)
	// ErrInvalidInterval is returned for a non-positive CHECK_INTERVAL.
	ErrInvalidInterval = errors.New("config: CHECK_INTERVAL must be positive")
)

// Config holds all configuration for the monitor. SMTP settings are
// deliberately absent: the notifier reads those from the environment
// on every send.
type Config struct {
	// Target page settings
	JobsURL      string `env:"JOBS_URL, default=https://www.amazon.jobs/content/de/teams/fulfillment-and-operations/germany" json:"jobs_url"`
	RegionMarker string `env:"REGION_MARKER, default=Rheinland" json:"region_marker"`
	KeyStrategy  string `env:"KEY_STRATEGY, default=location-title" json:"key_strategy"`

	// Polling settings
	CheckInterval  time.Duration `env:"CHECK_INTERVAL, default=2s" json:"check_interval"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=30s" json:"request_timeout"`

	// State settings
	StateFile string `env:"STATE_FILE, default=previous_jobs.json" json:"state_file"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks the loaded configuration for startup-level errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JobsURL) == "" {
		return ErrJobsURLRequired
	}
	if strings.TrimSpace(c.RegionMarker) == "" {
		return ErrRegionMarkerRequired
	}
	if c.KeyStrategy != "location-title" && c.KeyStrategy != "title" {
		return ErrInvalidKeyStrategy
	}
	if c.CheckInterval <= 0 {
		return ErrInvalidInterval
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for
// production; otherwise human-readable text.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

// String returns a readable summary of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{JobsURL: %s, RegionMarker: %s, KeyStrategy: %s, CheckInterval: %s, RequestTimeout: %s, StateFile: %s, LogFormat: %s, LogLevel: %s}",
		c.JobsURL,
		c.RegionMarker,
		c.KeyStrategy,
		c.CheckInterval,
		c.RequestTimeout,
		c.StateFile,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
