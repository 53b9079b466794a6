package config

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// Option overrides a configuration value after the environment was processed.
type Option func(*Config)

// WithLogLevel sets the minimum log level.
func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.Level = level
	}
}

// WithLogFormat selects "json" or "console" log output.
func WithLogFormat(format string) Option {
	return func(c *Config) {
		c.Log.Format = format
	}
}

// WithStorageBackend selects "memory" or "postgres".
func WithStorageBackend(backend string) Option {
	return func(c *Config) {
		c.Storage.Backend = backend
	}
}

// WithHTTPPort sets the port of the REST adapter.
func WithHTTPPort(port string) Option {
	return func(c *Config) {
		c.Server.Port = port
	}
}

// WithWriteTimeout sets the HTTP write timeout.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = timeout
	}
}

// WithReminderInterval sets the interval between two reminder sweeps.
func WithReminderInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.Reminder.Interval = interval
	}
}
