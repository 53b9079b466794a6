package postgresengine

import (
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

// Option defines a functional option for configuring a Store.
type Option func(*Store) error

// WithTableNames overrides all table names at once. Every name must be set.
func WithTableNames(tables TableNames) Option {
	return func(s *Store) error {
		if tables.Items == "" || tables.Borrowers == "" || tables.Loans == "" || tables.Events == "" {
			return ErrEmptyTableName
		}

		s.tables = tables

		return nil
	}
}

// WithEventsTable sets the name of the loan event journal table.
func WithEventsTable(tableName string) Option {
	return func(s *Store) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		s.tables.Events = tableName

		return nil
	}
}

// WithLogger sets the logger for the Store.
//
// Debug level: rendered SQL with execution timing (development use)
// Warn level: non-critical issues like cleanup failures
// Error level: failures that abort the operation.
func WithLogger(logger shell.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Store. It takes precedence over WithLogger.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(s *Store) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
// It receives statement durations and database error counts labelled by action.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(s *Store) error {
		s.metricsCollector = collector
		return nil
	}
}
