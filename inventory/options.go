package inventory

// Option defines a functional option for configuring the Ledger.
type Option func(*Ledger) error

// WithLogger sets the logger for the Ledger.
// Debug level: every counter change. Error level: invariant violations.
func WithLogger(logger Logger) Option {
	return func(l *Ledger) error {
		l.logger = logger
		return nil
	}
}

// WithContextualLogger sets the context-aware logger for the Ledger. It takes precedence over WithLogger.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(l *Ledger) error {
		l.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Ledger.
func WithMetrics(collector MetricsCollector) Option {
	return func(l *Ledger) error {
		l.metricsCollector = collector
		return nil
	}
}
