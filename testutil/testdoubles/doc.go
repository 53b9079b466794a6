// Package testdoubles provides spies for the observability interfaces of the inventory ledger and the
// circulation shell.
//
//   - ContextualLoggerSpy: captures context-aware log calls per level
//   - MetricsCollectorSpy: captures durations, counters and values with their labels
//   - NotificationSinkSpy: captures published lifecycle events and can simulate a failing sink
//
// The spies satisfy the interfaces structurally, so they can be handed to any package that declares
// Logger, ContextualLogger, MetricsCollector or ContextualMetricsCollector with the usual method sets.
package testdoubles
