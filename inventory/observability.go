package inventory

import (
	"context"
	"time"
)

// Logger interface for operational logging, warnings and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging with automatic trace correlation.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector interface for collecting ledger operation metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
// The ledger uses them when available, falling back to the base MetricsCollector.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

const (
	// OperationsMetric counts ledger operations by operation and status.
	OperationsMetric = "inventory_operations_total"

	// TrackedItemsMetric is the number of items the ledger currently tracks.
	TrackedItemsMetric = "inventory_tracked_items"

	operationTrack   = "track"
	operationReserve = "reserve"
	operationRelease = "release"
	operationRestock = "restock"

	statusSuccess            = "success"
	statusNoCapacity         = "no_capacity"
	statusInvariantViolation = "invariant_violation"
	statusNotTracked         = "not_tracked"
	statusInvalid            = "invalid"

	labelOperation = "operation"
	labelStatus    = "status"

	logMsgOperation          = "inventory operation: "
	logMsgInvariantViolation = "inventory invariant violation"
	logAttrItemID            = "item_id"
	logAttrTotal             = "total_copies"
	logAttrAvailable         = "available_copies"
	logAttrError             = "error"
)
