package shell

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

const (
	// OperationDurationMetric tracks coordinator operation duration (OpenTelemetry-compatible).
	OperationDurationMetric = "circulation_operation_duration_seconds"

	// OperationsMetric counts coordinator operations by operation and status.
	OperationsMetric = "circulation_operations_total"

	// DeliveriesMetric counts event deliveries by subscriber and status.
	DeliveriesMetric = "notification_deliveries_total"

	// DeliveryRetriesMetric counts retried deliveries.
	//
	// Labels:
	//   - subscriber: name of the subscriber that failed
	//   - attempt_number: which retry attempt (1, 2, 3)
	DeliveryRetriesMetric = "notification_delivery_retries_total"

	// DeliveryRetryDelayMetric tracks the backoff delay before each retried delivery.
	DeliveryRetryDelayMetric = "notification_delivery_retry_delay_seconds"

	// QueueDepthMetric is the number of events waiting in the dispatcher queue.
	QueueDepthMetric = "notification_queue_depth"

	// RemindersMetric counts reminder events emitted by the sweeper, by event type.
	RemindersMetric = "circulation_reminders_total"

	// StatusSuccess indicates a committed operation or delivered event.
	StatusSuccess = "success"

	// StatusRejected indicates an expected business rejection.
	StatusRejected = "rejected"

	// StatusInvariantViolation indicates a programming error detected at runtime.
	StatusInvariantViolation = "invariant_violation"

	// StatusError indicates an infrastructure failure.
	StatusError = "error"

	// StatusCanceled indicates the operation was canceled due to context cancellation.
	StatusCanceled = "canceled"

	// StatusTimeout indicates the operation timed out due to context deadline exceeded.
	StatusTimeout = "timeout"

	// StatusDropped indicates an event delivery was given up after all retries.
	StatusDropped = "dropped"

	// LogMsgOperationCompleted is logged when a lifecycle operation committed.
	LogMsgOperationCompleted = "circulation operation completed"

	// LogMsgOperationRejected is logged when a lifecycle operation was rejected by a business rule.
	LogMsgOperationRejected = "circulation operation rejected"

	// LogMsgOperationFailed is logged when a lifecycle operation failed for infrastructure reasons.
	LogMsgOperationFailed = "circulation operation failed"

	// LogMsgInvariantViolation is logged when the coordinator detects broken bookkeeping.
	LogMsgInvariantViolation = "circulation invariant violation"

	// LogMsgCompensationFailed is logged when rolling back a ledger mutation failed.
	LogMsgCompensationFailed = "circulation compensation failed"

	// LogMsgPublishFailed is logged when handing an event to the sink failed.
	LogMsgPublishFailed = "event hand-off to notification sink failed"

	// LogMsgDeliveryFailed is logged when a subscriber gave up on an event.
	LogMsgDeliveryFailed = "event delivery failed"

	// LogMsgFinePolicySwitched is logged when the active fine policy changed.
	LogMsgFinePolicySwitched = "fine policy switched"

	// LogAttrOperation identifies the lifecycle operation in logs.
	LogAttrOperation = "operation"

	// LogAttrStatus indicates the processing status.
	LogAttrStatus = "status"

	// LogAttrDurationMS indicates the processing duration in milliseconds.
	LogAttrDurationMS = "duration_ms"

	// LogAttrError contains error details.
	LogAttrError = "error"

	// LogAttrReason contains the rejection reason code.
	LogAttrReason = "reason"

	// LogAttrLoanID identifies the loan.
	LogAttrLoanID = "loan_id"

	// LogAttrItemID identifies the item.
	LogAttrItemID = "item_id"

	// LogAttrBorrowerID identifies the borrower.
	LogAttrBorrowerID = "borrower_id"

	// LogAttrEventType identifies the lifecycle event type.
	LogAttrEventType = "event_type"

	// LogAttrSubscriber identifies the event subscriber.
	LogAttrSubscriber = "subscriber"

	// LogAttrAttempts is the number of delivery attempts made.
	LogAttrAttempts = "attempts"

	// LogAttrFinePolicy names a fine policy.
	LogAttrFinePolicy = "fine_policy"

	// LogAttrRequestID correlates log records of one HTTP request.
	LogAttrRequestID = "request_id"
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

// MetricsCollector interface for collecting operation metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

// BuildOperationLabels creates standard metric labels for coordinator operations.
func BuildOperationLabels(operation, status string) map[string]string {
	return map[string]string{
		LogAttrOperation: operation,
		LogAttrStatus:    status,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with precision.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// ClassifyError maps an operation error to a metrics status.
func ClassifyError(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case IsCancellationError(err):
		return StatusCanceled
	case IsTimeoutError(err):
		return StatusTimeout
	case errors.Is(err, core.ErrInvariantViolation):
		return StatusInvariantViolation
	}

	if _, ok := core.AsRejection(err); ok {
		return StatusRejected
	}

	return StatusError
}

// RecordOperationMetrics records duration and count of one coordinator operation.
// It handles both context-aware and basic metrics collectors automatically.
func RecordOperationMetrics(
	ctx context.Context,
	collector MetricsCollector,
	operation string,
	status string,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	labels := BuildOperationLabels(operation, status)

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, OperationDurationMetric, duration, labels)
		contextualCollector.IncrementCounterContext(ctx, OperationsMetric, labels)

		return
	}

	collector.RecordDuration(OperationDurationMetric, duration, labels)
	collector.IncrementCounter(OperationsMetric, labels)
}

// IncrementCounter increments a counter, preferring the context-aware collector method.
func IncrementCounter(ctx context.Context, collector MetricsCollector, metric string, labels map[string]string) {
	if collector == nil {
		return
	}

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

// RecordValue records a gauge-like value, preferring the context-aware collector method.
func RecordValue(ctx context.Context, collector MetricsCollector, metric string, value float64, labels map[string]string) {
	if collector == nil {
		return
	}

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
		return
	}

	collector.RecordValue(metric, value, labels)
}

// LogDebug logs at debug level, preferring the contextual logger.
func LogDebug(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.DebugContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Debug(msg, args...)
	}
}

// LogInfo logs at info level, preferring the contextual logger.
func LogInfo(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Info(msg, args...)
	}
}

// LogWarn logs at warn level, preferring the contextual logger.
func LogWarn(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.WarnContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Warn(msg, args...)
	}
}

// LogError logs at error level, preferring the contextual logger.
func LogError(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Error(msg, args...)
	}
}

// LogOperationOutcome logs the outcome of a lifecycle operation. Commits and rejections go to Info,
// everything else to Error.
func LogOperationOutcome(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	operation string,
	status string,
	duration time.Duration,
	err error,
	args ...any,
) {
	args = append(args,
		LogAttrOperation, operation,
		LogAttrStatus, status,
		LogAttrDurationMS, ToMilliseconds(duration),
	)

	switch status {
	case StatusSuccess:
		LogInfo(ctx, logger, contextualLogger, LogMsgOperationCompleted, args...)

	case StatusRejected:
		args = append(args, LogAttrReason, string(core.ReasonOf(err)))
		LogInfo(ctx, logger, contextualLogger, LogMsgOperationRejected, args...)

	case StatusInvariantViolation:
		args = append(args, LogAttrError, err.Error())
		LogError(ctx, logger, contextualLogger, LogMsgInvariantViolation, args...)

	default:
		if err != nil {
			args = append(args, LogAttrError, err.Error())
		}
		LogError(ctx, logger, contextualLogger, LogMsgOperationFailed, args...)
	}
}

// IsCancellationError checks if an error is due to context cancellation.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError checks if an error is due to context deadline exceeded.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
