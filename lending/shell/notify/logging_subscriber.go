package notify

import (
	"context"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

const (
	// LoggingSubscriberName is the name of the LoggingSubscriber.
	LoggingSubscriberName = "logging"

	// LogMsgLifecycleEvent is logged for every event the LoggingSubscriber receives.
	LogMsgLifecycleEvent = "loan lifecycle event"

	logAttrOccurredAt = "occurred_at"
)

// LoggingSubscriber writes every lifecycle event to the log at Info level.
type LoggingSubscriber struct {
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
}

// NewLoggingSubscriber creates a LoggingSubscriber. A logger that also implements
// shell.ContextualLogger is used with context.
func NewLoggingSubscriber(logger shell.Logger) (*LoggingSubscriber, error) {
	if logger == nil {
		return nil, shell.ErrNilDependency
	}

	s := &LoggingSubscriber{logger: logger}
	if contextualLogger, ok := logger.(shell.ContextualLogger); ok {
		s.contextualLogger = contextualLogger
	}

	return s, nil
}

// Name implements shell.Subscriber.
func (s *LoggingSubscriber) Name() string {
	return LoggingSubscriberName
}

// Handle implements shell.Subscriber.
func (s *LoggingSubscriber) Handle(ctx context.Context, event core.DomainEvent) error {
	shell.LogInfo(ctx, s.logger, s.contextualLogger, LogMsgLifecycleEvent,
		shell.LogAttrEventType, event.IsEventType(),
		shell.LogAttrLoanID, event.HasLoanID(),
		shell.LogAttrBorrowerID, event.HasBorrowerID(),
		logAttrOccurredAt, event.HasOccurredAt(),
	)

	return nil
}
