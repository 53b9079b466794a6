// Package reminder emits due-soon and overdue notices for open loans.
// A sweep only publishes events, it never changes a loan.
package reminder

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/duesoonloans"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/overdueloans"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

const (
	defaultWindowDays = 3

	// LogMsgSweepCompleted is logged after every sweep.
	LogMsgSweepCompleted = "reminder sweep completed"

	// LogMsgSweepFailed is logged when a sweep could not read the loans.
	LogMsgSweepFailed = "reminder sweep failed"

	logAttrDueSoon = "due_soon"
	logAttrOverdue = "overdue"
	logAttrFailed  = "failed"
	logAttrSkipped = "skipped"
)

var (
	// ErrInvalidWindow is returned for a negative due-soon window.
	ErrInvalidWindow = errors.New("due-soon window must not be negative")

	// ErrInvalidInterval is returned by Run for a non-positive interval.
	ErrInvalidInterval = errors.New("sweep interval must be positive")
)

// LoanReader is the read access the Sweeper needs.
type LoanReader interface {
	All(ctx context.Context) (core.Loans, error)
}

// SweepResult counts the notices one sweep handed to the sink.
// Skipped counts notices already delivered earlier on the same calendar day.
type SweepResult struct {
	DueSoon int
	Overdue int
	Failed  int
	Skipped int
}

// notice identifies one kind of reminder for one loan.
type notice struct {
	loanID    core.LoanIDString
	eventType core.EventTypeString
}

// Sweeper finds open loans close to or past their due date and publishes a notice for each.
type Sweeper struct {
	loans      LoanReader
	sink       shell.NotificationSink
	windowDays int
	clock      func() time.Time

	mu       sync.Mutex
	notified map[notice]core.CalendarDay

	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metricsCollector shell.MetricsCollector
}

// Option defines a functional option for configuring a Sweeper.
type Option func(*Sweeper) error

// NewSweeper creates a Sweeper.
func NewSweeper(loans LoanReader, sink shell.NotificationSink, options ...Option) (*Sweeper, error) {
	if loans == nil || sink == nil {
		return nil, shell.ErrNilDependency
	}

	s := &Sweeper{
		loans:      loans,
		sink:       sink,
		windowDays: defaultWindowDays,
		clock:      time.Now,
		notified:   make(map[notice]core.CalendarDay),
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// WithWindowDays sets how many days ahead of the due date a loan counts as due soon.
func WithWindowDays(days int) Option {
	return func(s *Sweeper) error {
		if days < 0 {
			return ErrInvalidWindow
		}

		s.windowDays = days

		return nil
	}
}

// WithClock sets the time source used by Run.
func WithClock(clock func() time.Time) Option {
	return func(s *Sweeper) error {
		if clock == nil {
			return shell.ErrNilDependency
		}

		s.clock = clock

		return nil
	}
}

// WithLogger sets the logger for the Sweeper.
func WithLogger(logger shell.Logger) Option {
	return func(s *Sweeper) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Sweeper.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(s *Sweeper) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Sweeper.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(s *Sweeper) error {
		s.metricsCollector = collector
		return nil
	}
}

// Sweep publishes LoanDueSoon for open loans due within the window and LoanOverdue for open loans
// past their due date, both as of now. Each loan gets at most one notice of each kind per calendar day,
// a failed notice is retried by the next sweep. Sink failures are counted and logged, not returned.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	loans, err := s.loans.All(ctx)
	if err != nil {
		shell.LogError(ctx, s.logger, s.contextualLogger, LogMsgSweepFailed, shell.LogAttrError, err.Error())
		return SweepResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	day := core.ToCalendarDay(now)
	pending := make(map[notice]core.CalendarDay, len(s.notified))

	var result SweepResult

	dueSoon := duesoonloans.ProjectDueSoonLoans(loans, duesoonloans.BuildQuery(now, s.windowDays))
	for _, entry := range dueSoon.Loans {
		s.remind(ctx, core.BuildLoanDueSoon(entry.Loan, now), day, pending, &result.DueSoon, &result)
	}

	overdue := overdueloans.ProjectOverdueLoans(loans, overdueloans.BuildQuery(now))
	for _, entry := range overdue.Loans {
		s.remind(ctx, core.BuildLoanOverdue(entry.Loan, now), day, pending, &result.Overdue, &result)
	}

	// loans that no longer qualify drop out
	s.notified = pending

	shell.LogInfo(ctx, s.logger, s.contextualLogger, LogMsgSweepCompleted,
		logAttrDueSoon, result.DueSoon,
		logAttrOverdue, result.Overdue,
		logAttrFailed, result.Failed,
		logAttrSkipped, result.Skipped,
	)

	return result, nil
}

// remind publishes event unless the same notice already went out on day and records it in pending.
func (s *Sweeper) remind(
	ctx context.Context,
	event core.DomainEvent,
	day core.CalendarDay,
	pending map[notice]core.CalendarDay,
	published *int,
	result *SweepResult,
) {
	key := notice{loanID: event.HasLoanID(), eventType: event.IsEventType()}

	if last, ok := s.notified[key]; ok && last.Equal(day) {
		pending[key] = last
		result.Skipped++

		return
	}

	if !s.publish(ctx, event) {
		result.Failed++

		return
	}

	pending[key] = day
	*published++
}

// Run sweeps once immediately and then on every tick of interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		// read errors are logged by Sweep, the next tick tries again
		_, _ = s.Sweep(ctx, s.clock())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) publish(ctx context.Context, event core.DomainEvent) bool {
	status := shell.StatusSuccess

	err := s.sink.Publish(ctx, event)
	if err != nil {
		status = shell.StatusError
		shell.LogWarn(ctx, s.logger, s.contextualLogger, shell.LogMsgPublishFailed,
			shell.LogAttrEventType, event.IsEventType(),
			shell.LogAttrLoanID, event.HasLoanID(),
			shell.LogAttrError, err.Error(),
		)
	}

	shell.IncrementCounter(ctx, s.metricsCollector, shell.RemindersMetric, map[string]string{
		shell.LogAttrEventType: event.IsEventType(),
		shell.LogAttrStatus:    status,
	})

	return err == nil
}
