package notify_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/notify"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// subscriberStub records handled events and fails the first failures calls.
type subscriberStub struct {
	name string

	mu       sync.Mutex
	failures int
	failWith error
	calls    int
	events   []core.DomainEvent
}

func newSubscriberStub(name string) *subscriberStub {
	return &subscriberStub{name: name}
}

func (s *subscriberStub) failing(times int, err error) *subscriberStub {
	s.failures = times
	s.failWith = err

	return s
}

func (s *subscriberStub) Name() string {
	return s.name
}

func (s *subscriberStub) Handle(_ context.Context, event core.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.calls <= s.failures {
		return s.failWith
	}

	s.events = append(s.events, event)

	return nil
}

func (s *subscriberStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

func (s *subscriberStub) LoanIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.events))
	for _, event := range s.events {
		ids = append(ids, event.HasLoanID())
	}

	return ids
}

// journalStub is an in-memory notify.Journal.
type journalStub struct {
	mu     sync.Mutex
	events []shell.StorableEvent
}

func (j *journalStub) Append(_ context.Context, event shell.StorableEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.events = append(j.events, event)

	return nil
}

// mailerSpy captures sent e-mails.
type mailerSpy struct {
	mu     sync.Mutex
	emails []notify.Email
}

func (m *mailerSpy) Send(_ context.Context, email notify.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.emails = append(m.emails, email)

	return nil
}

func (m *mailerSpy) Emails() []notify.Email {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]notify.Email(nil), m.emails...)
}

func givenLoan(loanID string) core.Loan {
	start := core.ToCalendarDay(now)

	return core.Loan{
		LoanID:       loanID,
		ItemID:       "item-1",
		BorrowerID:   "borrower-1",
		PolicyName:   core.StandardLoanPolicy,
		DurationDays: 14,
		StartDate:    start,
		DueDate:      core.AddDays(start, 14),
		Status:       core.LoanStatusActive,
	}
}

func givenIssuedEvent(loanID string) core.LoanIssued {
	return core.BuildLoanIssued(givenLoan(loanID), now)
}

func givenLateReturnEvent(loanID string, daysLate int, fine string) core.LoanReturned {
	loan := givenLoan(loanID)
	returnDate := core.AddDays(loan.DueDate, daysLate)
	loan.ReturnDate = &returnDate
	loan.Status = core.LoanStatusReturned
	loan.FineAmount = decimal.NewNullDecimal(decimal.RequireFromString(fine))

	return core.BuildLoanReturned(loan, returnDate)
}

func givenFastRetries() notify.Option {
	return notify.WithRetryOptions(
		shell.WithMaxAttempts(3),
		shell.WithBaseDelay(time.Millisecond),
		shell.WithJitterFactor(0),
	)
}

// runDispatcher starts Run and returns a function that closes the dispatcher and waits for Run.
func runDispatcher(t *testing.T, dispatcher *notify.Dispatcher) func() {
	t.Helper()

	done := make(chan error, 1)
	go func() {
		done <- dispatcher.Run(context.Background())
	}()

	return func() {
		dispatcher.Close()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("dispatcher did not drain in time")
		}
	}
}
