package core

import (
	"time"
)

// LoanOverdueEventType is the event type identifier.
const LoanOverdueEventType = "LoanOverdue"

// LoanOverdue is a notice for an open loan past its due date. It does not change the loan.
type LoanOverdue struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	ItemID     ItemIDString
	BorrowerID BorrowerIDString
	DueDate    CalendarDay
	DaysLate   int
	OccurredAt OccurredAtTS
}

// BuildLoanOverdue creates a new LoanOverdue event.
func BuildLoanOverdue(loan Loan, occurredAt time.Time) LoanOverdue {
	event := LoanOverdue{
		EventType:  LoanOverdueEventType,
		LoanID:     loan.LoanID,
		ItemID:     loan.ItemID,
		BorrowerID: loan.BorrowerID,
		DueDate:    loan.DueDate,
		DaysLate:   loan.DaysLate(occurredAt),
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e LoanOverdue) IsEventType() string {
	return LoanOverdueEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanOverdue) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// HasLoanID returns the loan the event is about.
func (e LoanOverdue) HasLoanID() LoanIDString {
	return e.LoanID
}

// HasBorrowerID returns the borrower the event is about.
func (e LoanOverdue) HasBorrowerID() BorrowerIDString {
	return e.BorrowerID
}
