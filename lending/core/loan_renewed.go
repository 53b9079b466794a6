package core

import (
	"time"
)

// LoanRenewedEventType is the event type identifier.
const LoanRenewedEventType = "LoanRenewed"

// LoanRenewed represents when the due date of a loan was extended.
type LoanRenewed struct {
	EventType       EventTypeString
	LoanID          LoanIDString
	ItemID          ItemIDString
	BorrowerID      BorrowerIDString
	PreviousDueDate CalendarDay
	NewDueDate      CalendarDay
	OccurredAt      OccurredAtTS
}

// BuildLoanRenewed creates a new LoanRenewed event.
func BuildLoanRenewed(loan Loan, previousDueDate time.Time, occurredAt time.Time) LoanRenewed {
	event := LoanRenewed{
		EventType:       LoanRenewedEventType,
		LoanID:          loan.LoanID,
		ItemID:          loan.ItemID,
		BorrowerID:      loan.BorrowerID,
		PreviousDueDate: ToCalendarDay(previousDueDate),
		NewDueDate:      loan.DueDate,
		OccurredAt:      ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e LoanRenewed) IsEventType() string {
	return LoanRenewedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanRenewed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// HasLoanID returns the loan the event is about.
func (e LoanRenewed) HasLoanID() LoanIDString {
	return e.LoanID
}

// HasBorrowerID returns the borrower the event is about.
func (e LoanRenewed) HasBorrowerID() BorrowerIDString {
	return e.BorrowerID
}
