package core

import (
	"time"
)

// LoanDueSoonEventType is the event type identifier.
const LoanDueSoonEventType = "LoanDueSoon"

// LoanDueSoon is a reminder for an open loan whose due date is near. It does not change the loan.
type LoanDueSoon struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	ItemID     ItemIDString
	BorrowerID BorrowerIDString
	DueDate    CalendarDay
	DaysLeft   int
	OccurredAt OccurredAtTS
}

// BuildLoanDueSoon creates a new LoanDueSoon event.
func BuildLoanDueSoon(loan Loan, occurredAt time.Time) LoanDueSoon {
	event := LoanDueSoon{
		EventType:  LoanDueSoonEventType,
		LoanID:     loan.LoanID,
		ItemID:     loan.ItemID,
		BorrowerID: loan.BorrowerID,
		DueDate:    loan.DueDate,
		DaysLeft:   loan.DaysUntilDue(occurredAt),
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e LoanDueSoon) IsEventType() string {
	return LoanDueSoonEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanDueSoon) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// HasLoanID returns the loan the event is about.
func (e LoanDueSoon) HasLoanID() LoanIDString {
	return e.LoanID
}

// HasBorrowerID returns the borrower the event is about.
func (e LoanDueSoon) HasBorrowerID() BorrowerIDString {
	return e.BorrowerID
}
