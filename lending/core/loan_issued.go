package core

import (
	"time"
)

// LoanIssuedEventType is the event type identifier.
const LoanIssuedEventType = "LoanIssued"

// LoanIssued represents when a copy of an item was lent to a borrower.
type LoanIssued struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	ItemID     ItemIDString
	BorrowerID BorrowerIDString
	PolicyName string
	StartDate  CalendarDay
	DueDate    CalendarDay
	OccurredAt OccurredAtTS
}

// BuildLoanIssued creates a new LoanIssued event.
func BuildLoanIssued(loan Loan, occurredAt time.Time) LoanIssued {
	event := LoanIssued{
		EventType:  LoanIssuedEventType,
		LoanID:     loan.LoanID,
		ItemID:     loan.ItemID,
		BorrowerID: loan.BorrowerID,
		PolicyName: loan.PolicyName,
		StartDate:  loan.StartDate,
		DueDate:    loan.DueDate,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e LoanIssued) IsEventType() string {
	return LoanIssuedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanIssued) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// HasLoanID returns the loan the event is about.
func (e LoanIssued) HasLoanID() LoanIDString {
	return e.LoanID
}

// HasBorrowerID returns the borrower the event is about.
func (e LoanIssued) HasBorrowerID() BorrowerIDString {
	return e.BorrowerID
}
