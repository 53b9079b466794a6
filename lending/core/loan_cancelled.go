package core

import (
	"time"
)

// LoanCancelledEventType is the event type identifier.
const LoanCancelledEventType = "LoanCancelled"

// LoanCancelled represents when a loan was voided and its copy released.
type LoanCancelled struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	ItemID     ItemIDString
	BorrowerID BorrowerIDString
	OccurredAt OccurredAtTS
}

// BuildLoanCancelled creates a new LoanCancelled event.
func BuildLoanCancelled(loan Loan, occurredAt time.Time) LoanCancelled {
	event := LoanCancelled{
		EventType:  LoanCancelledEventType,
		LoanID:     loan.LoanID,
		ItemID:     loan.ItemID,
		BorrowerID: loan.BorrowerID,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e LoanCancelled) IsEventType() string {
	return LoanCancelledEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanCancelled) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// HasLoanID returns the loan the event is about.
func (e LoanCancelled) HasLoanID() LoanIDString {
	return e.LoanID
}

// HasBorrowerID returns the borrower the event is about.
func (e LoanCancelled) HasBorrowerID() BorrowerIDString {
	return e.BorrowerID
}
