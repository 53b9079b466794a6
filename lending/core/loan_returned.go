package core

import (
	"time"
)

// LoanReturnedEventType is the event type identifier.
const LoanReturnedEventType = "LoanReturned"

// LoanReturned represents when a borrower brought a copy back. FineAmount is zero for on-time returns.
type LoanReturned struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	ItemID     ItemIDString
	BorrowerID BorrowerIDString
	ReturnDate CalendarDay
	DaysLate   int
	FineAmount MonetaryAmount
	OccurredAt OccurredAtTS
}

// BuildLoanReturned creates a new LoanReturned event from the already returned loan.
func BuildLoanReturned(loan Loan, occurredAt time.Time) LoanReturned {
	event := LoanReturned{
		EventType:  LoanReturnedEventType,
		LoanID:     loan.LoanID,
		ItemID:     loan.ItemID,
		BorrowerID: loan.BorrowerID,
		DaysLate:   loan.DaysLate(occurredAt),
		FineAmount: loan.FineAmount.Decimal,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	if loan.ReturnDate != nil {
		event.ReturnDate = *loan.ReturnDate
	}

	return event
}

// IsEventType returns the event type identifier.
func (e LoanReturned) IsEventType() string {
	return LoanReturnedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// HasLoanID returns the loan the event is about.
func (e LoanReturned) HasLoanID() LoanIDString {
	return e.LoanID
}

// HasFine reports whether the return was charged.
func (e LoanReturned) HasFine() bool {
	return e.FineAmount.IsPositive()
}

// HasBorrowerID returns the borrower the event is about.
func (e LoanReturned) HasBorrowerID() BorrowerIDString {
	return e.BorrowerID
}
