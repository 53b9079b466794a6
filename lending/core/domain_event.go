package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent represents a lifecycle notification about a loan.
type DomainEvent interface {
	// IsEventType returns the string identifier for this event type.
	IsEventType() string

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time

	// HasLoanID returns the loan the event is about, used as partition key downstream.
	HasLoanID() LoanIDString

	// HasBorrowerID returns the borrower the event is about, used to address notifications.
	HasBorrowerID() BorrowerIDString
}
