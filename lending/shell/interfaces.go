package shell

import (
	"context"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// CatalogStore is the persistent home of items and their copy counts.
// GetItem returns ErrRecordNotFound for unknown items.
type CatalogStore interface {
	GetItem(ctx context.Context, itemID core.ItemIDString) (core.Item, error)
	PersistAvailability(ctx context.Context, itemID core.ItemIDString, availableCopies int) error
	PersistCopies(ctx context.Context, itemID core.ItemIDString, totalCopies int, availableCopies int) error
}

// BorrowerDirectory resolves borrowers. GetBorrower returns ErrRecordNotFound for unknown borrowers.
type BorrowerDirectory interface {
	GetBorrower(ctx context.Context, borrowerID core.BorrowerIDString) (core.Borrower, error)
}

// LoanRepository stores loan snapshots. Save inserts or replaces by loan id.
// Get returns ErrRecordNotFound for unknown loans.
type LoanRepository interface {
	Save(ctx context.Context, loan core.Loan) error
	Get(ctx context.Context, loanID core.LoanIDString) (core.Loan, error)
	ForBorrower(ctx context.Context, borrowerID core.BorrowerIDString) (core.Loans, error)
	All(ctx context.Context) (core.Loans, error)
}

// NotificationSink accepts lifecycle events after a state change was committed.
// Implementations must not block on subscriber I/O.
type NotificationSink interface {
	Publish(ctx context.Context, event core.DomainEvent) error
}

// Subscriber receives lifecycle events from the dispatcher, one at a time.
type Subscriber interface {
	Name() string
	Handle(ctx context.Context, event core.DomainEvent) error
}

// Command represents the contract for all command types.
type Command interface {
	CommandType() string
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}
