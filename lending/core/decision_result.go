package core

// InventoryEffect tells the shell what to do with the item's available copies after a decision.
type InventoryEffect string

const (
	// InventoryUnchanged leaves the ledger alone (renew).
	InventoryUnchanged InventoryEffect = "unchanged"

	// InventoryReserve consumes one copy (issue).
	InventoryReserve InventoryEffect = "reserve"

	// InventoryRelease gives one copy back (return, cancel).
	InventoryRelease InventoryEffect = "release"
)

// DecisionResult represents the outcome of a business decision in a Decide function.
//
// IMPORTANT: DecisionResult should only be constructed using the provided factory methods:
// SuccessDecision(loan, effect, event) or ErrorDecision(err).
type DecisionResult struct {
	Outcome   string // "success" or "error"
	Loan      Loan
	Inventory InventoryEffect
	Event     DomainEvent // nil for error decisions
	Err       error
}

const (
	successOutcome = "success"
	errorOutcome   = "error"
)

// SuccessDecision creates a DecisionResult with the new loan snapshot, its inventory effect and the event to publish.
func SuccessDecision(loan Loan, effect InventoryEffect, event DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome:   successOutcome,
		Loan:      loan,
		Inventory: effect,
		Event:     event,
	}
}

// ErrorDecision creates a DecisionResult for a business rule violation. Nothing is to be changed or published.
func ErrorDecision(err error) DecisionResult {
	return DecisionResult{
		Outcome:   errorOutcome,
		Inventory: InventoryUnchanged,
		Err:       err,
	}
}

// HasEventToPublish returns true if the decision produced a lifecycle event.
func (r DecisionResult) HasEventToPublish() bool {
	return r.Outcome == successOutcome && r.Event != nil
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
