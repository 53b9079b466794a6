package coordinator

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/lending-circulation-go/inventory"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/command/cancelloan"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/command/issueloan"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/command/renewloan"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/command/returnloan"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

const (
	operationIssue            = "issue"
	operationReturn           = "return"
	operationRenew            = "renew"
	operationCancel           = "cancel"
	operationRestock          = "restock"
	operationSwitchFinePolicy = "switch_fine_policy"
)

// IssueLoan lends one copy of the item to the borrower under the named loan policy.
// An empty policyName selects the standard policy; note is appended to the policy's own note.
//
// Eligibility and reservation are observed under the borrower and item locks, so two concurrent issues
// can never both pass the duplicate check or both take the last copy.
func (c *Coordinator) IssueLoan(
	ctx context.Context,
	borrowerID core.BorrowerIDString,
	itemID core.ItemIDString,
	policyName string,
	note string,
) (loan core.Loan, err error) {
	start := time.Now()
	defer func() {
		c.observe(ctx, operationIssue, start, err,
			shell.LogAttrLoanID, loan.LoanID,
			shell.LogAttrBorrowerID, borrowerID,
			shell.LogAttrItemID, itemID,
		)
	}()

	command := issueloan.BuildCommand(c.newLoanID(), borrowerID, itemID, policyName, note, c.clock())

	release := c.locks.acquire(borrowerKey(borrowerID), itemKey(itemID))
	defer release()

	borrower, err := c.borrowers.GetBorrower(ctx, borrowerID)
	if err != nil {
		return core.Loan{}, notFoundOr(err, core.ReasonBorrowerNotFound, borrowerID)
	}

	item, err := c.trackedItem(ctx, itemID)
	if err != nil {
		return core.Loan{}, err
	}

	borrowerLoans, err := c.loans.ForBorrower(ctx, borrowerID)
	if err != nil {
		return core.Loan{}, err
	}

	facts := issueloan.Facts{
		Borrower:       borrower,
		Item:           item,
		BorrowerLoans:  borrowerLoans,
		MaxActiveLoans: borrower.EffectiveMaxActiveLoans(c.settings.MaxActiveLoans),
		Policies:       c.policies,
	}

	return c.commit(ctx, issueloan.Decide(facts, command))
}

// ReturnLoan closes an open loan, fixes its fine under the active fine policy and puts the copy back.
func (c *Coordinator) ReturnLoan(ctx context.Context, loanID core.LoanIDString) (loan core.Loan, err error) {
	start := time.Now()
	defer func() {
		c.observe(ctx, operationReturn, start, err, shell.LogAttrLoanID, loanID)
	}()

	command := returnloan.BuildCommand(loanID, c.clock())

	current, release, err := c.lockLoan(ctx, loanID)
	if err != nil {
		return core.Loan{}, err
	}
	defer release()

	return c.commit(ctx, returnloan.Decide(current, command, c.fines))
}

// RenewLoan extends the due date of an open, not overdue, never renewed loan by its policy's duration.
func (c *Coordinator) RenewLoan(ctx context.Context, loanID core.LoanIDString) (loan core.Loan, err error) {
	start := time.Now()
	defer func() {
		c.observe(ctx, operationRenew, start, err, shell.LogAttrLoanID, loanID)
	}()

	command := renewloan.BuildCommand(loanID, c.clock())

	current, release, err := c.lockLoan(ctx, loanID)
	if err != nil {
		return core.Loan{}, err
	}
	defer release()

	return c.commit(ctx, renewloan.Decide(current, command, c.renewalsEnabled.Load()))
}

// CancelLoan voids an open loan and puts the copy back.
func (c *Coordinator) CancelLoan(ctx context.Context, loanID core.LoanIDString) (err error) {
	start := time.Now()
	defer func() {
		c.observe(ctx, operationCancel, start, err, shell.LogAttrLoanID, loanID)
	}()

	command := cancelloan.BuildCommand(loanID, c.clock())

	current, release, err := c.lockLoan(ctx, loanID)
	if err != nil {
		return err
	}
	defer release()

	_, err = c.commit(ctx, cancelloan.Decide(current, command))

	return err
}

// Restock adds copies to an item. Total and available copies both grow by additional.
func (c *Coordinator) Restock(ctx context.Context, itemID core.ItemIDString, additional int) (item core.Item, err error) {
	start := time.Now()
	defer func() {
		c.observe(ctx, operationRestock, start, err, shell.LogAttrItemID, itemID)
	}()

	if additional < 1 {
		return core.Item{}, ErrInvalidRestock
	}

	release := c.locks.acquire(itemKey(itemID))
	defer release()

	item, err = c.trackedItem(ctx, itemID)
	if err != nil {
		return core.Item{}, err
	}

	total := item.TotalCopies + additional
	available := item.AvailableCopies + additional

	if err = c.catalog.PersistCopies(ctx, itemID, total, available); err != nil {
		return core.Item{}, err
	}

	snapshot, err := c.ledger.Restock(ctx, itemID, additional)
	if err != nil {
		return core.Item{}, inventoryError(err)
	}

	item.TotalCopies = snapshot.TotalCopies
	item.AvailableCopies = snapshot.AvailableCopies

	return item, nil
}

// lockLoan resolves the loan's borrower and item, takes their locks and re-reads the loan under them.
// A missing loan yields the zero Loan and a no-op release, so Decide reports it as not found.
func (c *Coordinator) lockLoan(ctx context.Context, loanID core.LoanIDString) (core.Loan, func(), error) {
	noop := func() {}

	loan, err := c.loans.Get(ctx, loanID)
	if errors.Is(err, shell.ErrRecordNotFound) {
		return core.Loan{}, noop, nil
	}

	if err != nil {
		return core.Loan{}, noop, err
	}

	release := c.locks.acquire(borrowerKey(loan.BorrowerID), itemKey(loan.ItemID))

	loan, err = c.loans.Get(ctx, loanID)
	if err != nil {
		release()
		return core.Loan{}, noop, err
	}

	return loan, release, nil
}

// trackedItem reads the item from the catalog and makes sure the ledger tracks it.
// The returned copy counts are the ledger's, which is authoritative once an item is tracked.
func (c *Coordinator) trackedItem(ctx context.Context, itemID core.ItemIDString) (core.Item, error) {
	item, err := c.catalog.GetItem(ctx, itemID)
	if err != nil {
		return core.Item{}, notFoundOr(err, core.ReasonItemNotFound, itemID)
	}

	snapshot, err := c.ledger.Track(ctx, itemID, item.TotalCopies, item.AvailableCopies)
	if err != nil {
		return core.Item{}, inventoryError(err)
	}

	item.TotalCopies = snapshot.TotalCopies
	item.AvailableCopies = snapshot.AvailableCopies

	return item, nil
}

// commit applies a successful decision: inventory effect, loan persistence, event hand-off.
// A failure after the inventory effect compensates it, so the unit of work leaves no partial state.
func (c *Coordinator) commit(ctx context.Context, result core.DecisionResult) (core.Loan, error) {
	if err := result.HasError(); err != nil {
		return core.Loan{}, err
	}

	loan := result.Loan

	undo, err := c.applyInventory(ctx, result.Inventory, loan.ItemID)
	if err != nil {
		return core.Loan{}, err
	}

	if err = c.loans.Save(ctx, loan); err != nil {
		c.compensate(ctx, undo, loan.ItemID)
		return core.Loan{}, err
	}

	if result.HasEventToPublish() {
		c.publish(ctx, result.Event)
	}

	return loan, nil
}

type undoFunc func(ctx context.Context) error

func (c *Coordinator) applyInventory(
	ctx context.Context,
	effect core.InventoryEffect,
	itemID core.ItemIDString,
) (undoFunc, error) {
	switch effect {
	case core.InventoryReserve:
		return c.moveCopy(ctx, itemID, c.reserve, c.releaseCopy)

	case core.InventoryRelease:
		if !c.ledger.IsTracked(itemID) {
			if _, err := c.trackedItem(ctx, itemID); err != nil {
				return nil, err
			}
		}

		return c.moveCopy(ctx, itemID, c.releaseCopy, c.reserve)

	default:
		return func(context.Context) error { return nil }, nil
	}
}

type ledgerStep func(ctx context.Context, itemID core.ItemIDString) (inventory.Snapshot, error)

// moveCopy runs one ledger step and persists the resulting availability. If persisting fails,
// the inverse step is applied to the ledger before returning.
func (c *Coordinator) moveCopy(
	ctx context.Context,
	itemID core.ItemIDString,
	step ledgerStep,
	inverse ledgerStep,
) (undoFunc, error) {
	snapshot, err := step(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err = c.catalog.PersistAvailability(ctx, itemID, snapshot.AvailableCopies); err != nil {
		if _, undoErr := inverse(context.WithoutCancel(ctx), itemID); undoErr != nil {
			c.logCompensationFailure(ctx, itemID, undoErr)
		}

		return nil, err
	}

	undo := func(ctx context.Context) error {
		restored, undoErr := inverse(ctx, itemID)
		if undoErr != nil {
			return undoErr
		}

		return c.catalog.PersistAvailability(ctx, itemID, restored.AvailableCopies)
	}

	return undo, nil
}

func (c *Coordinator) reserve(ctx context.Context, itemID core.ItemIDString) (inventory.Snapshot, error) {
	snapshot, err := c.ledger.Reserve(ctx, itemID)
	if errors.Is(err, inventory.ErrNoCapacity) {
		return snapshot, core.Reject(core.ErrNoCapacity, core.ReasonNoAvailableCopies, itemID)
	}

	if err != nil {
		return snapshot, inventoryError(err)
	}

	return snapshot, nil
}

func (c *Coordinator) releaseCopy(ctx context.Context, itemID core.ItemIDString) (inventory.Snapshot, error) {
	snapshot, err := c.ledger.Release(ctx, itemID)
	if err != nil {
		return snapshot, inventoryError(err)
	}

	return snapshot, nil
}

func (c *Coordinator) compensate(ctx context.Context, undo undoFunc, itemID core.ItemIDString) {
	if err := undo(context.WithoutCancel(ctx)); err != nil {
		c.logCompensationFailure(ctx, itemID, err)
	}
}

func (c *Coordinator) publish(ctx context.Context, event core.DomainEvent) {
	if err := c.sink.Publish(ctx, event); err != nil {
		shell.LogWarn(ctx, c.logger, c.contextualLogger, shell.LogMsgPublishFailed,
			shell.LogAttrEventType, event.IsEventType(),
			shell.LogAttrLoanID, event.HasLoanID(),
			shell.LogAttrError, err.Error(),
		)
	}
}

func inventoryError(err error) error {
	if errors.Is(err, inventory.ErrInvariantViolation) ||
		errors.Is(err, inventory.ErrItemNotTracked) ||
		errors.Is(err, inventory.ErrInvalidCopies) {

		return errors.Join(core.ErrInvariantViolation, err)
	}

	return err
}

func notFoundOr(err error, reason core.RejectionReason, id string) error {
	if errors.Is(err, shell.ErrRecordNotFound) {
		return core.Reject(core.ErrNotFound, reason, id)
	}

	return err
}

func (c *Coordinator) logCompensationFailure(ctx context.Context, itemID core.ItemIDString, err error) {
	shell.LogError(ctx, c.logger, c.contextualLogger, shell.LogMsgCompensationFailed,
		shell.LogAttrItemID, itemID,
		shell.LogAttrError, err.Error(),
	)
}
