// Package eligibility decides whether a borrower may take a given item right now.
package eligibility

import (
	"fmt"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// Check evaluates the rules in order and reports the first failure as a *core.Rejection:
//
//  1. the borrower is active
//  2. the item has an available copy
//  3. the borrower holds no open loan on this item
//  4. the borrower's open loans are below maxActiveLoans
//
// borrowerLoans may contain terminal loans, only open ones are counted.
func Check(borrower core.Borrower, item core.Item, borrowerLoans core.Loans, maxActiveLoans int) error {
	if !borrower.Active {
		return core.Reject(core.ErrIneligibleBorrower, core.ReasonInactiveBorrower, borrower.BorrowerID)
	}

	if !item.IsAvailable() {
		return core.Reject(core.ErrNoCapacity, core.ReasonNoAvailableCopies, item.ItemID)
	}

	openLoans := 0

	for _, loan := range borrowerLoans {
		if !loan.IsOpen() || loan.BorrowerID != borrower.BorrowerID {
			continue
		}

		if loan.ItemID == item.ItemID {
			return core.Reject(core.ErrIneligibleBorrower, core.ReasonDuplicateLoan, loan.LoanID)
		}

		openLoans++
	}

	if openLoans >= maxActiveLoans {
		return core.Reject(
			core.ErrIneligibleBorrower,
			core.ReasonLimitExceeded,
			fmt.Sprintf("%d of %d loans in use", openLoans, maxActiveLoans),
		)
	}

	return nil
}
