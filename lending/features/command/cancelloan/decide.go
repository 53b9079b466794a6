package cancelloan

import (
	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// Decide implements the business logic to cancel a loan.
// This is a pure function with no side effects. A zero-value loan means it was not found.
func Decide(loan core.Loan, command Command) core.DecisionResult {
	switch {
	case loan.LoanID == "":
		return core.ErrorDecision(core.Reject(core.ErrNotFound, core.ReasonLoanNotFound, command.LoanID))

	case loan.Status == core.LoanStatusReturned:
		return core.ErrorDecision(core.Reject(core.ErrAlreadyReturned, core.ReasonAlreadyReturned, loan.LoanID))

	case loan.Status == core.LoanStatusCancelled:
		return core.ErrorDecision(core.Reject(core.ErrAlreadyCancelled, core.ReasonAlreadyCancelled, loan.LoanID))
	}

	loan.Status = core.LoanStatusCancelled

	return core.SuccessDecision(loan, core.InventoryRelease, core.BuildLoanCancelled(loan, command.At))
}
