package renewloan

import (
	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// Decide implements the business logic to renew a loan.
// This is a pure function with no side effects. A zero-value loan means it was not found.
//
// Rejections are checked in this order: not found, returned, cancelled, renewals disabled,
// overdue, already renewed.
func Decide(loan core.Loan, command Command, renewalsEnabled bool) core.DecisionResult {
	switch {
	case loan.LoanID == "":
		return core.ErrorDecision(core.Reject(core.ErrNotFound, core.ReasonLoanNotFound, command.LoanID))

	case loan.Status == core.LoanStatusReturned:
		return core.ErrorDecision(core.Reject(core.ErrAlreadyReturned, core.ReasonAlreadyReturned, loan.LoanID))

	case loan.Status == core.LoanStatusCancelled:
		return core.ErrorDecision(core.Reject(core.ErrAlreadyCancelled, core.ReasonAlreadyCancelled, loan.LoanID))

	case !renewalsEnabled:
		return core.ErrorDecision(core.Reject(core.ErrRenewalNotAllowed, core.ReasonRenewalDisabled, loan.LoanID))

	case loan.IsOverdue(command.At):
		return core.ErrorDecision(core.Reject(core.ErrCurrentlyOverdue, core.ReasonCurrentlyOverdue, loan.LoanID))

	case loan.RenewalCount >= core.MaxRenewals:
		return core.ErrorDecision(core.Reject(core.ErrAlreadyRenewed, core.ReasonAlreadyRenewed, loan.LoanID))
	}

	previousDueDate := loan.DueDate
	loan.DueDate = core.AddDays(loan.DueDate, loan.DurationDays)
	loan.Status = core.LoanStatusRenewed
	loan.RenewalCount++

	return core.SuccessDecision(loan, core.InventoryUnchanged, core.BuildLoanRenewed(loan, previousDueDate, command.At))
}
