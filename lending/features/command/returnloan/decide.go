package returnloan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// FineComputer computes the fine for a loan, e.g. the fine policy calculator.
type FineComputer interface {
	ComputeFine(loan core.Loan, now time.Time) core.MonetaryAmount
}

// Decide implements the business logic to return a loan.
// This is a pure function with no side effects. A zero-value loan means it was not found.
func Decide(loan core.Loan, command Command, fines FineComputer) core.DecisionResult {
	switch {
	case loan.LoanID == "":
		return core.ErrorDecision(core.Reject(core.ErrNotFound, core.ReasonLoanNotFound, command.LoanID))

	case loan.Status == core.LoanStatusReturned:
		return core.ErrorDecision(core.Reject(core.ErrAlreadyReturned, core.ReasonAlreadyReturned, loan.LoanID))

	case loan.Status == core.LoanStatusCancelled:
		return core.ErrorDecision(core.Reject(core.ErrAlreadyCancelled, core.ReasonAlreadyCancelled, loan.LoanID))
	}

	returnDate := core.ToCalendarDay(command.At)
	loan.ReturnDate = &returnDate
	loan.FineAmount = decimal.NewNullDecimal(fines.ComputeFine(loan, command.At))
	loan.Status = core.LoanStatusReturned

	return core.SuccessDecision(loan, core.InventoryRelease, core.BuildLoanReturned(loan, command.At))
}
