package issueloan

import (
	"strings"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core/eligibility"
)

// Facts are the snapshots the decision is made on. The shell reads them under the borrower and item locks.
type Facts struct {
	Borrower       core.Borrower
	Item           core.Item
	BorrowerLoans  core.Loans
	MaxActiveLoans int
	Policies       core.LoanPolicies
}

// Decide implements the business logic to issue a loan.
// This is a pure function with no side effects. It resolves the loan policy, checks eligibility and
// builds the new ACTIVE loan whose copy the shell has to reserve.
func Decide(facts Facts, command Command) core.DecisionResult {
	policy, ok := facts.Policies.Lookup(command.PolicyName)
	if !ok {
		return core.ErrorDecision(core.Reject(core.ErrUnknownLoanPolicy, core.ReasonUnknownPolicy, command.PolicyName))
	}

	if err := eligibility.Check(facts.Borrower, facts.Item, facts.BorrowerLoans, facts.MaxActiveLoans); err != nil {
		return core.ErrorDecision(err)
	}

	loan := core.Loan{
		LoanID:       command.LoanID,
		ItemID:       facts.Item.ItemID,
		BorrowerID:   facts.Borrower.BorrowerID,
		PolicyName:   policy.Name,
		DurationDays: policy.DurationDays,
		StartDate:    core.ToCalendarDay(command.At),
		DueDate:      policy.DueDate(command.At),
		Status:       core.LoanStatusActive,
		Notes:        joinNotes(policy.Note, command.Note),
	}

	return core.SuccessDecision(loan, core.InventoryReserve, core.BuildLoanIssued(loan, command.At))
}

func joinNotes(notes ...string) string {
	nonEmpty := make([]string, 0, len(notes))
	for _, note := range notes {
		if trimmed := strings.TrimSpace(note); trimmed != "" {
			nonEmpty = append(nonEmpty, trimmed)
		}
	}

	return strings.Join(nonEmpty, "; ")
}
