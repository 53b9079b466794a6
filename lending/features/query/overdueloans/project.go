package overdueloans

import (
	"slices"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// ProjectOverdueLoans implements the query logic to find overdue loans.
// This is a pure function with no side effects.
func ProjectOverdueLoans(loans core.Loans, query Query) OverdueLoans {
	result := OverdueLoans{
		Loans: make([]OverdueLoan, 0),
	}

	for _, loan := range loans {
		if !loan.IsOpen() || !loan.IsOverdue(query.At) {
			continue
		}

		result.Loans = append(result.Loans, OverdueLoan{
			Loan:     loan,
			DaysLate: loan.DaysLate(query.At),
		})
	}

	slices.SortStableFunc(result.Loans, func(a, b OverdueLoan) int {
		return a.Loan.DueDate.Compare(b.Loan.DueDate)
	})

	result.Count = len(result.Loans)

	return result
}
