package duesoonloans

import (
	"slices"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// ProjectDueSoonLoans implements the query logic to find loans falling due within the window.
// This is a pure function with no side effects.
func ProjectDueSoonLoans(loans core.Loans, query Query) DueSoonLoans {
	result := DueSoonLoans{
		Loans: make([]DueSoonLoan, 0),
	}

	for _, loan := range loans {
		if !loan.IsOpen() {
			continue
		}

		daysLeft := loan.DaysUntilDue(query.At)
		if daysLeft < 0 || daysLeft > query.WindowDays {
			continue
		}

		result.Loans = append(result.Loans, DueSoonLoan{
			Loan:     loan,
			DaysLeft: daysLeft,
		})
	}

	slices.SortStableFunc(result.Loans, func(a, b DueSoonLoan) int {
		return a.DaysLeft - b.DaysLeft
	})

	result.Count = len(result.Loans)

	return result
}
