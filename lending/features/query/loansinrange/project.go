package loansinrange

import (
	"slices"
	"strings"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// ProjectLoansInRange implements the query logic to list loans by start date.
// This is a pure function with no side effects.
func ProjectLoansInRange(loans core.Loans, query Query) LoansInRange {
	result := LoansInRange{
		From:  query.From,
		To:    query.To,
		Loans: make([]LoanInfo, 0),
	}

	for _, loan := range loans {
		if !loan.StartedWithin(query.From, query.To) {
			continue
		}

		result.Loans = append(result.Loans, LoanInfo{
			Loan:            loan,
			EffectiveStatus: loan.EffectiveStatus(query.At),
		})
	}

	slices.SortStableFunc(result.Loans, func(a, b LoanInfo) int {
		if c := a.Loan.StartDate.Compare(b.Loan.StartDate); c != 0 {
			return c
		}

		return strings.Compare(a.Loan.LoanID, b.Loan.LoanID)
	})

	result.Count = len(result.Loans)

	return result
}
