package loansforborrower

import (
	"slices"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// ProjectBorrowerLoans implements the query logic to list a borrower's loans.
// This is a pure function with no side effects.
func ProjectBorrowerLoans(loans core.Loans, query Query) BorrowerLoans {
	result := BorrowerLoans{
		BorrowerID: query.BorrowerID,
		Loans:      make([]LoanInfo, 0),
	}

	for _, loan := range loans {
		if loan.BorrowerID != query.BorrowerID {
			continue
		}

		if !query.IncludeClosed && !loan.IsOpen() {
			continue
		}

		result.Loans = append(result.Loans, LoanInfo{
			Loan:            loan,
			EffectiveStatus: loan.EffectiveStatus(query.At),
		})
	}

	slices.SortStableFunc(result.Loans, func(a, b LoanInfo) int {
		return b.Loan.StartDate.Compare(a.Loan.StartDate)
	})

	result.Count = len(result.Loans)

	return result
}
