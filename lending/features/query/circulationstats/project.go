package circulationstats

import (
	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// ProjectStatistics implements the query logic to count loans by status and sum the fines charged.
// This is a pure function with no side effects.
func ProjectStatistics(loans core.Loans, query Query) Statistics {
	stats := Statistics{
		FinesTotal: core.ZeroAmount(),
	}

	for _, loan := range loans {
		stats.Total++

		switch loan.Status {
		case core.LoanStatusActive, core.LoanStatusRenewed:
			stats.Open++

			if loan.Status == core.LoanStatusRenewed {
				stats.Renewed++
			}

			if loan.IsOverdue(query.At) {
				stats.Overdue++
			}

		case core.LoanStatusReturned:
			stats.Returned++

			if loan.FineAmount.Valid {
				stats.FinesTotal = stats.FinesTotal.Add(loan.FineAmount.Decimal)
			}

		case core.LoanStatusCancelled:
			stats.Cancelled++
		}
	}

	return stats
}
