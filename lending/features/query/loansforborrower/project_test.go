package loansforborrower_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/query/loansforborrower"
)

var day0 = time.Date(2025, time.February, 10, 10, 0, 0, 0, time.UTC)

func givenLoan(id string, borrowerID string, startDay int, status core.LoanStatus) core.Loan {
	return core.Loan{
		LoanID:     id,
		ItemID:     "item-" + id,
		BorrowerID: borrowerID,
		StartDate:  core.AddDays(day0, startDay),
		DueDate:    core.AddDays(day0, startDay+14),
		Status:     status,
	}
}

func givenLoans() core.Loans {
	return core.Loans{
		givenLoan("a", "borrower-1", 0, core.LoanStatusActive),
		givenLoan("b", "borrower-1", 5, core.LoanStatusReturned),
		givenLoan("c", "borrower-1", 10, core.LoanStatusRenewed),
		givenLoan("d", "borrower-2", 1, core.LoanStatusActive),
	}
}

func Test_ProjectBorrowerLoans_ReturnsOpenLoansNewestFirst(t *testing.T) {
	query := loansforborrower.BuildQuery("borrower-1", core.AddDays(day0, 16))

	result := loansforborrower.ProjectBorrowerLoans(givenLoans(), query)

	require.Equal(t, 2, result.Count)
	assert.Equal(t, "c", result.Loans[0].Loan.LoanID)
	assert.Equal(t, core.LoanStatusRenewed, result.Loans[0].EffectiveStatus)
	assert.Equal(t, "a", result.Loans[1].Loan.LoanID)
	assert.Equal(t, core.LoanStatusOverdue, result.Loans[1].EffectiveStatus)
}

func Test_ProjectBorrowerLoans_IncludesClosedLoans_ForHistoryQuery(t *testing.T) {
	query := loansforborrower.BuildHistoryQuery("borrower-1", day0)

	result := loansforborrower.ProjectBorrowerLoans(givenLoans(), query)

	assert.Equal(t, 3, result.Count)
}

func Test_ProjectBorrowerLoans_ReturnsEmptyList_WhenBorrowerHasNoLoans(t *testing.T) {
	result := loansforborrower.ProjectBorrowerLoans(givenLoans(), loansforborrower.BuildQuery("nobody", day0))

	assert.Zero(t, result.Count)
	assert.NotNil(t, result.Loans)
}
