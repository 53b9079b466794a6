package returnloan_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/core/finepolicy"
	"github.com/AntonStoeckl/lending-circulation-go/lending/features/command/returnloan"
)

var day0 = time.Date(2025, time.May, 5, 8, 0, 0, 0, time.UTC)

func givenLoan(status core.LoanStatus) core.Loan {
	return core.Loan{
		LoanID:       "loan-1",
		ItemID:       "item-1",
		BorrowerID:   "borrower-1",
		PolicyName:   core.StandardLoanPolicy,
		DurationDays: 14,
		StartDate:    core.ToCalendarDay(day0),
		DueDate:      core.AddDays(day0, 14),
		Status:       status,
	}
}

func givenCalculator(t *testing.T, policyName string) *finepolicy.Calculator {
	t.Helper()

	calculator, err := finepolicy.NewCalculatorFromName(policyName, finepolicy.DefaultSettings())
	require.NoError(t, err)

	return calculator
}

func Test_Decide_Success_WithFixedFine_WhenReturnedOnDay20(t *testing.T) {
	// arrange
	command := returnloan.BuildCommand("loan-1", core.AddDays(day0, 20).Add(13*time.Hour))

	// act
	result := returnloan.Decide(givenLoan(core.LoanStatusActive), command, givenCalculator(t, finepolicy.FixedPolicyName))

	// assert
	require.NoError(t, result.HasError())
	assert.Equal(t, core.InventoryRelease, result.Inventory)
	assert.Equal(t, core.LoanStatusReturned, result.Loan.Status)
	require.NotNil(t, result.Loan.ReturnDate)
	assert.Equal(t, core.AddDays(day0, 20), *result.Loan.ReturnDate)
	assert.True(t, result.Loan.FineAmount.Valid)
	assert.True(t, result.Loan.FineAmount.Decimal.Equal(decimal.RequireFromString("12.00")))

	event, ok := result.Event.(core.LoanReturned)
	require.True(t, ok, "expected a LoanReturned event")
	assert.Equal(t, 6, event.DaysLate)
	assert.True(t, event.HasFine())
}

func Test_Decide_Success_WithProgressiveFine_WhenRenewedLoanReturnedOnDay20(t *testing.T) {
	command := returnloan.BuildCommand("loan-1", core.AddDays(day0, 20))

	result := returnloan.Decide(givenLoan(core.LoanStatusRenewed), command, givenCalculator(t, finepolicy.ProgressivePolicyName))

	require.NoError(t, result.HasError())
	assert.True(t, result.Loan.FineAmount.Decimal.Equal(decimal.RequireFromString("13.50")))
}

func Test_Decide_Success_WithZeroFine_WhenReturnedOnTime(t *testing.T) {
	command := returnloan.BuildCommand("loan-1", core.AddDays(day0, 14))

	result := returnloan.Decide(givenLoan(core.LoanStatusActive), command, givenCalculator(t, finepolicy.FixedPolicyName))

	require.NoError(t, result.HasError())
	assert.True(t, result.Loan.FineAmount.Valid, "fine is set on every return")
	assert.True(t, result.Loan.FineAmount.Decimal.IsZero())
	assert.False(t, result.Event.(core.LoanReturned).HasFine())
}

func Test_Decide_Error_WhenAlreadyReturned(t *testing.T) {
	command := returnloan.BuildCommand("loan-1", day0)

	result := returnloan.Decide(givenLoan(core.LoanStatusReturned), command, givenCalculator(t, finepolicy.FixedPolicyName))

	assert.ErrorIs(t, result.HasError(), core.ErrAlreadyReturned)
	assert.False(t, result.HasEventToPublish())
}

func Test_Decide_Error_WhenCancelled(t *testing.T) {
	command := returnloan.BuildCommand("loan-1", day0)

	result := returnloan.Decide(givenLoan(core.LoanStatusCancelled), command, givenCalculator(t, finepolicy.FixedPolicyName))

	assert.ErrorIs(t, result.HasError(), core.ErrAlreadyCancelled)
}

func Test_Decide_Error_WhenLoanNotFound(t *testing.T) {
	command := returnloan.BuildCommand("missing", day0)

	result := returnloan.Decide(core.Loan{}, command, givenCalculator(t, finepolicy.FixedPolicyName))

	assert.ErrorIs(t, result.HasError(), core.ErrNotFound)
	assert.Equal(t, core.ReasonLoanNotFound, core.ReasonOf(result.HasError()))
}
