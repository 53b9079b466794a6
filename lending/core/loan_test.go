package core_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

var day0 = time.Date(2025, time.March, 3, 10, 30, 0, 0, time.UTC)

func givenOpenLoan(status core.LoanStatus) core.Loan {
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

func givenReturnedLoan(returnedOnDay int) core.Loan {
	loan := givenOpenLoan(core.LoanStatusActive)
	returnDate := core.AddDays(day0, returnedOnDay)
	loan.ReturnDate = &returnDate
	loan.Status = core.LoanStatusReturned
	loan.FineAmount = decimal.NewNullDecimal(decimal.Zero)

	return loan
}

func Test_ToCalendarDay_StripsTimeOfDayAndNormalizesToUTC(t *testing.T) {
	berlin := time.FixedZone("CET", 60*60)
	lateEvening := time.Date(2025, time.March, 3, 23, 45, 0, 0, time.UTC).In(berlin)

	day := core.ToCalendarDay(lateEvening)

	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), day)
}

func Test_DaysBetween_CountsWholeCalendarDays(t *testing.T) {
	assert.Equal(t, 6, core.DaysBetween(core.AddDays(day0, 14), core.AddDays(day0, 20)))
	assert.Equal(t, 0, core.DaysBetween(day0, day0.Add(5*time.Hour)))
	assert.Equal(t, -2, core.DaysBetween(core.AddDays(day0, 2), day0))
}

func Test_Loan_IsOverdue(t *testing.T) {
	testCases := []struct {
		description string
		loan        core.Loan
		now         time.Time
		expected    bool
	}{
		{"active loan on due date", givenOpenLoan(core.LoanStatusActive), core.AddDays(day0, 14), false},
		{"active loan one day after due date", givenOpenLoan(core.LoanStatusActive), core.AddDays(day0, 15), true},
		{"renewed loan after due date", givenOpenLoan(core.LoanStatusRenewed), core.AddDays(day0, 30), true},
		{"returned late", givenReturnedLoan(20), core.AddDays(day0, 100), true},
		{"returned on time", givenReturnedLoan(10), core.AddDays(day0, 100), false},
		{"cancelled loan is never overdue", givenOpenLoan(core.LoanStatusCancelled), core.AddDays(day0, 100), false},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.loan.IsOverdue(tc.now))
		})
	}
}

func Test_Loan_DaysLate_UsesReturnDateWhenPresent(t *testing.T) {
	returned := givenReturnedLoan(20)

	assert.Equal(t, 6, returned.DaysLate(core.AddDays(day0, 300)))
}

func Test_Loan_DaysLate_IsZeroBeforeDueDate(t *testing.T) {
	loan := givenOpenLoan(core.LoanStatusActive)

	assert.Equal(t, 0, loan.DaysLate(core.AddDays(day0, 3)))
}

func Test_Loan_EffectiveStatus_ReportsOverdueOnlyForOpenLoans(t *testing.T) {
	late := core.AddDays(day0, 40)

	assert.Equal(t, core.LoanStatusOverdue, givenOpenLoan(core.LoanStatusActive).EffectiveStatus(late))
	assert.Equal(t, core.LoanStatusOverdue, givenOpenLoan(core.LoanStatusRenewed).EffectiveStatus(late))
	assert.Equal(t, core.LoanStatusReturned, givenReturnedLoan(20).EffectiveStatus(late))
	assert.Equal(t, core.LoanStatusActive, givenOpenLoan(core.LoanStatusActive).EffectiveStatus(day0))
}

func Test_Loan_StartedWithin_IsInclusive(t *testing.T) {
	loan := givenOpenLoan(core.LoanStatusActive)

	assert.True(t, loan.StartedWithin(day0, day0))
	assert.True(t, loan.StartedWithin(core.AddDays(day0, -1), core.AddDays(day0, 1)))
	assert.False(t, loan.StartedWithin(core.AddDays(day0, 1), core.AddDays(day0, 5)))
}

func Test_LoanPolicies_Lookup(t *testing.T) {
	policies := core.NewLoanPolicies(14, 30)

	standard, ok := policies.Lookup("")
	assert.True(t, ok)
	assert.Equal(t, 14, standard.DurationDays)
	assert.Empty(t, standard.Note)

	extended, ok := policies.Lookup(core.ExtendedLoanPolicy)
	assert.True(t, ok)
	assert.Equal(t, 30, extended.DurationDays)
	assert.Equal(t, "extended loan - 30 days", extended.Note)
	assert.Equal(t, core.AddDays(day0, 30), extended.DueDate(day0))

	_, ok = policies.Lookup("semester")
	assert.False(t, ok)

	assert.Equal(t, []string{"extended", "standard"}, policies.Names())
}

func Test_Borrower_EffectiveMaxActiveLoans_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, 3, core.Borrower{}.EffectiveMaxActiveLoans(3))
	assert.Equal(t, 5, core.Borrower{MaxActiveLoans: 5}.EffectiveMaxActiveLoans(3))
}
