package overdueloans

import (
	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// OverdueLoan is an open loan past its due date.
type OverdueLoan struct {
	Loan     core.Loan
	DaysLate int
}

// OverdueLoans represents all overdue loans, most overdue first.
type OverdueLoans struct {
	Loans []OverdueLoan
	Count int
}
