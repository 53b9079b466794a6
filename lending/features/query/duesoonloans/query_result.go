package duesoonloans

import (
	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// DueSoonLoan is an open loan close to its due date.
type DueSoonLoan struct {
	Loan     core.Loan
	DaysLeft int
}

// DueSoonLoans represents all loans due within the window, soonest first.
type DueSoonLoans struct {
	Loans []DueSoonLoan
	Count int
}
