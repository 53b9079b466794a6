package loansinrange

import (
	"time"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// LoanInfo is a loan together with its status as of the query time.
type LoanInfo struct {
	Loan            core.Loan
	EffectiveStatus core.LoanStatus
}

// LoansInRange represents the loans started within a range, oldest first.
type LoansInRange struct {
	From  time.Time
	To    time.Time
	Loans []LoanInfo
	Count int
}
