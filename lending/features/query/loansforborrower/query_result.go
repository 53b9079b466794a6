package loansforborrower

import (
	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// LoanInfo is a loan together with its status as of the query time.
type LoanInfo struct {
	Loan            core.Loan
	EffectiveStatus core.LoanStatus
}

// BorrowerLoans represents the loans of one borrower.
type BorrowerLoans struct {
	BorrowerID core.BorrowerIDString
	Loans      []LoanInfo
	Count      int
}
