package core

// Borrower is an identity entitled to hold a bounded number of concurrent loans.
// MaxActiveLoans of zero means "use the configured default".
type Borrower struct {
	BorrowerID     BorrowerIDString
	Name           string
	Email          string
	Active         bool
	MaxActiveLoans int
}

// EffectiveMaxActiveLoans resolves the borrower's own limit against the configured default.
func (b Borrower) EffectiveMaxActiveLoans(defaultMax int) int {
	if b.MaxActiveLoans > 0 {
		return b.MaxActiveLoans
	}

	return defaultMax
}
