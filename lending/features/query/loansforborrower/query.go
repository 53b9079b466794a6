package loansforborrower

import (
	"time"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

const (
	queryType = "LoansForBorrower"
)

// Query represents the intent to list a borrower's loans.
type Query struct {
	BorrowerID    core.BorrowerIDString
	IncludeClosed bool
	At            time.Time
}

// BuildQuery creates a new Query for the borrower's open loans.
func BuildQuery(borrowerID core.BorrowerIDString, at time.Time) Query {
	return Query{
		BorrowerID: borrowerID,
		At:         at,
	}
}

// BuildHistoryQuery creates a new Query for all of the borrower's loans.
func BuildHistoryQuery(borrowerID core.BorrowerIDString, at time.Time) Query {
	return Query{
		BorrowerID:    borrowerID,
		IncludeClosed: true,
		At:            at,
	}
}

// QueryType returns the query type identifier.
func (q Query) QueryType() string {
	return queryType
}
