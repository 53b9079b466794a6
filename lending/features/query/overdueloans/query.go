package overdueloans

import (
	"time"
)

const (
	queryType = "OverdueLoans"
)

// Query represents the intent to list all currently overdue loans.
type Query struct {
	At time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(at time.Time) Query {
	return Query{At: at}
}

// QueryType returns the query type identifier.
func (q Query) QueryType() string {
	return queryType
}
