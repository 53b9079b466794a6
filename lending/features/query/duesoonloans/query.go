package duesoonloans

import (
	"time"
)

const (
	queryType = "DueSoonLoans"
)

// Query represents the intent to list open loans due within WindowDays of At.
type Query struct {
	At         time.Time
	WindowDays int
}

// BuildQuery creates a new Query.
func BuildQuery(at time.Time, windowDays int) Query {
	return Query{
		At:         at,
		WindowDays: windowDays,
	}
}

// QueryType returns the query type identifier.
func (q Query) QueryType() string {
	return queryType
}
