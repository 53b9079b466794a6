package loansinrange

import (
	"errors"
	"time"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

const (
	queryType = "LoansInRange"
)

// ErrInvalidRange is returned when the range ends before it starts.
var ErrInvalidRange = errors.New("range end is before range start")

// Query represents the intent to list loans started within [From, To].
type Query struct {
	From time.Time
	To   time.Time
	At   time.Time
}

// BuildQuery creates a new Query. Both ends are normalized to calendar days.
func BuildQuery(from time.Time, to time.Time, at time.Time) (Query, error) {
	query := Query{
		From: core.ToCalendarDay(from),
		To:   core.ToCalendarDay(to),
		At:   at,
	}

	if query.To.Before(query.From) {
		return Query{}, ErrInvalidRange
	}

	return query, nil
}

// QueryType returns the query type identifier.
func (q Query) QueryType() string {
	return queryType
}
