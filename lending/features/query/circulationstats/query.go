package circulationstats

import (
	"time"
)

const (
	queryType = "CirculationStatistics"
)

// Query represents the intent to count loans by status.
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
