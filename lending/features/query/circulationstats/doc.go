// Package circulationstats implements the Circulation Statistics query use case: loan counts per
// effective status as of the query time.
package circulationstats
