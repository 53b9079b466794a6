// Package overdueloans implements the Overdue Loans query use case.
//
// It scans open loans and keeps those past their due date as of the query time.
// Nothing is persisted as "overdue", the answer is always computed from the calendar.
package overdueloans
