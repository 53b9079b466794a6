// Package duesoonloans implements the Due Soon Loans query use case, feeding the reminder sweep:
// open loans that are not yet overdue and fall due within a window of days.
package duesoonloans
