// Package loansinrange implements the Loans In Range query use case: every loan, in any state,
// whose start date falls within an inclusive range of calendar days.
package loansinrange
