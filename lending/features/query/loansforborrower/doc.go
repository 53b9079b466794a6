// Package loansforborrower implements the Loans For Borrower query use case.
//
// By default only open (ACTIVE or RENEWED) loans are returned, each with its effective status,
// so a loan past its due date shows up as OVERDUE. With IncludeClosed the borrower's full history
// is returned, newest first.
package loansforborrower
