// Package returnloan implements the Return Loan command use case: close the loan, fix its fine
// under the active fine policy and release the copy.
package returnloan
