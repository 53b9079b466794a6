// Package issueloan implements the Issue Loan command use case.
//
// The decision resolves the named loan policy, runs the eligibility rules against the borrower's
// current loans and the item's availability, and produces a new ACTIVE loan with its due date.
// The shell reserves one copy in the inventory ledger for every successful decision and
// publishes the LoanIssued event once loan and inventory are both committed.
package issueloan
