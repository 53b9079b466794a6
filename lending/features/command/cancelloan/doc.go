// Package cancelloan implements the Cancel Loan command use case.
package cancelloan
