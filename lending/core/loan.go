package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the persisted lifecycle state of a loan.
type LoanStatus string

const (
	// LoanStatusActive is the initial state of every loan.
	LoanStatusActive LoanStatus = "ACTIVE"

	// LoanStatusRenewed means the due date was extended once.
	LoanStatusRenewed LoanStatus = "RENEWED"

	// LoanStatusReturned is terminal, the copy went back to the shelf.
	LoanStatusReturned LoanStatus = "RETURNED"

	// LoanStatusCancelled is terminal, the loan was voided and the copy released.
	LoanStatusCancelled LoanStatus = "CANCELLED"

	// LoanStatusOverdue is never persisted. It is only reported by Loan.EffectiveStatus.
	LoanStatusOverdue LoanStatus = "OVERDUE"
)

// MaxRenewals is the number of times a single loan may be renewed.
const MaxRenewals = 1

// IsOpen reports whether the status is non-terminal.
func (s LoanStatus) IsOpen() bool {
	return s == LoanStatusActive || s == LoanStatusRenewed
}

// IsTerminal reports whether no further transition is possible.
func (s LoanStatus) IsTerminal() bool {
	return s == LoanStatusReturned || s == LoanStatusCancelled
}

// Loan is a record of one borrower holding one copy of one item for a bounded period.
//
// Invariants maintained by the lifecycle decisions:
//   - DueDate is after StartDate
//   - FineAmount is valid if and only if Status is RETURNED
//   - RenewalCount never exceeds MaxRenewals
type Loan struct {
	LoanID       LoanIDString
	ItemID       ItemIDString
	BorrowerID   BorrowerIDString
	PolicyName   string
	DurationDays int
	StartDate    CalendarDay
	DueDate      CalendarDay
	ReturnDate   *CalendarDay
	Status       LoanStatus
	FineAmount   decimal.NullDecimal
	Notes        string
	RenewalCount int
}

// Loans is a slice of Loan snapshots.
type Loans = []Loan

// IsOpen reports whether the loan still holds a copy.
func (l Loan) IsOpen() bool {
	return l.Status.IsOpen()
}

// IsHeldBy reports whether this loan binds the given borrower to the given item.
func (l Loan) IsHeldBy(borrowerID BorrowerIDString, itemID ItemIDString) bool {
	return l.BorrowerID == borrowerID && l.ItemID == itemID
}

// IsOverdue is true for an open loan when "now" is past the due date,
// or for a returned loan that came back after its due date.
func (l Loan) IsOverdue(now time.Time) bool {
	switch {
	case l.Status.IsOpen():
		return ToCalendarDay(now).After(l.DueDate)

	case l.Status == LoanStatusReturned && l.ReturnDate != nil:
		return l.ReturnDate.After(l.DueDate)

	default:
		return false
	}
}

// DaysLate counts whole days past the due date, measured to the return date if there is one, else to "now".
func (l Loan) DaysLate(now time.Time) int {
	reference := now
	if l.ReturnDate != nil {
		reference = *l.ReturnDate
	}

	days := DaysBetween(l.DueDate, reference)
	if days < 0 {
		return 0
	}

	return days
}

// DaysUntilDue is negative once the loan is overdue.
func (l Loan) DaysUntilDue(now time.Time) int {
	return DaysBetween(now, l.DueDate)
}

// EffectiveStatus reports OVERDUE for open loans past their due date, else the persisted status.
func (l Loan) EffectiveStatus(now time.Time) LoanStatus {
	if l.Status.IsOpen() && l.IsOverdue(now) {
		return LoanStatusOverdue
	}

	return l.Status
}

// StartedWithin reports whether the loan started in the closed range [from, to] of calendar days.
func (l Loan) StartedWithin(from time.Time, to time.Time) bool {
	start := l.StartDate

	return !start.Before(ToCalendarDay(from)) && !start.After(ToCalendarDay(to))
}
