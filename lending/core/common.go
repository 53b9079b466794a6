package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instead of implementing full value objects, I'm using some alias types and helper functions here ...

// LoanIDString represents a loan identifier
type LoanIDString = string

// ItemIDString represents a catalog item identifier
type ItemIDString = string

// BorrowerIDString represents a borrower identifier
type BorrowerIDString = string

// EventTypeString represents the type of domain event
type EventTypeString = string

// OccurredAtTS represents when an event occurred
type OccurredAtTS = time.Time

// CalendarDay is a date normalized to midnight UTC
type CalendarDay = time.Time

// MonetaryAmount represents an amount of money, fines are rounded to cents
type MonetaryAmount = decimal.Decimal

const hoursPerDay = 24

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

// ToCalendarDay strips the time of day and normalizes to UTC.
func ToCalendarDay(t time.Time) CalendarDay {
	u := t.UTC()

	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays moves a calendar day by n days.
func AddDays(day time.Time, n int) CalendarDay {
	return ToCalendarDay(day).AddDate(0, 0, n)
}

// DaysBetween returns the number of whole calendar days from "from" to "to", negative if "to" is earlier.
func DaysBetween(from time.Time, to time.Time) int {
	return int(ToCalendarDay(to).Sub(ToCalendarDay(from)).Hours() / hoursPerDay)
}

// ToMonetaryAmount rounds a decimal to cents.
func ToMonetaryAmount(d decimal.Decimal) MonetaryAmount {
	return d.Round(2)
}

// ZeroAmount is a monetary amount of zero.
func ZeroAmount() MonetaryAmount {
	return decimal.Zero
}
