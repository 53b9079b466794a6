package finepolicy

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

const (
	// FixedPolicyName selects the Fixed policy.
	FixedPolicyName = "fixed"

	// ProgressivePolicyName selects the Progressive policy.
	ProgressivePolicyName = "progressive"
)

var (
	// ErrUnknownFinePolicy is returned when a policy name is not recognized.
	ErrUnknownFinePolicy = errors.New("unknown fine policy")

	// ErrNegativeFineSetting is returned when a rate, base, step or cap is negative.
	ErrNegativeFineSetting = errors.New("fine settings must not be negative")
)

// Policy maps late days to a fine.
type Policy interface {
	Name() string
	Describe() string
	FineForDaysLate(daysLate int) core.MonetaryAmount
}

// ComputeFine applies a policy to a loan. The reference date is the loan's return date if set, else "now".
func ComputeFine(policy Policy, loan core.Loan, now time.Time) core.MonetaryAmount {
	return policy.FineForDaysLate(loan.DaysLate(now))
}

// Settings carries the configurable amounts of all known policies.
type Settings struct {
	FixedRatePerDay      decimal.Decimal
	ProgressiveBase      decimal.Decimal
	ProgressiveStep      decimal.Decimal
	ProgressiveMaxPerDay decimal.Decimal
}

// DefaultSettings returns 2.00 per day fixed and 1.00 + 0.50 per day capped at 10.00 progressive.
func DefaultSettings() Settings {
	return Settings{
		FixedRatePerDay:      decimal.RequireFromString("2.00"),
		ProgressiveBase:      decimal.RequireFromString("1.00"),
		ProgressiveStep:      decimal.RequireFromString("0.50"),
		ProgressiveMaxPerDay: decimal.RequireFromString("10.00"),
	}
}

// New selects a policy by name.
func New(name string, settings Settings) (Policy, error) {
	switch name {
	case FixedPolicyName:
		return NewFixed(settings.FixedRatePerDay)

	case ProgressivePolicyName:
		return NewProgressive(settings.ProgressiveBase, settings.ProgressiveStep, settings.ProgressiveMaxPerDay)

	default:
		return nil, errors.Join(ErrUnknownFinePolicy, fmt.Errorf("policy name %q", name))
	}
}

// Names lists the policy names New understands.
func Names() []string {
	return []string{FixedPolicyName, ProgressivePolicyName}
}
