package finepolicy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// Fixed charges the same rate for every late day.
type Fixed struct {
	ratePerDay decimal.Decimal
}

// NewFixed creates a Fixed policy.
func NewFixed(ratePerDay decimal.Decimal) (Fixed, error) {
	if ratePerDay.IsNegative() {
		return Fixed{}, ErrNegativeFineSetting
	}

	return Fixed{ratePerDay: ratePerDay}, nil
}

// Name implements Policy.
func (p Fixed) Name() string {
	return FixedPolicyName
}

// Describe implements Policy.
func (p Fixed) Describe() string {
	return fmt.Sprintf("fixed fine of %s per day late", p.ratePerDay.StringFixed(2))
}

// FineForDaysLate returns ratePerDay × daysLate, zero for daysLate ≤ 0.
func (p Fixed) FineForDaysLate(daysLate int) core.MonetaryAmount {
	if daysLate <= 0 {
		return core.ZeroAmount()
	}

	return core.ToMonetaryAmount(p.ratePerDay.Mul(decimal.NewFromInt(int64(daysLate))))
}
