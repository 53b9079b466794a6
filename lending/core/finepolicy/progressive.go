package finepolicy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

// Progressive charges base on the first late day, then step more for each further day, never more than maxPerDay per day.
type Progressive struct {
	base      decimal.Decimal
	step      decimal.Decimal
	maxPerDay decimal.Decimal
}

// NewProgressive creates a Progressive policy.
func NewProgressive(base decimal.Decimal, step decimal.Decimal, maxPerDay decimal.Decimal) (Progressive, error) {
	if base.IsNegative() || step.IsNegative() || maxPerDay.IsNegative() {
		return Progressive{}, ErrNegativeFineSetting
	}

	return Progressive{base: base, step: step, maxPerDay: maxPerDay}, nil
}

// Name implements Policy.
func (p Progressive) Name() string {
	return ProgressivePolicyName
}

// Describe implements Policy.
func (p Progressive) Describe() string {
	return fmt.Sprintf(
		"progressive fine starting at %s per day, rising by %s per day, capped at %s per day",
		p.base.StringFixed(2),
		p.step.StringFixed(2),
		p.maxPerDay.StringFixed(2),
	)
}

// FineForDaysLate sums min(base + step×(d−1), maxPerDay) for d in [1, daysLate].
func (p Progressive) FineForDaysLate(daysLate int) core.MonetaryAmount {
	total := decimal.Zero
	charge := p.base

	for day := 1; day <= daysLate; day++ {
		if charge.GreaterThanOrEqual(p.maxPerDay) {
			// every remaining day is charged at the cap
			remaining := decimal.NewFromInt(int64(daysLate - day + 1))
			total = total.Add(p.maxPerDay.Mul(remaining))

			break
		}

		total = total.Add(charge)
		charge = charge.Add(p.step)
	}

	return core.ToMonetaryAmount(total)
}

// ChargeForDay returns what the d-th late day costs on its own.
func (p Progressive) ChargeForDay(day int) decimal.Decimal {
	if day < 1 {
		return decimal.Zero
	}

	return decimal.Min(p.base.Add(p.step.Mul(decimal.NewFromInt(int64(day-1)))), p.maxPerDay)
}
