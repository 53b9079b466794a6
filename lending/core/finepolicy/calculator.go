package finepolicy

import (
	"sync/atomic"
	"time"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
)

type activePolicy struct {
	policy Policy
}

// Calculator holds the active fine policy. It is safe for concurrent use; Use swaps the policy atomically.
type Calculator struct {
	active   atomic.Pointer[activePolicy]
	settings Settings
}

// NewCalculator creates a Calculator starting with the given policy.
// The settings are used by UseNamed to build other policies.
func NewCalculator(initial Policy, settings Settings) *Calculator {
	c := &Calculator{settings: settings}
	c.Use(initial)

	return c
}

// NewCalculatorFromName creates a Calculator whose initial policy is selected by name.
func NewCalculatorFromName(name string, settings Settings) (*Calculator, error) {
	policy, err := New(name, settings)
	if err != nil {
		return nil, err
	}

	return NewCalculator(policy, settings), nil
}

// Use makes the given policy active for all subsequent computations.
func (c *Calculator) Use(policy Policy) {
	c.active.Store(&activePolicy{policy: policy})
}

// UseNamed switches the active policy by name.
func (c *Calculator) UseNamed(name string) error {
	policy, err := New(name, c.settings)
	if err != nil {
		return err
	}

	c.Use(policy)

	return nil
}

// Active returns the currently active policy.
func (c *Calculator) Active() Policy {
	return c.active.Load().policy
}

// Describe returns the human-readable description of the active policy.
func (c *Calculator) Describe() string {
	return c.Active().Describe()
}

// ComputeFine computes the fine of a loan under the active policy.
func (c *Calculator) ComputeFine(loan core.Loan, now time.Time) core.MonetaryAmount {
	return ComputeFine(c.Active(), loan, now)
}
