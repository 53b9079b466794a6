package core

import (
	"fmt"
	"sort"
	"time"
)

const (
	// StandardLoanPolicy is the default duration profile.
	StandardLoanPolicy = "standard"

	// ExtendedLoanPolicy is the longer profile, e.g. for staff.
	ExtendedLoanPolicy = "extended"

	extendedLoanNoteFormat = "extended loan - %d days"
)

// LoanPolicy is a named duration profile selected at loan creation.
type LoanPolicy struct {
	Name         string
	DurationDays int
	Note         string
}

// DueDate computes the due date for a loan starting on "start".
func (p LoanPolicy) DueDate(start time.Time) CalendarDay {
	return AddDays(start, p.DurationDays)
}

// LoanPolicies is the lookup table from policy name to duration profile.
type LoanPolicies struct {
	byName map[string]LoanPolicy
}

// NewLoanPolicies builds the table with the "standard" and "extended" profiles.
func NewLoanPolicies(standardDays int, extendedDays int) LoanPolicies {
	return LoanPolicies{
		byName: map[string]LoanPolicy{
			StandardLoanPolicy: {
				Name:         StandardLoanPolicy,
				DurationDays: standardDays,
			},
			ExtendedLoanPolicy: {
				Name:         ExtendedLoanPolicy,
				DurationDays: extendedDays,
				Note:         fmt.Sprintf(extendedLoanNoteFormat, extendedDays),
			},
		},
	}
}

// Lookup finds a policy by name. An empty name selects the standard policy.
func (p LoanPolicies) Lookup(name string) (LoanPolicy, bool) {
	if name == "" {
		name = StandardLoanPolicy
	}

	policy, ok := p.byName[name]

	return policy, ok
}

// Names returns the known policy names in lexical order.
func (p LoanPolicies) Names() []string {
	names := make([]string, 0, len(p.byName))
	for name := range p.byName {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
