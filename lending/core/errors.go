package core

import (
	"errors"
	"fmt"
)

// Business rejection kinds. A Rejection always unwraps to exactly one of them.
var (
	ErrNotFound           = errors.New("not found")
	ErrIneligibleBorrower = errors.New("ineligible borrower")
	ErrNoCapacity         = errors.New("no capacity")
	ErrAlreadyReturned    = errors.New("loan already returned")
	ErrAlreadyRenewed     = errors.New("loan already renewed")
	ErrCurrentlyOverdue   = errors.New("loan currently overdue")
	ErrAlreadyCancelled   = errors.New("loan already cancelled")
	ErrRenewalNotAllowed  = errors.New("renewal not allowed")
	ErrUnknownLoanPolicy  = errors.New("unknown loan policy")
)

// ErrInvariantViolation signals a programming error, e.g. releasing more copies than exist.
// It is never wrapped into a Rejection.
var ErrInvariantViolation = errors.New("invariant violation")

// RejectionReason is the machine-readable reason code of a Rejection.
type RejectionReason string

const (
	ReasonInactiveBorrower  RejectionReason = "INACTIVE_BORROWER"
	ReasonNoAvailableCopies RejectionReason = "NO_AVAILABLE_COPIES"
	ReasonDuplicateLoan     RejectionReason = "DUPLICATE_LOAN"
	ReasonLimitExceeded     RejectionReason = "LIMIT_EXCEEDED"
	ReasonLoanNotFound      RejectionReason = "LOAN_NOT_FOUND"
	ReasonItemNotFound      RejectionReason = "ITEM_NOT_FOUND"
	ReasonBorrowerNotFound  RejectionReason = "BORROWER_NOT_FOUND"
	ReasonAlreadyReturned   RejectionReason = "ALREADY_RETURNED"
	ReasonAlreadyRenewed    RejectionReason = "ALREADY_RENEWED"
	ReasonCurrentlyOverdue  RejectionReason = "CURRENTLY_OVERDUE"
	ReasonAlreadyCancelled  RejectionReason = "ALREADY_CANCELLED"
	ReasonRenewalDisabled   RejectionReason = "RENEWAL_DISABLED"
	ReasonUnknownPolicy     RejectionReason = "UNKNOWN_POLICY"
)

// Rejection is an expected business outcome returned instead of a state change.
type Rejection struct {
	Kind   error
	Reason RejectionReason
	Detail string
}

// Reject builds a Rejection.
func Reject(kind error, reason RejectionReason, detail string) *Rejection {
	return &Rejection{
		Kind:   kind,
		Reason: reason,
		Detail: detail,
	}
}

// Error implements the error interface.
func (r *Rejection) Error() string {
	if r.Detail == "" {
		return fmt.Sprintf("%s: %s", r.Kind, r.Reason)
	}

	return fmt.Sprintf("%s: %s (%s)", r.Kind, r.Reason, r.Detail)
}

// Unwrap exposes the rejection kind for errors.Is.
func (r *Rejection) Unwrap() error {
	return r.Kind
}

// AsRejection extracts a Rejection from an error chain.
func AsRejection(err error) (*Rejection, bool) {
	var rejection *Rejection
	if errors.As(err, &rejection) {
		return rejection, true
	}

	return nil, false
}

// ReasonOf returns the reason code of a rejection, or the empty reason for any other error.
func ReasonOf(err error) RejectionReason {
	if rejection, ok := AsRejection(err); ok {
		return rejection.Reason
	}

	return ""
}
