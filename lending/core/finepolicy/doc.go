// Package finepolicy computes late fees for loans.
//
// A Policy maps a number of late days to a monetary amount. Policies are pure and deterministic.
// The Calculator holds the active policy and lets it be swapped at runtime by name or by reference.
package finepolicy
