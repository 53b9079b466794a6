// Package coordinator implements the lifecycle coordinator of the circulation service.
//
// Each lifecycle operation runs as one unit of work: it takes the per-resource locks of the affected
// borrower and item (in a fixed order, so concurrent operations never deadlock), reads the current
// snapshots, lets the pure Decide function of the feature slice produce the new loan state, then applies
// the inventory effect through the ledger, persists availability and the loan, and hands the resulting
// lifecycle event to the notification sink before releasing the locks.
//
// If any step after the ledger mutation fails, the mutation is compensated and no event is published.
// Sink failures never roll back a committed change; they are logged and swallowed.
//
// Read paths scan loan snapshots and delegate to the pure projections of the query feature slices.
package coordinator
