// Package inventory provides the ledger of available copies per catalog item.
//
// The Ledger is the single point of truth for scarce-resource bookkeeping: every path that grants or
// reclaims a copy goes through Reserve or Release. Each item's counter is guarded by its own mutex,
// so two concurrent reservations of the last copy yield exactly one success and one ErrNoCapacity.
//
// Invariant: for every tracked item, 0 ≤ available ≤ total, at all times.
// A Release that would break the upper bound is reported as ErrInvariantViolation, never clamped.
//
// Common usage pattern:
//
//	ledger, err := inventory.NewLedger(inventory.WithLogger(logger))
//	if err != nil {
//		// handle error
//	}
//
//	_, _ = ledger.Track(ctx, "item-1", 3, 3)
//
//	snapshot, err := ledger.Reserve(ctx, "item-1")
//	if errors.Is(err, inventory.ErrNoCapacity) {
//		// sold out, the caller decides what to do
//	}
//
//	snapshot, err = ledger.Release(ctx, "item-1")
package inventory
