package inventory

import (
	"errors"
)

var (
	// ErrNoCapacity is returned by Reserve when no copy is available. Nothing was changed.
	ErrNoCapacity = errors.New("no available copies")

	// ErrInvariantViolation is returned by Release when all copies are already on the shelf.
	ErrInvariantViolation = errors.New("release would exceed total copies")

	// ErrItemNotTracked is returned for items the ledger does not know.
	ErrItemNotTracked = errors.New("item is not tracked by the ledger")

	// ErrEmptyItemID is returned when an empty item id is supplied.
	ErrEmptyItemID = errors.New("empty item id supplied")

	// ErrInvalidCopies is returned when copy counts violate 1 ≤ total and 0 ≤ available ≤ total.
	ErrInvalidCopies = errors.New("invalid copy counts")
)

// ItemIDString identifies a catalog item.
type ItemIDString = string

// Snapshot is the state of one item's counter right after an operation.
type Snapshot struct {
	ItemID          ItemIDString
	TotalCopies     int
	AvailableCopies int
}

// IsAvailable reports whether at least one copy can be reserved.
func (s Snapshot) IsAvailable() bool {
	return s.AvailableCopies > 0
}
