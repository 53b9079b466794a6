package core

// Item is a catalog entry with a fixed number of copies of which some are currently available.
// Only the inventory ledger changes AvailableCopies.
type Item struct {
	ItemID          ItemIDString
	Title           string
	TotalCopies     int
	AvailableCopies int
}

// IsAvailable reports whether at least one copy can be lent out.
func (i Item) IsAvailable() bool {
	return i.AvailableCopies > 0
}
