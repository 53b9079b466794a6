package memstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

// ErrInvalidItem is returned when an item's copy counts violate 1 ≤ total and 0 ≤ available ≤ total.
var ErrInvalidItem = errors.New("invalid item")

// Catalog is an in-memory shell.CatalogStore.
type Catalog struct {
	mu    sync.RWMutex
	items map[core.ItemIDString]core.Item
}

// NewCatalog creates a Catalog seeded with the given items.
func NewCatalog(items ...core.Item) (*Catalog, error) {
	c := &Catalog{items: make(map[core.ItemIDString]core.Item, len(items))}

	for _, item := range items {
		if err := c.AddItem(item); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// AddItem inserts an item. For an existing item only the title is replaced and the copy counters are kept.
func (c *Catalog) AddItem(item core.Item) error {
	if err := validateCopies(item.ItemID, item.TotalCopies, item.AvailableCopies); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.items[item.ItemID]; ok {
		existing.Title = item.Title
		c.items[item.ItemID] = existing

		return nil
	}

	c.items[item.ItemID] = item

	return nil
}

// GetItem implements shell.CatalogStore.
func (c *Catalog) GetItem(_ context.Context, itemID core.ItemIDString) (core.Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[itemID]
	if !ok {
		return core.Item{}, errors.Join(shell.ErrRecordNotFound, fmt.Errorf("item %s", itemID))
	}

	return item, nil
}

// PersistAvailability implements shell.CatalogStore.
func (c *Catalog) PersistAvailability(_ context.Context, itemID core.ItemIDString, availableCopies int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[itemID]
	if !ok {
		return errors.Join(shell.ErrRecordNotFound, fmt.Errorf("item %s", itemID))
	}

	if err := validateCopies(itemID, item.TotalCopies, availableCopies); err != nil {
		return err
	}

	item.AvailableCopies = availableCopies
	c.items[itemID] = item

	return nil
}

// PersistCopies implements shell.CatalogStore.
func (c *Catalog) PersistCopies(_ context.Context, itemID core.ItemIDString, totalCopies int, availableCopies int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[itemID]
	if !ok {
		return errors.Join(shell.ErrRecordNotFound, fmt.Errorf("item %s", itemID))
	}

	if err := validateCopies(itemID, totalCopies, availableCopies); err != nil {
		return err
	}

	item.TotalCopies = totalCopies
	item.AvailableCopies = availableCopies
	c.items[itemID] = item

	return nil
}

// Items returns all items ordered by id.
func (c *Catalog) Items() []core.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]core.Item, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, item)
	}

	slices.SortFunc(items, func(a, b core.Item) int {
		return strings.Compare(a.ItemID, b.ItemID)
	})

	return items
}

func validateCopies(itemID core.ItemIDString, total int, available int) error {
	if itemID == "" || total < 1 || available < 0 || available > total {
		return errors.Join(
			ErrInvalidItem,
			fmt.Errorf("item %q: total %d, available %d", itemID, total, available),
		)
	}

	return nil
}
