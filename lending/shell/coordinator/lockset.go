package coordinator

import (
	"slices"
	"sync"
)

const (
	itemLockPrefix     = "item:"
	borrowerLockPrefix = "borrower:"
)

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// lockSet hands out mutexes per resource key. Entries are reference counted and dropped when unused.
type lockSet struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

func newLockSet() *lockSet {
	return &lockSet{entries: make(map[string]*lockEntry)}
}

// acquire locks all keys in sorted order and returns the function that releases them.
func (s *lockSet) acquire(keys ...string) (release func()) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	held := make([]*lockEntry, 0, len(sorted))

	for _, key := range sorted {
		s.mu.Lock()
		entry, ok := s.entries[key]
		if !ok {
			entry = &lockEntry{}
			s.entries[key] = entry
		}
		entry.refs++
		s.mu.Unlock()

		entry.mu.Lock()
		held = append(held, entry)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()

			s.mu.Lock()
			held[i].refs--
			if held[i].refs == 0 {
				delete(s.entries, sorted[i])
			}
			s.mu.Unlock()
		}
	}
}

// size is the number of keys currently held or waited for.
func (s *lockSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

func itemKey(itemID string) string {
	return itemLockPrefix + itemID
}

func borrowerKey(borrowerID string) string {
	return borrowerLockPrefix + borrowerID
}
