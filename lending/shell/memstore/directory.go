package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

// ErrInvalidBorrower is returned for borrowers without id or with a negative loan limit.
var ErrInvalidBorrower = errors.New("invalid borrower")

// Directory is an in-memory shell.BorrowerDirectory.
type Directory struct {
	mu        sync.RWMutex
	borrowers map[core.BorrowerIDString]core.Borrower
}

// NewDirectory creates a Directory seeded with the given borrowers.
func NewDirectory(borrowers ...core.Borrower) (*Directory, error) {
	d := &Directory{borrowers: make(map[core.BorrowerIDString]core.Borrower, len(borrowers))}

	for _, borrower := range borrowers {
		if err := d.AddBorrower(borrower); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// AddBorrower inserts or replaces a borrower.
func (d *Directory) AddBorrower(borrower core.Borrower) error {
	if borrower.BorrowerID == "" || borrower.MaxActiveLoans < 0 {
		return errors.Join(ErrInvalidBorrower, fmt.Errorf("borrower %q", borrower.BorrowerID))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.borrowers[borrower.BorrowerID] = borrower

	return nil
}

// GetBorrower implements shell.BorrowerDirectory.
func (d *Directory) GetBorrower(_ context.Context, borrowerID core.BorrowerIDString) (core.Borrower, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	borrower, ok := d.borrowers[borrowerID]
	if !ok {
		return core.Borrower{}, errors.Join(shell.ErrRecordNotFound, fmt.Errorf("borrower %s", borrowerID))
	}

	return borrower, nil
}
