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

// LoanStore is an in-memory shell.LoanRepository.
type LoanStore struct {
	mu         sync.RWMutex
	loans      map[core.LoanIDString]core.Loan
	byBorrower map[core.BorrowerIDString][]core.LoanIDString
}

// NewLoanStore creates an empty LoanStore.
func NewLoanStore() *LoanStore {
	return &LoanStore{
		loans:      make(map[core.LoanIDString]core.Loan),
		byBorrower: make(map[core.BorrowerIDString][]core.LoanIDString),
	}
}

// Save implements shell.LoanRepository.
func (s *LoanStore) Save(_ context.Context, loan core.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.loans[loan.LoanID]; !exists {
		s.byBorrower[loan.BorrowerID] = append(s.byBorrower[loan.BorrowerID], loan.LoanID)
	}

	s.loans[loan.LoanID] = copyLoan(loan)

	return nil
}

// Get implements shell.LoanRepository.
func (s *LoanStore) Get(_ context.Context, loanID core.LoanIDString) (core.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loan, ok := s.loans[loanID]
	if !ok {
		return core.Loan{}, errors.Join(shell.ErrRecordNotFound, fmt.Errorf("loan %s", loanID))
	}

	return copyLoan(loan), nil
}

// ForBorrower implements shell.LoanRepository.
func (s *LoanStore) ForBorrower(_ context.Context, borrowerID core.BorrowerIDString) (core.Loans, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byBorrower[borrowerID]
	loans := make(core.Loans, 0, len(ids))

	for _, id := range ids {
		loans = append(loans, copyLoan(s.loans[id]))
	}

	return loans, nil
}

// All implements shell.LoanRepository. Loans are ordered by start date, then id.
func (s *LoanStore) All(_ context.Context) (core.Loans, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loans := make(core.Loans, 0, len(s.loans))
	for _, loan := range s.loans {
		loans = append(loans, copyLoan(loan))
	}

	slices.SortFunc(loans, func(a, b core.Loan) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}

		return strings.Compare(a.LoanID, b.LoanID)
	})

	return loans, nil
}

// copyLoan detaches the ReturnDate pointer so callers never share state with the store.
func copyLoan(loan core.Loan) core.Loan {
	if loan.ReturnDate != nil {
		returnDate := *loan.ReturnDate
		loan.ReturnDate = &returnDate
	}

	return loan
}
