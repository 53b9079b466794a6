package postgresengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/postgresengine/internal/adapters"
)

// GetBorrower implements shell.BorrowerDirectory.
func (s *Store) GetBorrower(ctx context.Context, borrowerID core.BorrowerIDString) (core.Borrower, error) {
	sqlQuery, err := toSQL(
		s.builder().
			From(s.tables.Borrowers).
			Select(colBorrowerID, colName, colEmail, colActive, colMaxActiveLoans).
			Where(goqu.C(colBorrowerID).Eq(borrowerID)),
	)
	if err != nil {
		return core.Borrower{}, err
	}

	var borrowers []core.Borrower
	err = s.query(ctx, actionGetBorrower, sqlQuery, func(rows adapters.DBRows) error {
		var borrower core.Borrower
		scanErr := rows.Scan(
			&borrower.BorrowerID,
			&borrower.Name,
			&borrower.Email,
			&borrower.Active,
			&borrower.MaxActiveLoans,
		)
		if scanErr != nil {
			return scanErr
		}

		borrowers = append(borrowers, borrower)

		return nil
	})
	if err != nil {
		return core.Borrower{}, err
	}

	if len(borrowers) == 0 {
		return core.Borrower{}, errors.Join(shell.ErrRecordNotFound, fmt.Errorf("borrower %s", borrowerID))
	}

	return borrowers[0], nil
}

// AddBorrower inserts a borrower or replaces the stored profile.
func (s *Store) AddBorrower(ctx context.Context, borrower core.Borrower) error {
	sqlQuery, err := toSQL(
		s.builder().
			Insert(s.tables.Borrowers).
			Rows(goqu.Record{
				colBorrowerID:     borrower.BorrowerID,
				colName:           borrower.Name,
				colEmail:          borrower.Email,
				colActive:         borrower.Active,
				colMaxActiveLoans: borrower.MaxActiveLoans,
			}).
			OnConflict(goqu.DoUpdate(colBorrowerID, excluded(colName, colEmail, colActive, colMaxActiveLoans))),
	)
	if err != nil {
		return err
	}

	_, err = s.exec(ctx, actionUpsertBorrower, sqlQuery)

	return err
}
