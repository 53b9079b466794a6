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

const (
	actionEnsureSchema     = "ensure_schema"
	actionGetItem          = "get_item"
	actionUpsertItem       = "upsert_item"
	actionPersistAvailable = "persist_availability"
	actionPersistCopies    = "persist_copies"
	actionGetBorrower      = "get_borrower"
	actionUpsertBorrower   = "upsert_borrower"
	actionSaveLoan         = "save_loan"
	actionGetLoan          = "get_loan"
	actionLoansForBorrower = "loans_for_borrower"
	actionAllLoans         = "all_loans"
	actionAppendEvent      = "append_event"
	actionEventsForLoan    = "events_for_loan"
	colItemID              = "item_id"
	colTitle               = "title"
	colTotalCopies         = "total_copies"
	colAvailableCopies     = "available_copies"
	colBorrowerID          = "borrower_id"
	colName                = "name"
	colEmail               = "email"
	colActive              = "active"
	colMaxActiveLoans      = "max_active_loans"
	colLoanID              = "loan_id"
	colPolicyName          = "policy_name"
	colDurationDays        = "duration_days"
	colStartDate           = "start_date"
	colDueDate             = "due_date"
	colReturnDate          = "return_date"
	colStatus              = "status"
	colFineAmount          = "fine_amount"
	colNotes               = "notes"
	colRenewalCount        = "renewal_count"
	colSequenceNumber      = "sequence_number"
	colEventID             = "event_id"
	colEventType           = "event_type"
	colOccurredAt          = "occurred_at"
	colPayload             = "payload"
	colMetadata            = "metadata"
	excludedPrefix         = "EXCLUDED."
	castToText             = "%s::text"
)

// GetItem implements shell.CatalogStore.
func (s *Store) GetItem(ctx context.Context, itemID core.ItemIDString) (core.Item, error) {
	sqlQuery, err := s.buildSelectItemQuery(itemID)
	if err != nil {
		return core.Item{}, err
	}

	var items []core.Item
	err = s.query(ctx, actionGetItem, sqlQuery, func(rows adapters.DBRows) error {
		var item core.Item
		if scanErr := rows.Scan(&item.ItemID, &item.Title, &item.TotalCopies, &item.AvailableCopies); scanErr != nil {
			return scanErr
		}

		items = append(items, item)

		return nil
	})
	if err != nil {
		return core.Item{}, err
	}

	if len(items) == 0 {
		return core.Item{}, errors.Join(shell.ErrRecordNotFound, fmt.Errorf("item %s", itemID))
	}

	return items[0], nil
}

// AddItem inserts an item. For an existing item only the title is replaced, its copy counters
// belong to the coordinator and change through PersistAvailability and PersistCopies.
func (s *Store) AddItem(ctx context.Context, item core.Item) error {
	sqlQuery, err := s.buildUpsertItemQuery(item)
	if err != nil {
		return err
	}

	_, err = s.exec(ctx, actionUpsertItem, sqlQuery)

	return err
}

// PersistAvailability implements shell.CatalogStore.
func (s *Store) PersistAvailability(ctx context.Context, itemID core.ItemIDString, availableCopies int) error {
	sqlQuery, err := toSQL(
		s.builder().
			Update(s.tables.Items).
			Set(goqu.Record{colAvailableCopies: availableCopies}).
			Where(goqu.C(colItemID).Eq(itemID)),
	)
	if err != nil {
		return err
	}

	return s.updateOneItem(ctx, actionPersistAvailable, sqlQuery, itemID)
}

// PersistCopies implements shell.CatalogStore.
func (s *Store) PersistCopies(ctx context.Context, itemID core.ItemIDString, totalCopies int, availableCopies int) error {
	sqlQuery, err := toSQL(
		s.builder().
			Update(s.tables.Items).
			Set(goqu.Record{colTotalCopies: totalCopies, colAvailableCopies: availableCopies}).
			Where(goqu.C(colItemID).Eq(itemID)),
	)
	if err != nil {
		return err
	}

	return s.updateOneItem(ctx, actionPersistCopies, sqlQuery, itemID)
}

func (s *Store) updateOneItem(ctx context.Context, action string, sqlQuery string, itemID core.ItemIDString) error {
	rowsAffected, err := s.exec(ctx, action, sqlQuery)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return errors.Join(shell.ErrRecordNotFound, fmt.Errorf("item %s", itemID))
	}

	return nil
}

func (s *Store) buildSelectItemQuery(itemID core.ItemIDString) (string, error) {
	return toSQL(
		s.builder().
			From(s.tables.Items).
			Select(colItemID, colTitle, colTotalCopies, colAvailableCopies).
			Where(goqu.C(colItemID).Eq(itemID)),
	)
}

func (s *Store) buildUpsertItemQuery(item core.Item) (string, error) {
	return toSQL(
		s.builder().
			Insert(s.tables.Items).
			Rows(goqu.Record{
				colItemID:          item.ItemID,
				colTitle:           item.Title,
				colTotalCopies:     item.TotalCopies,
				colAvailableCopies: item.AvailableCopies,
			}).
			OnConflict(goqu.DoUpdate(colItemID, excluded(colTitle))),
	)
}

// excluded builds the SET clause of an upsert that takes the given columns from the rejected row.
func excluded(columns ...string) goqu.Record {
	record := make(goqu.Record, len(columns))
	for _, column := range columns {
		record[column] = goqu.L(excludedPrefix + column)
	}

	return record
}
