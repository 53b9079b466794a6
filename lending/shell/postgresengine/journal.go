package postgresengine

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/postgresengine/internal/adapters"
)

// Append implements notify.Journal. Appending an event id twice keeps the first row.
func (s *Store) Append(ctx context.Context, event shell.StorableEvent) error {
	sqlQuery, err := s.buildInsertEventQuery(event)
	if err != nil {
		return err
	}

	_, err = s.exec(ctx, actionAppendEvent, sqlQuery)

	return err
}

// EventsForLoan returns the journal entries of one loan in append order.
func (s *Store) EventsForLoan(ctx context.Context, loanID core.LoanIDString) (shell.StorableEvents, error) {
	sqlQuery, err := toSQL(
		s.builder().
			From(s.tables.Events).
			Select(
				goqu.L(fmt.Sprintf(castToText, colEventID)).As(colEventID),
				colEventType,
				colLoanID,
				colOccurredAt,
				goqu.L(fmt.Sprintf(castToText, colPayload)).As(colPayload),
				goqu.L(fmt.Sprintf(castToText, colMetadata)).As(colMetadata),
			).
			Where(goqu.C(colLoanID).Eq(loanID)).
			Order(goqu.I(colSequenceNumber).Asc()),
	)
	if err != nil {
		return nil, err
	}

	events := make(shell.StorableEvents, 0)
	err = s.query(ctx, actionEventsForLoan, sqlQuery, func(rows adapters.DBRows) error {
		var event shell.StorableEvent
		var payload, metadata string

		if scanErr := rows.Scan(
			&event.EventID,
			&event.EventType,
			&event.LoanID,
			&event.OccurredAt,
			&payload,
			&metadata,
		); scanErr != nil {
			return scanErr
		}

		event.OccurredAt = core.ToOccurredAt(event.OccurredAt)
		event.PayloadJSON = []byte(payload)
		event.MetadataJSON = []byte(metadata)
		events = append(events, event)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (s *Store) buildInsertEventQuery(event shell.StorableEvent) (string, error) {
	return toSQL(
		s.builder().
			Insert(s.tables.Events).
			Rows(goqu.Record{
				colEventID:    event.EventID,
				colEventType:  event.EventType,
				colLoanID:     event.LoanID,
				colOccurredAt: event.OccurredAt,
				colPayload:    string(event.PayloadJSON),
				colMetadata:   string(event.MetadataJSON),
			}).
			OnConflict(goqu.DoNothing()),
	)
}
