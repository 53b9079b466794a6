package postgresengine

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
    item_id          TEXT PRIMARY KEY,
    title            TEXT NOT NULL DEFAULT '',
    total_copies     INTEGER NOT NULL CHECK (total_copies >= 1),
    available_copies INTEGER NOT NULL CHECK (available_copies >= 0 AND available_copies <= total_copies)
);

CREATE TABLE IF NOT EXISTS %[2]s (
    borrower_id      TEXT PRIMARY KEY,
    name             TEXT NOT NULL DEFAULT '',
    email            TEXT NOT NULL DEFAULT '',
    active           BOOLEAN NOT NULL DEFAULT TRUE,
    max_active_loans INTEGER NOT NULL DEFAULT 0 CHECK (max_active_loans >= 0)
);

CREATE TABLE IF NOT EXISTS %[3]s (
    loan_id       TEXT PRIMARY KEY,
    item_id       TEXT NOT NULL,
    borrower_id   TEXT NOT NULL,
    policy_name   TEXT NOT NULL,
    duration_days INTEGER NOT NULL,
    start_date    DATE NOT NULL,
    due_date      DATE NOT NULL CHECK (due_date > start_date),
    return_date   DATE,
    status        TEXT NOT NULL,
    fine_amount   NUMERIC(12, 2),
    notes         TEXT NOT NULL DEFAULT '',
    renewal_count INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS %[3]s_borrower_id_idx ON %[3]s (borrower_id);

CREATE TABLE IF NOT EXISTS %[4]s (
    sequence_number BIGSERIAL PRIMARY KEY,
    event_id        UUID NOT NULL UNIQUE,
    event_type      TEXT NOT NULL,
    loan_id         TEXT NOT NULL,
    occurred_at     TIMESTAMPTZ NOT NULL,
    payload         JSONB NOT NULL,
    metadata        JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS %[4]s_loan_id_idx ON %[4]s (loan_id);
`

// Schema renders the DDL for the configured tables.
func (s *Store) Schema() string {
	return fmt.Sprintf(schemaTemplate, s.tables.Items, s.tables.Borrowers, s.tables.Loans, s.tables.Events)
}

// EnsureSchema creates all tables and indexes that do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.exec(ctx, actionEnsureSchema, s.Schema()); err != nil {
		return err
	}

	shell.LogInfo(ctx, s.logger, s.contextualLogger, logMsgSchemaEnsured)

	return nil
}
