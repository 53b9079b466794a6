package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/postgresengine/internal/adapters"
)

const dialectPostgres = "postgres"

// TableNames configures the tables the Store works on.
type TableNames struct {
	Items     string
	Borrowers string
	Loans     string
	Events    string
}

// DefaultTableNames returns the table names used when no option overrides them.
func DefaultTableNames() TableNames {
	return TableNames{
		Items:     "items",
		Borrowers: "borrowers",
		Loans:     "loans",
		Events:    "loan_events",
	}
}

// Store is the PostgreSQL home of items, borrowers, loan snapshots and the loan event journal.
// It implements shell.CatalogStore, shell.BorrowerDirectory, shell.LoanRepository and notify.Journal.
type Store struct {
	db               adapters.DBAdapter
	tables           TableNames
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metricsCollector shell.MetricsCollector
}

// NewStoreFromPGXPool creates a Store using a pgx pool.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options...)
}

// NewStoreFromPGXPoolAndReplica creates a Store that reads from the replica pool and writes to the primary.
// Reads directly after writes may be stale on the replica, so the coordinator should only use it
// for the read side.
func NewStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*Store, error) {
	if db == nil || replica == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewStoreFromSQLDB creates a Store using a database/sql handle.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a Store using a sqlx handle.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(db adapters.DBAdapter, options ...Option) (*Store, error) {
	s := &Store{
		db:     db,
		tables: DefaultTableNames(),
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Tables returns the configured table names.
func (s *Store) Tables() TableNames {
	return s.tables
}

func (s *Store) builder() goqu.DialectWrapper {
	return goqu.Dialect(dialectPostgres)
}

// query runs a select statement and calls scan once per row.
func (s *Store) query(
	ctx context.Context,
	action string,
	sqlQuery string,
	scan func(rows adapters.DBRows) error,
) error {
	start := time.Now()
	rows, err := s.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	s.logSQL(ctx, action, sqlQuery, duration)

	if err != nil {
		s.observeFailure(ctx, action, logMsgDBQueryFailed, err, sqlQuery)
		return errors.Join(ErrQueryFailed, err)
	}
	defer s.closeRows(ctx, rows)

	for rows.Next() {
		if scanErr := scan(rows); scanErr != nil {
			s.observeFailure(ctx, action, logMsgScanRowFailed, scanErr, sqlQuery)
			return errors.Join(ErrScanningRowFailed, scanErr)
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		s.observeFailure(ctx, action, logMsgDBQueryFailed, rowsErr, sqlQuery)
		return errors.Join(ErrQueryFailed, rowsErr)
	}

	s.recordDuration(ctx, action, duration)

	return nil
}

// exec runs a write statement and returns the number of affected rows.
func (s *Store) exec(ctx context.Context, action string, sqlQuery string) (int64, error) {
	start := time.Now()
	result, err := s.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	s.logSQL(ctx, action, sqlQuery, duration)

	if err != nil {
		s.observeFailure(ctx, action, logMsgDBExecFailed, err, sqlQuery)
		return 0, errors.Join(ErrExecFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.observeFailure(ctx, action, logMsgRowsAffectedFailed, err, sqlQuery)
		return 0, errors.Join(ErrExecFailed, err)
	}

	s.recordDuration(ctx, action, duration)

	return rowsAffected, nil
}

func (s *Store) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		shell.LogWarn(ctx, s.logger, s.contextualLogger, logMsgCloseRowsFailed, shell.LogAttrError, closeErr.Error())
	}
}

func toSQL(dataset interface {
	ToSQL() (string, []any, error)
}) (string, error) {
	sqlQuery, _, err := dataset.ToSQL()
	if err != nil {
		return "", errors.Join(ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}
