package postgresengine

import "errors"

var (
	// ErrNilDatabaseConnection is returned when a constructor receives a nil connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyTableName is returned when a table name option is empty.
	ErrEmptyTableName = errors.New("table name must not be empty")

	// ErrBuildingQueryFailed is returned when goqu can not render a statement.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrQueryFailed is returned when a select statement fails.
	ErrQueryFailed = errors.New("database query failed")

	// ErrExecFailed is returned when a write statement fails.
	ErrExecFailed = errors.New("database exec failed")

	// ErrScanningRowFailed is returned when a result row can not be scanned.
	ErrScanningRowFailed = errors.New("scanning database row failed")

	// ErrInvalidStoredValue is returned when a stored value can not be mapped back into the domain.
	ErrInvalidStoredValue = errors.New("invalid stored value")
)
