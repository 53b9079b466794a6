package pgtest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/config"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/postgresengine"
)

const (
	// DSNEnv names the environment variable holding the test database DSN.
	DSNEnv = "CIRCULATION_TEST_POSTGRES_DSN"

	// AdapterEnv names the environment variable selecting the database adapter.
	AdapterEnv = "ADAPTER_TYPE"

	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"
)

// Settings returns the connection settings for the adapter selected by ADAPTER_TYPE.
// It panics on an unknown adapter type, the suite can not run meaningfully then.
func Settings(dsn string) config.Postgres {
	settings := config.Postgres{
		DSN:             dsn,
		MaxConns:        10,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
		ConnectTimeout:  5 * time.Second,
	}

	switch adapter := strings.ToLower(os.Getenv(AdapterEnv)); adapter {
	case typePGXPool, "":
		settings.Driver = config.DriverPGX
	case typeSQLDB:
		settings.Driver = config.DriverSQL
	case typeSQLXDB:
		settings.Driver = config.DriverSQLX
	default:
		panic(fmt.Sprintf("unsupported adapter type from env: %s", adapter))
	}

	return settings
}

// UniqueTableNames returns table names no other test uses.
func UniqueTableNames() postgresengine.TableNames {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	return postgresengine.TableNames{
		Items:     "items_" + suffix,
		Borrowers: "borrowers_" + suffix,
		Loans:     "loans_" + suffix,
		Events:    "loan_events_" + suffix,
	}
}

// GivenStore opens a Store on fresh tables and registers their removal with t.Cleanup.
func GivenStore(t testing.TB, options ...postgresengine.Option) *postgresengine.Store {
	t.Helper()

	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skipf("%s is not set", DSNEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	settings := Settings(dsn)
	tables := UniqueTableNames()

	store, closeDB, err := config.NewPostgresStore(ctx, settings,
		append([]postgresengine.Option{postgresengine.WithTableNames(tables)}, options...)...)
	require.NoError(t, err, "error connecting to the test database")

	require.NoError(t, store.EnsureSchema(ctx), "error creating the test tables")

	t.Cleanup(func() {
		closeDB()
		dropTables(t, settings, tables)
	})

	return store
}

func dropTables(t testing.TB, settings config.Postgres, tables postgresengine.TableNames) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := config.NewSQLDB(ctx, settings)
	if err != nil {
		t.Logf("dropping test tables failed: %v", err)
		return
	}
	defer func() { _ = db.Close() }()

	statement := fmt.Sprintf("DROP TABLE IF EXISTS %s, %s, %s, %s",
		tables.Items, tables.Borrowers, tables.Loans, tables.Events)

	if _, err = db.ExecContext(ctx, statement); err != nil {
		t.Logf("dropping test tables failed: %v", err)
	}
}
