// Package pgtest opens a postgresengine.Store against a real PostgreSQL for integration tests.
//
// The database is taken from CIRCULATION_TEST_POSTGRES_DSN; tests calling GivenStore are skipped when it
// is unset. ADAPTER_TYPE selects the driver the store runs on (pgx.pool, sql.db or sqlx.db, default pgx.pool),
// so the same suite can be run once per adapter.
//
// Every store gets its own set of tables, which are dropped when the test ends.
//
// Usage:
//
//	func Test_Something(t *testing.T) {
//		store := pgtest.GivenStore(t)
//		...
//	}
package pgtest
