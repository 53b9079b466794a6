// Package postgresengine provides the PostgreSQL implementations of the circulation ports:
// the catalog store, the borrower directory, the loan repository and the append-only loan event journal.
//
// A Store can be created from a pgx pool, a database/sql handle (lib/pq) or a sqlx handle.
// All statements are built with goqu and executed as rendered SQL.
//
// Example:
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	store, err := postgresengine.NewStoreFromPGXPool(pool, postgresengine.WithLogger(logger))
//	if err != nil { ... }
//	if err := store.EnsureSchema(ctx); err != nil { ... }
package postgresengine
