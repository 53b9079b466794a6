package config

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver for database/sql and sqlx

	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/postgresengine"
)

const postgresDriverName = "postgres"

// ErrConnectingDatabase is returned when a PostgreSQL connection can not be opened or pinged.
var ErrConnectingDatabase = errors.New("connecting to database failed")

// PGXPoolConfig creates a pgxpool.Config for the given DSN with the configured pool limits.
func PGXPoolConfig(cfg Postgres, dsn string) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectingDatabase, err)
	}

	dbConfig.MaxConns = cfg.MaxConns
	dbConfig.MinConns = cfg.MinConns
	dbConfig.MaxConnLifetime = cfg.MaxConnLifetime
	dbConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	dbConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	return dbConfig, nil
}

// NewPGXPool opens and pings a pgx pool for the given DSN.
func NewPGXPool(ctx context.Context, cfg Postgres, dsn string) (*pgxpool.Pool, error) {
	dbConfig, err := PGXPoolConfig(cfg, dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, errors.Join(ErrConnectingDatabase, err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, errors.Join(ErrConnectingDatabase, pingErr)
	}

	return pool, nil
}

// NewSQLDB opens and pings a database/sql handle backed by lib/pq.
func NewSQLDB(ctx context.Context, cfg Postgres) (*sql.DB, error) {
	db, err := sql.Open(postgresDriverName, cfg.DSN)
	if err != nil {
		return nil, errors.Join(ErrConnectingDatabase, err)
	}

	configureSQLPool(db, cfg)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingDatabase, pingErr)
	}

	return db, nil
}

// NewSQLX opens and pings a sqlx handle backed by lib/pq.
func NewSQLX(ctx context.Context, cfg Postgres) (*sqlx.DB, error) {
	db, err := sqlx.Open(postgresDriverName, cfg.DSN)
	if err != nil {
		return nil, errors.Join(ErrConnectingDatabase, err)
	}

	configureSQLPool(db.DB, cfg)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingDatabase, pingErr)
	}

	return db, nil
}

func configureSQLPool(db *sql.DB, cfg Postgres) {
	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(int(cfg.MinConns))
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
}

// NewPostgresStore connects with the configured driver and builds a postgresengine.Store on top.
// A replica DSN is only honored by the pgx driver. The returned function closes the connections.
func NewPostgresStore(
	ctx context.Context,
	cfg Postgres,
	options ...postgresengine.Option,
) (*postgresengine.Store, func(), error) {
	switch cfg.Driver {
	case DriverSQL:
		db, err := NewSQLDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewStoreFromSQLDB(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	case DriverSQLX:
		db, err := NewSQLX(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresengine.NewStoreFromSQLX(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	default:
		return newPGXStore(ctx, cfg, options...)
	}
}

func newPGXStore(
	ctx context.Context,
	cfg Postgres,
	options ...postgresengine.Option,
) (*postgresengine.Store, func(), error) {
	primary, err := NewPGXPool(ctx, cfg, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}

	if cfg.ReplicaDSN == "" {
		store, storeErr := postgresengine.NewStoreFromPGXPool(primary, options...)
		if storeErr != nil {
			primary.Close()
			return nil, nil, storeErr
		}

		return store, primary.Close, nil
	}

	replica, err := NewPGXPool(ctx, cfg, cfg.ReplicaDSN)
	if err != nil {
		primary.Close()
		return nil, nil, err
	}

	closeAll := func() {
		replica.Close()
		primary.Close()
	}

	store, err := postgresengine.NewStoreFromPGXPoolAndReplica(primary, replica, options...)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	return store, closeAll, nil
}
