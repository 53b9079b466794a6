// Package config provides the runtime configuration of the circulation service.
//
// Values are read from CIRCULATION_* environment variables with envconfig, optionally pre-loaded from a
// .env file by the entrypoint, and validated with go-playground/validator. The package also builds the
// infrastructure the configuration describes: the zap logger and its adapter to the shell logging
// interfaces, PostgreSQL connections for the pgx.Pool, sql.DB and sqlx.DB adapters, and the
// OpenTelemetry meter provider.
package config
