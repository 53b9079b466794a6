package postgresengine

import (
	"context"
	"time"

	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

const (
	// StatementDurationMetric tracks how long single SQL statements take, by action.
	StatementDurationMetric = "circulation_db_statement_duration_seconds"

	// DatabaseErrorsMetric counts failed SQL statements, by action.
	DatabaseErrorsMetric = "circulation_db_errors_total"

	logMsgSQLExecuted        = "executed sql for: "
	logMsgDBQueryFailed      = "database query execution failed"
	logMsgDBExecFailed       = "database statement execution failed"
	logMsgScanRowFailed      = "failed to scan database row"
	logMsgRowsAffectedFailed = "failed to get rows affected count"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgSchemaEnsured      = "database schema ensured"

	logAttrQuery  = "query"
	logAttrAction = "action"
)

/*** Observability helper methods ***/

func (s *Store) logSQL(ctx context.Context, action string, sqlQuery string, duration time.Duration) {
	shell.LogDebug(ctx, s.logger, s.contextualLogger, logMsgSQLExecuted+action,
		shell.LogAttrDurationMS, shell.ToMilliseconds(duration),
		logAttrQuery, sqlQuery,
	)
}

func (s *Store) observeFailure(ctx context.Context, action string, msg string, err error, sqlQuery string) {
	shell.LogError(ctx, s.logger, s.contextualLogger, msg,
		logAttrAction, action,
		shell.LogAttrError, err.Error(),
		logAttrQuery, sqlQuery,
	)

	shell.IncrementCounter(ctx, s.metricsCollector, DatabaseErrorsMetric, map[string]string{
		logAttrAction:       action,
		shell.LogAttrStatus: shell.ClassifyError(err),
	})
}

func (s *Store) recordDuration(ctx context.Context, action string, duration time.Duration) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		logAttrAction:       action,
		shell.LogAttrStatus: shell.StatusSuccess,
	}

	if contextualCollector, ok := s.metricsCollector.(shell.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, StatementDurationMetric, duration, labels)
		return
	}

	s.metricsCollector.RecordDuration(StatementDurationMetric, duration, labels)
}
