package testdoubles

import (
	"context"
	"fmt"
	"sync"
)

// ContextualLoggerSpy captures contextual logging calls for testing.
type ContextualLoggerSpy struct {
	mu          sync.Mutex
	records     map[string][]SpyLogRecord
	recordCalls bool
}

// SpyLogRecord represents a recorded log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// Attr returns the value logged under key, if any.
func (r SpyLogRecord) Attr(key string) (any, bool) {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1], true
		}
	}

	return nil, false
}

const (
	levelDebug = "debug"
	levelInfo  = "info"
	levelWarn  = "warn"
	levelError = "error"
)

// NewContextualLoggerSpy creates a new ContextualLoggerSpy instance.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{
		records:     make(map[string][]SpyLogRecord),
		recordCalls: recordCalls,
	}
}

func (s *ContextualLoggerSpy) record(ctx context.Context, level string, msg string, args []any) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[level] = append(s.records[level], SpyLogRecord{
		Level:   level,
		Message: msg,
		Args:    args,
		Context: ctx,
	})
}

// DebugContext implements the ContextualLogger interface.
func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, levelDebug, msg, args)
}

// InfoContext implements the ContextualLogger interface.
func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, levelInfo, msg, args)
}

// WarnContext implements the ContextualLogger interface.
func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, levelWarn, msg, args)
}

// ErrorContext implements the ContextualLogger interface.
func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, levelError, msg, args)
}

// Debug implements the plain Logger interface.
func (s *ContextualLoggerSpy) Debug(msg string, args ...any) {
	s.record(context.Background(), levelDebug, msg, args)
}

// Info implements the plain Logger interface.
func (s *ContextualLoggerSpy) Info(msg string, args ...any) {
	s.record(context.Background(), levelInfo, msg, args)
}

// Warn implements the plain Logger interface.
func (s *ContextualLoggerSpy) Warn(msg string, args ...any) {
	s.record(context.Background(), levelWarn, msg, args)
}

// Error implements the plain Logger interface.
func (s *ContextualLoggerSpy) Error(msg string, args ...any) {
	s.record(context.Background(), levelError, msg, args)
}

// Reset clears all recorded log calls.
func (s *ContextualLoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string][]SpyLogRecord)
}

// GetDebugRecords returns a copy of all debug log records.
func (s *ContextualLoggerSpy) GetDebugRecords() []SpyLogRecord {
	return s.recordsFor(levelDebug)
}

// GetInfoRecords returns a copy of all info log records.
func (s *ContextualLoggerSpy) GetInfoRecords() []SpyLogRecord {
	return s.recordsFor(levelInfo)
}

// GetWarnRecords returns a copy of all warn log records.
func (s *ContextualLoggerSpy) GetWarnRecords() []SpyLogRecord {
	return s.recordsFor(levelWarn)
}

// GetErrorRecords returns a copy of all error log records.
func (s *ContextualLoggerSpy) GetErrorRecords() []SpyLogRecord {
	return s.recordsFor(levelError)
}

// HasDebugLog checks if a debug log with the specified message exists.
func (s *ContextualLoggerSpy) HasDebugLog(message string) bool {
	return s.has(levelDebug, message)
}

// HasInfoLog checks if an info log with the specified message exists.
func (s *ContextualLoggerSpy) HasInfoLog(message string) bool {
	return s.has(levelInfo, message)
}

// HasWarnLog checks if a warn log with the specified message exists.
func (s *ContextualLoggerSpy) HasWarnLog(message string) bool {
	return s.has(levelWarn, message)
}

// HasErrorLog checks if an error log with the specified message exists.
func (s *ContextualLoggerSpy) HasErrorLog(message string) bool {
	return s.has(levelError, message)
}

// GetTotalRecordCount returns the total number of log records across all levels.
func (s *ContextualLoggerSpy) GetTotalRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, records := range s.records {
		total += len(records)
	}

	return total
}

// String renders all records, handy in assertion failure messages.
func (s *ContextualLoggerSpy) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := ""
	for _, level := range []string{levelDebug, levelInfo, levelWarn, levelError} {
		for _, r := range s.records[level] {
			out += fmt.Sprintf("[%s] %s %v\n", r.Level, r.Message, r.Args)
		}
	}

	return out
}

func (s *ContextualLoggerSpy) recordsFor(level string) []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyLogRecord(nil), s.records[level]...)
}

func (s *ContextualLoggerSpy) has(level string, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records[level] {
		if record.Message == message {
			return true
		}
	}

	return false
}
