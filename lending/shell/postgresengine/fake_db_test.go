package postgresengine

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/postgresengine/internal/adapters"
)

// fakeDB records rendered statements and serves canned rows.
type fakeDB struct {
	mu           sync.Mutex
	queries      []string
	execs        []string
	rows         [][]any
	rowsAffected int64
	queryErr     error
	execErr      error
}

func (f *fakeDB) Query(_ context.Context, query string) (adapters.DBRows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, query)
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	return &fakeRows{rows: f.rows, index: -1}, nil
}

func (f *fakeDB) Exec(_ context.Context, query string) (adapters.DBResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.execs = append(f.execs, query)
	if f.execErr != nil {
		return nil, f.execErr
	}

	return fakeResult(f.rowsAffected), nil
}

func (f *fakeDB) lastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queries) == 0 {
		return ""
	}

	return f.queries[len(f.queries)-1]
}

func (f *fakeDB) lastExec() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.execs) == 0 {
		return ""
	}

	return f.execs[len(f.execs)-1]
}

type fakeRows struct {
	rows   [][]any
	index  int
	closed bool
}

func (r *fakeRows) Next() bool {
	r.index++
	return r.index < len(r.rows)
}

// Scan assigns row values to destinations of exactly the same type, nil values zero the destination.
func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.index]
	if len(row) != len(dest) {
		return fmt.Errorf("row has %d columns, scan wants %d", len(row), len(dest))
	}

	for i, target := range dest {
		targetValue := reflect.ValueOf(target).Elem()

		if row[i] == nil {
			targetValue.Set(reflect.Zero(targetValue.Type()))
			continue
		}

		value := reflect.ValueOf(row[i])
		if !value.Type().AssignableTo(targetValue.Type()) {
			return fmt.Errorf("column %d: can not assign %s to %s", i, value.Type(), targetValue.Type())
		}

		targetValue.Set(value)
	}

	return nil
}

func (r *fakeRows) Err() error {
	return nil
}

func (r *fakeRows) Close() error {
	r.closed = true
	return nil
}

type fakeResult int64

func (r fakeResult) RowsAffected() (int64, error) {
	return int64(r), nil
}
