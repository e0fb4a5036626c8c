// Package dbtest provides an in-memory database.DB for repository and seeder
// tests. Queries are matched by substring against scripted result sets.
package dbtest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"careerxr/internal/database"
)

type Call struct {
	Query string
	Args  []any
}

type FakeDB struct {
	mu sync.Mutex

	// Results maps a query substring to the rows it returns.
	Results map[string][][]any
	// ExecErr, when set, is returned by Exec for queries containing the key.
	ExecErr map[string]error

	Execs     []Call
	Commits   int
	Rollbacks int
}

func New() *FakeDB {
	return &FakeDB{Results: map[string][][]any{}, ExecErr: map[string]error{}}
}

func (f *FakeDB) Ping(context.Context) error { return nil }
func (f *FakeDB) Close() error { return nil }

func (f *FakeDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, err := range f.ExecErr {
		if strings.Contains(query, k) {
			return 0, err
		}
	}
	f.Execs = append(f.Execs, Call{Query: query, Args: args})
	return 1, nil
}

func (f *FakeDB) Query(_ context.Context, query string, _ ...any) (database.Rows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, rows := range f.Results {
		if strings.Contains(query, k) {
			return &fakeRows{rows: rows, i: -1}, nil
		}
	}
	return &fakeRows{i: -1}, nil
}

func (f *FakeDB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	rows, _ := f.Query(ctx, query, args...)
	r := rows.(*fakeRows)
	if len(r.rows) == 0 {
		return errRow{err: sql.ErrNoRows}
	}
	r.i = 0
	return r
}

func (f *FakeDB) Begin(context.Context) (database.Tx, error) {
	return &fakeTx{db: f}, nil
}

// ExecsMatching returns recorded Exec calls whose query contains substr.
func (f *FakeDB) ExecsMatching(substr string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, 0)
	for _, c := range f.Execs {
		if strings.Contains(c.Query, substr) {
			out = append(out, c)
		}
	}
	return out
}

type fakeTx struct {
	db   *FakeDB
	done bool
}

func (t *fakeTx) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	return t.db.Exec(ctx, q, args...)
}

func (t *fakeTx) Query(ctx context.Context, q string, args ...any) (database.Rows, error) {
	return t.db.Query(ctx, q, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, q string, args ...any) database.Row {
	return t.db.QueryRow(ctx, q, args...)
}

func (t *fakeTx) Commit(context.Context) error {
	if t.done {
		return errors.New("tx already finished")
	}
	t.done = true
	t.db.mu.Lock()
	t.db.Commits++
	t.db.mu.Unlock()
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.db.mu.Lock()
	t.db.Rollbacks++
	t.db.mu.Unlock()
	return nil
}

type fakeRows struct {
	rows [][]any
	i    int
}

func (r *fakeRows) Close() {}

func (r *fakeRows) Next() bool {
	r.i++
	return r.i < len(r.rows)
}

func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Scan(dest ...any) error {
	if r.i < 0 || r.i >= len(r.rows) {
		return errors.New("scan outside rows")
	}
	row := r.rows[r.i]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: want %d columns, row has %d", len(dest), len(row))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("scan: dest %d is not a pointer", i)
		}
		sv := reflect.ValueOf(row[i])
		target := dv.Elem()
		switch {
		case !sv.IsValid():
			target.Set(reflect.Zero(target.Type()))
		case sv.Type().AssignableTo(target.Type()):
			target.Set(sv)
		case sv.Type().ConvertibleTo(target.Type()):
			target.Set(sv.Convert(target.Type()))
		default:
			return fmt.Errorf("scan: cannot assign %T to %s", row[i], target.Type())
		}
	}
	return nil
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

var (
	_ database.DB = (*FakeDB)(nil)
	_ database.Tx = (*fakeTx)(nil)
)
