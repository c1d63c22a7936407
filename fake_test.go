package chainq

import (
	"context"
	"fmt"
	"reflect"
)

// call records one statement issued through the fake connection.
type call struct {
	sql  string
	args []any
}

// fakeConn is a spy implementation of Conn. Tests preload the values each
// method should produce and assert on the recorded calls afterwards.
type fakeConn struct {
	dialect Dialect

	execs   []call
	queries []call
	batched []call

	execN   int64
	execErr error

	rows     [][]any
	queryErr error

	rowVals []any
	rowErr  error

	sets     [][][]any
	batchErr error
}

func (f *fakeConn) Dialect() Dialect {
	return f.dialect
}

func (f *fakeConn) Exec(_ context.Context, sql string, args ...any) (int64, error) {
	f.execs = append(f.execs, call{sql: sql, args: args})
	if f.execErr != nil {
		return 0, f.execErr
	}
	return f.execN, nil
}

func (f *fakeConn) Query(_ context.Context, sql string, args ...any) (Rows, error) {
	f.queries = append(f.queries, call{sql: sql, args: args})
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &fakeRows{rows: f.rows}, nil
}

func (f *fakeConn) QueryRow(_ context.Context, sql string, args ...any) Row {
	f.queries = append(f.queries, call{sql: sql, args: args})
	return &fakeRow{vals: f.rowVals, err: f.rowErr}
}

func (f *fakeConn) QueryBatch(_ context.Context, sql string, args ...any) (Batches, error) {
	f.batched = append(f.batched, call{sql: sql, args: args})
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	return &fakeBatches{sets: f.sets}, nil
}

// statements returns the total number of SQL calls issued, whatever their
// shape.
func (f *fakeConn) statements() int {
	return len(f.execs) + len(f.queries) + len(f.batched)
}

// assign copies fake row values into scan destinations.
func assign(dest []any, vals []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("scan expects %d destinations, row has %d values", len(dest), len(vals))
	}
	for i := range dest {
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Pointer {
			return fmt.Errorf("scan destination %d is not a pointer", i)
		}
		sv := reflect.ValueOf(vals[i])
		if !sv.Type().ConvertibleTo(dv.Elem().Type()) {
			return fmt.Errorf("cannot scan %T into %T", vals[i], dest[i])
		}
		dv.Elem().Set(sv.Convert(dv.Elem().Type()))
	}
	return nil
}

type fakeRows struct {
	rows [][]any
	idx  int
	cur  []any
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.cur = r.rows[r.idx]
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(dest, r.cur)
}

func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Close() {}

type fakeRow struct {
	vals []any
	err  error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if r.vals == nil {
		return NewError(KindNotFound, "record not found")
	}
	return assign(dest, r.vals)
}

type fakeBatches struct {
	sets [][][]any
	set  int
	row  int
	cur  []any
}

func (b *fakeBatches) NextResultSet() bool {
	b.set++
	b.row = 0
	return b.set < len(b.sets)
}

func (b *fakeBatches) Next() bool {
	if b.set >= len(b.sets) || b.row >= len(b.sets[b.set]) {
		return false
	}
	b.cur = b.sets[b.set][b.row]
	b.row++
	return true
}

func (b *fakeBatches) Scan(dest ...any) error {
	return assign(dest, b.cur)
}

func (b *fakeBatches) Err() error { return nil }

func (b *fakeBatches) Close() {}
