package chainq

import (
	"context"
	"fmt"
)

// Dialect controls which SQL placeholder style this layer emits when it has
// to append a clause of its own (offset pagination is the only such case).
type Dialect int

const (
	// DialectPostgres uses $1, $2, … placeholders.
	DialectPostgres Dialect = iota

	// DialectMySQL uses ? placeholders.
	DialectMySQL
)

// Placeholder returns the parameter placeholder for the dialect.
// Postgres: $1, $2, …   MySQL: ? (index is ignored)
func (d Dialect) Placeholder(idx int) string {
	if d == DialectMySQL {
		return "?"
	}
	return fmt.Sprintf("$%d", idx)
}

// Conn is the connection capability every Session is bound to. It is
// implemented by both pool-backed and transaction-backed adapter values, so
// code written against Conn composes into transactions unchanged.
//
// Implementations must translate native driver errors into *Error before
// returning them, distinguishing at minimum uniqueness violations
// (KindConflict), foreign key violations (KindReference), missing rows
// (KindNotFound), and cancellation (KindCanceled).
type Conn interface {
	// Exec executes a statement that returns no rows and reports the
	// number of rows affected.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)

	// Query executes a statement that returns rows.
	// The caller must always Close the returned Rows, even on error.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// QueryRow executes a statement expected to return at most one row.
	// Errors are deferred until Scan is called.
	QueryRow(ctx context.Context, sql string, args ...any) Row

	// QueryBatch executes a multi-statement batch yielding several result
	// sets, read sequentially through the returned Batches.
	QueryBatch(ctx context.Context, sql string, args ...any) (Batches, error)

	// Dialect reports the placeholder style of the underlying engine.
	Dialect() Dialect
}

// Tx is a transaction-bound Conn. Callers own begin/commit/rollback;
// this layer never manages transaction boundaries itself.
type Tx interface {
	Conn
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Rows is an abstraction over a database result set.
// Callers must always call Close() when done, even on error.
type Rows interface {
	// Next advances to the next row.
	// Returns false when no more rows exist or on error.
	Next() bool

	// Scan copies the current row's columns into the provided destinations.
	Scan(dest ...any) error

	// Err returns any error encountered during iteration.
	Err() error

	// Close releases resources held by the result set.
	Close()
}

// Row is an abstraction over a single database row.
type Row interface {
	Scan(dest ...any) error
}

// Batches exposes sequential, forward-only access to the successive result
// sets of one batch. It starts positioned on the first result set; Next
// iterates the current set's rows and NextResultSet advances to the next set.
type Batches interface {
	NextResultSet() bool
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}
