// Package mysql implements the chainq connection capability on top of
// database/sql with the go-sql-driver/mysql driver.
//
// Multi-statement batches (QueryBatch, combined count+data pagination)
// require the DSN options multiStatements=true and interpolateParams=true;
// the DSN builder in pool.go sets both.
package mysql

import (
	"context"
	"database/sql"

	"github.com/chainq/chainq"
)

// querier is the method set shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn adapts a querier to chainq.Conn.
type conn struct {
	q querier
}

// Driver is a MySQL implementation of chainq.Conn backed by a database/sql
// pool. It is safe for concurrent use by multiple goroutines.
type Driver struct {
	conn
	db *sql.DB
}

// New opens a MySQL pool using the provided Config and returns a Driver.
// It pings to validate the connection before returning.
func New(ctx context.Context, cfg *chainq.Config) (*Driver, error) {
	db, err := buildPool(cfg)
	if err != nil {
		return nil, err
	}

	d := &Driver{conn: conn{q: db}, db: db}

	if err := d.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return d, nil
}

// Ping verifies the database is reachable.
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

// Close drains the connection pool.
func (d *Driver) Close() error {
	return d.db.Close()
}

// Begin starts a transaction and returns a transaction-bound connection.
// The caller owns Commit/Rollback.
func (d *Driver) Begin(ctx context.Context) (*Tx, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapError(err)
	}
	return &Tx{conn: conn{q: tx}, tx: tx}, nil
}

// Tx is a transaction-bound chainq.Conn.
type Tx struct {
	conn
	tx *sql.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit(_ context.Context) error {
	if err := t.tx.Commit(); err != nil {
		return mapError(err)
	}
	return nil
}

// Rollback aborts the transaction. Safe to defer: rolling back an already
// finished transaction is not an error.
func (t *Tx) Rollback(_ context.Context) error {
	err := t.tx.Rollback()
	if err == nil || err == sql.ErrTxDone {
		return nil
	}
	return mapError(err)
}

var (
	_ chainq.Conn = (*Driver)(nil)
	_ chainq.Tx   = (*Tx)(nil)
)

// --- chainq.Conn implementation ---

// Dialect reports the ? placeholder style.
func (c conn) Dialect() chainq.Dialect {
	return chainq.DialectMySQL
}

// Exec executes a statement that returns no rows.
func (c conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := c.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// Query executes a statement that returns rows.
func (c conn) Query(ctx context.Context, query string, args ...any) (chainq.Rows, error) {
	rows, err := c.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	return &sqlRows{rows: rows}, nil
}

// QueryRow executes a statement expected to return at most one row.
func (c conn) QueryRow(ctx context.Context, query string, args ...any) chainq.Row {
	return &sqlRow{row: c.q.QueryRowContext(ctx, query, args...)}
}

// QueryBatch executes a multi-statement batch; the driver yields one result
// set per statement through sql.Rows.NextResultSet.
func (c conn) QueryBatch(ctx context.Context, query string, args ...any) (chainq.Batches, error) {
	rows, err := c.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	return &sqlBatch{rows: rows}, nil
}

type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Next() bool {
	return r.rows.Next()
}

func (r *sqlRows) Scan(dest ...any) error {
	return mapError(r.rows.Scan(dest...))
}

func (r *sqlRows) Err() error {
	return mapError(r.rows.Err())
}

func (r *sqlRows) Close() {
	_ = r.rows.Close()
}

type sqlRow struct {
	row *sql.Row
}

func (r *sqlRow) Scan(dest ...any) error {
	return mapError(r.row.Scan(dest...))
}

type sqlBatch struct {
	rows *sql.Rows
}

func (b *sqlBatch) NextResultSet() bool {
	return b.rows.NextResultSet()
}

func (b *sqlBatch) Next() bool {
	return b.rows.Next()
}

func (b *sqlBatch) Scan(dest ...any) error {
	return mapError(b.rows.Scan(dest...))
}

func (b *sqlBatch) Err() error {
	return mapError(b.rows.Err())
}

func (b *sqlBatch) Close() {
	_ = b.rows.Close()
}
