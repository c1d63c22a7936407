// Package postgres implements the chainq connection capability on top of
// pgx/v5 with a pgxpool-backed connection pool.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chainq/chainq"
)

// querier is the method set shared by *pgxpool.Pool and pgx.Tx, so the
// pool-backed Driver and the transaction-backed Tx share one execution path.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// conn adapts a querier to chainq.Conn.
type conn struct {
	q querier
}

// Driver is a PostgreSQL implementation of chainq.Conn backed by pgxpool.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	conn
	pool *pgxpool.Pool
}

// New connects to PostgreSQL using the provided Config and returns a Driver.
// It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *chainq.Config) (*Driver, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, chainq.WrapError(chainq.KindConnection, "invalid DSN", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, chainq.WrapError(chainq.KindConnection, "failed to create connection pool", err)
	}

	d := &Driver{conn: conn{q: pool}, pool: pool}

	if err := d.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return d, nil
}

// Ping verifies the database is reachable.
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

// Close drains the connection pool. Call when the application shuts down.
func (d *Driver) Close() {
	d.pool.Close()
}

// Begin starts a transaction and returns a transaction-bound connection.
// The caller owns Commit/Rollback.
func (d *Driver) Begin(ctx context.Context) (*Tx, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &Tx{conn: conn{q: tx}, tx: tx}, nil
}

// Tx is a transaction-bound chainq.Conn.
type Tx struct {
	conn
	tx pgx.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

// Rollback aborts the transaction. Calling it after Commit is a no-op error
// swallowed here, so it is safe to defer.
func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err == nil || err == pgx.ErrTxClosed {
		return nil
	}
	return mapError(err)
}

var (
	_ chainq.Conn = (*Driver)(nil)
	_ chainq.Tx   = (*Tx)(nil)
)

// --- chainq.Conn implementation ---

// Dialect reports the $n placeholder style.
func (c conn) Dialect() chainq.Dialect {
	return chainq.DialectPostgres
}

// Exec executes a statement that returns no rows.
func (c conn) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := c.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, mapError(err)
	}
	return tag.RowsAffected(), nil
}

// Query executes a statement that returns rows.
func (c conn) Query(ctx context.Context, sql string, args ...any) (chainq.Rows, error) {
	rows, err := c.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	return &pgxRows{rows: rows}, nil
}

// QueryRow executes a statement expected to return at most one row.
func (c conn) QueryRow(ctx context.Context, sql string, args ...any) chainq.Row {
	return &pgxRow{row: c.q.QueryRow(ctx, sql, args...)}
}

type pgxRows struct {
	rows pgx.Rows
}

func (r *pgxRows) Next() bool {
	return r.rows.Next()
}

func (r *pgxRows) Scan(dest ...any) error {
	return mapError(r.rows.Scan(dest...))
}

func (r *pgxRows) Err() error {
	return mapError(r.rows.Err())
}

func (r *pgxRows) Close() {
	r.rows.Close()
}

type pgxRow struct {
	row pgx.Row
}

func (r *pgxRow) Scan(dest ...any) error {
	return mapError(r.row.Scan(dest...))
}
