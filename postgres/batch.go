package postgres

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/chainq/chainq"
)

// QueryBatch executes a multi-statement batch. The extended protocol pgx
// speaks cannot run several statements in one text, so the batch is split on
// top-level semicolons and queued as a pgx.Batch; every statement keeps the
// $n parameters it references, renumbered per statement, so statements may
// share parameters the way a single-text batch would.
func (c conn) QueryBatch(ctx context.Context, sql string, args ...any) (chainq.Batches, error) {
	stmts := splitStatements(sql)
	if len(stmts) == 0 {
		return nil, chainq.NewError(chainq.KindUnknown, "empty batch")
	}

	batch := &pgx.Batch{}
	for _, stmt := range stmts {
		text, stmtArgs := rebindStatement(stmt, args)
		batch.Queue(text, stmtArgs...)
	}

	b := &batchRows{res: c.q.SendBatch(ctx, batch), remaining: len(stmts)}
	if !b.advance() {
		err := b.err
		b.Close()
		if err == nil {
			err = chainq.NewError(chainq.KindUnknown, "batch produced no result sets")
		}
		return nil, err
	}
	return b, nil
}

// splitStatements splits a batch on semicolons that sit outside
// single-quoted strings and double-quoted identifiers. Dollar-quoted
// strings are not recognized; batch texts should avoid them.
func splitStatements(sql string) []string {
	var (
		stmts   []string
		start   int
		inStr   bool
		inIdent bool
	)
	for i := 0; i < len(sql); i++ {
		switch sql[i] {
		case '\'':
			if !inIdent {
				inStr = !inStr
			}
		case '"':
			if !inStr {
				inIdent = !inIdent
			}
		case ';':
			if !inStr && !inIdent {
				if stmt := strings.TrimSpace(sql[start:i]); stmt != "" {
					stmts = append(stmts, stmt)
				}
				start = i + 1
			}
		}
	}
	if stmt := strings.TrimSpace(sql[start:]); stmt != "" {
		stmts = append(stmts, stmt)
	}
	return stmts
}

var placeholderRe = regexp.MustCompile(`\$([0-9]+)`)

// rebindStatement rewrites a statement's $n placeholders to a dense 1-based
// numbering and returns the matching subset of args in reference order.
func rebindStatement(stmt string, args []any) (string, []any) {
	seen := make(map[int]int)
	var stmtArgs []any
	text := placeholderRe.ReplaceAllStringFunc(stmt, func(m string) string {
		idx, _ := strconv.Atoi(m[1:])
		n, ok := seen[idx]
		if !ok {
			var v any
			if idx >= 1 && idx <= len(args) {
				v = args[idx-1]
			}
			stmtArgs = append(stmtArgs, v)
			n = len(stmtArgs)
			seen[idx] = n
		}
		return "$" + strconv.Itoa(n)
	})
	return text, stmtArgs
}

// batchRows adapts pgx.BatchResults to the flat chainq.Batches reader.
type batchRows struct {
	res       pgx.BatchResults
	rows      pgx.Rows
	remaining int
	err       error
}

// advance closes the current result set and opens the next queued one.
func (b *batchRows) advance() bool {
	if b.rows != nil {
		b.rows.Close()
		b.rows = nil
	}
	if b.remaining == 0 {
		return false
	}
	b.remaining--
	rows, err := b.res.Query()
	if err != nil {
		b.err = mapError(err)
		return false
	}
	b.rows = rows
	return true
}

func (b *batchRows) NextResultSet() bool {
	return b.advance()
}

func (b *batchRows) Next() bool {
	if b.rows == nil {
		return false
	}
	return b.rows.Next()
}

func (b *batchRows) Scan(dest ...any) error {
	if b.rows == nil {
		return chainq.NewError(chainq.KindUnknown, "no current result set")
	}
	return mapError(b.rows.Scan(dest...))
}

func (b *batchRows) Err() error {
	if b.err != nil {
		return b.err
	}
	if b.rows != nil {
		return mapError(b.rows.Err())
	}
	return nil
}

func (b *batchRows) Close() {
	if b.rows != nil {
		b.rows.Close()
		b.rows = nil
	}
	_ = b.res.Close()
}
