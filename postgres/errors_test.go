package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainq/chainq"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want chainq.ErrKind
	}{
		{"nil", nil, chainq.KindUnknown},
		{"no rows", pgx.ErrNoRows, chainq.KindNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", Message: "duplicate key"}, chainq.KindConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503", Message: "violates foreign key"}, chainq.KindReference},
		{"query canceled", &pgconn.PgError{Code: "57014"}, chainq.KindCanceled},
		{"connection failure", &pgconn.PgError{Code: "08006"}, chainq.KindConnection},
		{"context canceled", context.Canceled, chainq.KindCanceled},
		{"deadline exceeded", context.DeadlineExceeded, chainq.KindCanceled},
		{"syntax error stays unclassified", &pgconn.PgError{Code: "42601"}, chainq.KindUnknown},
		{"plain error", errors.New("boom"), chainq.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.want, chainq.KindOf(got))
			assert.True(t, errors.Is(got, tt.err), "original error must stay reachable")
		})
	}
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements(
		"SELECT count(*) FROM t WHERE note = 'a;b'; SELECT id FROM t ORDER BY id;")

	require.Len(t, stmts, 2)
	assert.Equal(t, "SELECT count(*) FROM t WHERE note = 'a;b'", stmts[0])
	assert.Equal(t, "SELECT id FROM t ORDER BY id", stmts[1])
}

func TestSplitStatements_QuotedIdentifier(t *testing.T) {
	stmts := splitStatements(`SELECT "weird;name" FROM t; SELECT 1`)

	require.Len(t, stmts, 2)
	assert.Equal(t, `SELECT "weird;name" FROM t`, stmts[0])
}

func TestRebindStatement_SharedParameters(t *testing.T) {
	// both statements of a batch reference $1; the second also uses $2 and $3
	text, args := rebindStatement("SELECT id FROM t WHERE grp = $1 LIMIT $2 OFFSET $3",
		[]any{"admins", 20, 40})

	assert.Equal(t, "SELECT id FROM t WHERE grp = $1 LIMIT $2 OFFSET $3", text)
	assert.Equal(t, []any{"admins", 20, 40}, args)

	text, args = rebindStatement("SELECT count(*) FROM t WHERE grp = $1", []any{"admins", 20, 40})
	assert.Equal(t, "SELECT count(*) FROM t WHERE grp = $1", text)
	assert.Equal(t, []any{"admins"}, args)
}

func TestRebindStatement_Renumbers(t *testing.T) {
	text, args := rebindStatement("SELECT id FROM t ORDER BY id LIMIT $2 OFFSET $3",
		[]any{"unused", 10, 20})

	assert.Equal(t, "SELECT id FROM t ORDER BY id LIMIT $1 OFFSET $2", text)
	assert.Equal(t, []any{10, 20}, args)
}

func TestRebindStatement_RepeatedReference(t *testing.T) {
	text, args := rebindStatement("SELECT * FROM t WHERE a = $1 OR b = $1", []any{"x"})

	assert.Equal(t, "SELECT * FROM t WHERE a = $1 OR b = $1", text)
	assert.Equal(t, []any{"x"}, args)
}
