package mysql

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/chainq/chainq"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want chainq.ErrKind
	}{
		{"nil", nil, chainq.KindUnknown},
		{"no rows", sql.ErrNoRows, chainq.KindNotFound},
		{"duplicate entry", &gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, chainq.KindConflict},
		{"row is referenced", &gomysql.MySQLError{Number: 1451, Message: "Cannot delete"}, chainq.KindReference},
		{"no referenced row", &gomysql.MySQLError{Number: 1452, Message: "Cannot add"}, chainq.KindReference},
		{"access denied", &gomysql.MySQLError{Number: 1045}, chainq.KindConnection},
		{"unknown database", &gomysql.MySQLError{Number: 1049}, chainq.KindConnection},
		{"context canceled", context.Canceled, chainq.KindCanceled},
		{"bad field stays unclassified", &gomysql.MySQLError{Number: 1054}, chainq.KindUnknown},
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
			assert.True(t, errors.Is(got, tt.err))
		})
	}
}

func TestBuildDSN(t *testing.T) {
	cfg := &chainq.Config{
		User:     "app",
		Password: "secret",
		Host:     "db.internal",
		Database: "orders",
	}

	dsn := buildDSN(cfg)

	assert.Equal(t,
		"app:secret@tcp(db.internal:3306)/orders?parseTime=true&multiStatements=true&interpolateParams=true",
		dsn)
}
