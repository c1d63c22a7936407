package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/chainq/chainq"
)

// MySQL error numbers relevant to this layer.
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errDuplicateEntry  = 1062
	errRowIsReferenced = 1451
	errNoReferencedRow = 1452
	errAccessDenied    = 1045
	errUnknownDatabase = 1049
	errConnRefused     = 2003
)

// mapError converts a MySQL driver error into a chainq.Error.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return chainq.WrapError(chainq.KindNotFound, "record not found", err)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return chainq.WrapError(chainq.KindCanceled, "operation canceled", err)
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case errDuplicateEntry:
			return chainq.WrapError(chainq.KindConflict,
				fmt.Sprintf("unique constraint violated: %s", mysqlErr.Message), err)
		case errRowIsReferenced, errNoReferencedRow:
			return chainq.WrapError(chainq.KindReference,
				fmt.Sprintf("foreign key constraint violated: %s", mysqlErr.Message), err)
		case errAccessDenied, errConnRefused, errUnknownDatabase:
			return chainq.WrapError(chainq.KindConnection,
				fmt.Sprintf("connection error: %s", mysqlErr.Message), err)
		}
	}

	return chainq.WrapError(chainq.KindUnknown, err.Error(), err)
}
