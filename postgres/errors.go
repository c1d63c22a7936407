package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/chainq/chainq"
)

// PostgreSQL SQLSTATE error codes relevant to this layer.
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
	pgErrQueryCanceled       = "57014"

	pgErrClassConnection = "08" // connection exception class
)

// mapError converts a pgx error into a chainq.Error.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return chainq.WrapError(chainq.KindNotFound, "record not found", err)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return chainq.WrapError(chainq.KindCanceled, "operation canceled", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgErrUniqueViolation:
			return chainq.WrapError(chainq.KindConflict,
				fmt.Sprintf("unique constraint violated: %s", pgErr.Message), err)
		case pgErr.Code == pgErrForeignKeyViolation:
			return chainq.WrapError(chainq.KindReference,
				fmt.Sprintf("foreign key constraint violated: %s", pgErr.Message), err)
		case pgErr.Code == pgErrQueryCanceled:
			return chainq.WrapError(chainq.KindCanceled, "query canceled", err)
		case strings.HasPrefix(pgErr.Code, pgErrClassConnection):
			return chainq.WrapError(chainq.KindConnection, "database connection failed", err)
		}
	}

	return chainq.WrapError(chainq.KindUnknown, err.Error(), err)
}
