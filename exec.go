package chainq

import (
	"errors"
	"time"
)

// Default messages substituted into constraint failures when the call site
// does not supply its own via OnConflict / OnReference.
const (
	defaultConflictMsg  = "record already exists"
	defaultRefMsg       = "referenced record does not exist"
	defaultRefDeleteMsg = "record is in use"
)

type verb int

const (
	verbInsert verb = iota
	verbUpdate
	verbDelete
)

func (v verb) String() string {
	switch v {
	case verbInsert:
		return "insert"
	case verbUpdate:
		return "update"
	default:
		return "delete"
	}
}

type execCfg struct {
	conflictMsg string
	refMsg      string
}

// ExecOption customises how a single statement reports constraint failures.
type ExecOption func(*execCfg)

// OnConflict sets the message carried by a KindConflict failure caused by
// this statement.
func OnConflict(msg string) ExecOption {
	return func(c *execCfg) { c.conflictMsg = msg }
}

// OnReference sets the message carried by a KindReference failure caused by
// this statement.
func OnReference(msg string) ExecOption {
	return func(c *execCfg) { c.refMsg = msg }
}

// Args collects statement parameters into a slice.
func Args(vs ...any) []any {
	return vs
}

// run executes one statement and returns the affected-row count with
// constraint failures rewritten to the call site's messages.
func (s Session) run(v verb, sql string, args []any, opts []ExecOption) (int64, error) {
	var cfg execCfg
	for _, opt := range opts {
		opt(&cfg)
	}
	start := time.Now()
	n, err := s.conn.Exec(s.ctx, sql, args...)
	s.logStmt(v.String(), sql, start, err)
	if err != nil {
		return 0, classify(v, err, cfg)
	}
	return n, nil
}

// classify substitutes caller-supplied messages into constraint failures,
// keeping the driver error reachable through the cause chain. Other kinds
// pass through verbatim.
func classify(v verb, err error, cfg execCfg) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	switch e.Kind {
	case KindConflict:
		msg := cfg.conflictMsg
		if msg == "" {
			msg = defaultConflictMsg
		}
		return &Error{Kind: KindConflict, Message: msg, Cause: err}
	case KindReference:
		msg := cfg.refMsg
		if msg == "" {
			if v == verbDelete {
				msg = defaultRefDeleteMsg
			} else {
				msg = defaultRefMsg
			}
		}
		return &Error{Kind: KindReference, Message: msg, Cause: err}
	}
	return err
}

// Insert executes an insert statement. A uniqueness violation fails with
// KindConflict; a foreign key violation fails with KindReference.
func (s Session) Insert(sql string, args []any, opts ...ExecOption) Result[Unit] {
	if _, err := s.run(verbInsert, sql, args, opts); err != nil {
		return Fail[Unit](err)
	}
	return Done()
}

// InsertIf executes the insert only when when is true; otherwise it succeeds
// without issuing any SQL.
func (s Session) InsertIf(when bool, sql string, args []any, opts ...ExecOption) Result[Unit] {
	if !when {
		return Done()
	}
	return s.Insert(sql, args, opts...)
}

// InsertWhen executes the insert only when pred() is true. pred is evaluated
// exactly once.
func (s Session) InsertWhen(pred func() bool, sql string, args []any, opts ...ExecOption) Result[Unit] {
	return s.InsertIf(pred(), sql, args, opts...)
}

// InsertCount is Insert with the affected-row count as the success payload.
// Zero affected rows is a valid, non-error result.
func (s Session) InsertCount(sql string, args []any, opts ...ExecOption) Result[int64] {
	n, err := s.run(verbInsert, sql, args, opts)
	if err != nil {
		return Fail[int64](err)
	}
	return Success(n)
}

// Update executes an update statement. Zero affected rows is not an error;
// use UpdateGet when the updated row must exist.
func (s Session) Update(sql string, args []any, opts ...ExecOption) Result[Unit] {
	if _, err := s.run(verbUpdate, sql, args, opts); err != nil {
		return Fail[Unit](err)
	}
	return Done()
}

// UpdateIf executes the update only when when is true.
func (s Session) UpdateIf(when bool, sql string, args []any, opts ...ExecOption) Result[Unit] {
	if !when {
		return Done()
	}
	return s.Update(sql, args, opts...)
}

// UpdateWhen executes the update only when pred() is true. pred is evaluated
// exactly once.
func (s Session) UpdateWhen(pred func() bool, sql string, args []any, opts ...ExecOption) Result[Unit] {
	return s.UpdateIf(pred(), sql, args, opts...)
}

// UpdateCount is Update with the affected-row count as the success payload.
func (s Session) UpdateCount(sql string, args []any, opts ...ExecOption) Result[int64] {
	n, err := s.run(verbUpdate, sql, args, opts)
	if err != nil {
		return Fail[int64](err)
	}
	return Success(n)
}

// Delete executes a delete statement. A foreign key violation fails with
// KindReference ("record is in use" unless overridden).
func (s Session) Delete(sql string, args []any, opts ...ExecOption) Result[Unit] {
	if _, err := s.run(verbDelete, sql, args, opts); err != nil {
		return Fail[Unit](err)
	}
	return Done()
}

// DeleteIf executes the delete only when when is true.
func (s Session) DeleteIf(when bool, sql string, args []any, opts ...ExecOption) Result[Unit] {
	if !when {
		return Done()
	}
	return s.Delete(sql, args, opts...)
}

// DeleteWhen executes the delete only when pred() is true. pred is evaluated
// exactly once.
func (s Session) DeleteWhen(pred func() bool, sql string, args []any, opts ...ExecOption) Result[Unit] {
	return s.DeleteIf(pred(), sql, args, opts...)
}

// DeleteCount is Delete with the affected-row count as the success payload.
func (s Session) DeleteCount(sql string, args []any, opts ...ExecOption) Result[int64] {
	n, err := s.run(verbDelete, sql, args, opts)
	if err != nil {
		return Fail[int64](err)
	}
	return Success(n)
}

// writeGet executes a combined write+read statement as one round trip and
// scans the returned row. Zero returned rows fails with KindNotFound
// carrying key.
func writeGet[T any](s Session, v verb, sql string, args []any, key any, scan RowScanner[T], opts []ExecOption) Result[T] {
	var cfg execCfg
	for _, opt := range opts {
		opt(&cfg)
	}
	start := time.Now()
	row := s.conn.QueryRow(s.ctx, sql, args...)
	val, err := scan(row)
	s.logStmt(v.String(), sql, start, err)
	if err != nil {
		if IsNotFound(err) {
			return Fail[T](NotFoundError("record not found", key))
		}
		return Fail[T](classify(v, err, cfg))
	}
	return Success(val)
}

// InsertGet executes a combined insert+select statement (for example
// "INSERT … RETURNING …") as a single round trip and returns the scanned
// row. On engines without a returning clause, use MultipleGet with a
// two-statement batch instead. Zero returned rows fails with KindNotFound
// carrying key.
func InsertGet[T any](s Session, sql string, args []any, key any, scan RowScanner[T], opts ...ExecOption) Result[T] {
	return writeGet(s, verbInsert, sql, args, key, scan, opts)
}

// UpdateGet executes a combined update+select statement as a single round
// trip. Unlike Update, a row that cannot be read back fails with
// KindNotFound carrying key.
func UpdateGet[T any](s Session, sql string, args []any, key any, scan RowScanner[T], opts ...ExecOption) Result[T] {
	return writeGet(s, verbUpdate, sql, args, key, scan, opts)
}

// DeleteGet executes a combined delete+select statement as a single round
// trip, returning the deleted row.
func DeleteGet[T any](s Session, sql string, args []any, key any, scan RowScanner[T], opts ...ExecOption) Result[T] {
	return writeGet(s, verbDelete, sql, args, key, scan, opts)
}
