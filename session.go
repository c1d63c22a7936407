package chainq

import (
	"context"
	"time"

	"github.com/chainq/chainq/logger"
)

// Session is an immutable binding of a connection capability, an optional
// transaction, and a cancellation signal. Create one per logical unit of
// work: bind a pool-backed Conn for stand-alone operations, or a Tx for a
// transactional group. The context is captured once and threaded unchanged
// into every operation issued through the session.
//
// A Session is a value; it is never mutated and is copied into every chain
// step. Sessions sharing a transaction-bound Conn must not interleave
// statements from concurrent goroutines; the session performs no locking.
type Session struct {
	conn Conn
	ctx  context.Context
	log  *logger.Logger
}

// SessionOption configures a Session at construction.
type SessionOption func(*Session)

// WithLogger makes the session log every executed statement at debug level.
func WithLogger(l *logger.Logger) SessionOption {
	return func(s *Session) { s.log = l }
}

// NewSession binds conn and ctx into a Session.
func NewSession(ctx context.Context, conn Conn, opts ...SessionOption) Session {
	s := Session{conn: conn, ctx: ctx, log: logger.Nop()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Context returns the cancellation signal captured at creation.
func (s Session) Context() context.Context {
	return s.ctx
}

// Conn returns the bound connection capability.
func (s Session) Conn() Conn {
	return s.conn
}

// logStmt records one executed statement. Gated and short-circuited steps
// never reach this point, so the log reflects SQL actually issued.
func (s Session) logStmt(op, sql string, start time.Time, err error) {
	l := s.log.With().
		Str("op", op).
		Str("sql", sql).
		Dur("elapsed", time.Since(start))
	if err != nil {
		l.Err(err).Logger().Error("statement failed")
		return
	}
	l.Logger().Debug("statement executed")
}
