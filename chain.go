package chainq

// Chain pairs a Session with the outcome of every step composed so far.
// Combinators inspect that outcome first: once any step has failed, later
// steps issue no SQL and their gate and args-factory functions are never
// invoked. A Chain is a single-use value describing one linear pipeline;
// never share one between goroutines or fork two chains off the same prefix
// expecting independent execution.
type Chain[T any] struct {
	s   Session
	res Result[T]
}

// Start wraps an existing result into a chain bound to s.
func Start[T any](s Session, res Result[T]) Chain[T] {
	return Chain[T]{s: s, res: res}
}

// From starts a successful chain carrying v.
func From[T any](s Session, v T) Chain[T] {
	return Chain[T]{s: s, res: Success(v)}
}

// Result returns the chain's terminal outcome.
func (c Chain[T]) Result() Result[T] {
	return c.res
}

// Session returns the session the chain executes against.
func (c Chain[T]) Session() Session {
	return c.s
}

// Unit discards the carried value, preserving success or failure.
func (c Chain[T]) Unit() Chain[Unit] {
	return Chain[Unit]{s: c.s, res: Discard(c.res)}
}

// exec runs one pass-through statement step. run gates the step as a whole;
// pred (when non-nil) gates it on the carried value and is evaluated exactly
// once, only after the upstream outcome is known successful. A skipped step
// is indistinguishable from one that trivially succeeded.
func (c Chain[T]) exec(v verb, run bool, pred func(T) bool, sql string, argsOf func(T) []any, opts []ExecOption) Chain[T] {
	if c.res.IsFailure() || !run {
		return c
	}
	val := c.res.Value()
	if pred != nil && !pred(val) {
		return c
	}
	if _, err := c.s.run(v, sql, argsOf(val), opts); err != nil {
		return Chain[T]{s: c.s, res: Fail[T](err)}
	}
	return c
}

func literal[T any](args []any) func(T) []any {
	return func(T) []any { return args }
}

// ThenInsert executes an insert and passes the carried value through
// unchanged on success.
func (c Chain[T]) ThenInsert(sql string, args []any, opts ...ExecOption) Chain[T] {
	return c.exec(verbInsert, true, nil, sql, literal[T](args), opts)
}

// ThenInsertFrom is ThenInsert with parameters derived from the carried
// value. argsOf is only invoked when the step actually executes.
func (c Chain[T]) ThenInsertFrom(sql string, argsOf func(T) []any, opts ...ExecOption) Chain[T] {
	return c.exec(verbInsert, true, nil, sql, argsOf, opts)
}

// ThenInsertIf executes the insert only when when is true; a false gate
// passes the carried value through without issuing SQL.
func (c Chain[T]) ThenInsertIf(when bool, sql string, args []any, opts ...ExecOption) Chain[T] {
	return c.exec(verbInsert, when, nil, sql, literal[T](args), opts)
}

// ThenInsertWhen gates the insert on a predicate over the carried value,
// evaluated exactly once and only when the chain is still successful.
func (c Chain[T]) ThenInsertWhen(pred func(T) bool, sql string, argsOf func(T) []any, opts ...ExecOption) Chain[T] {
	return c.exec(verbInsert, true, pred, sql, argsOf, opts)
}

// ThenUpdate executes an update and passes the carried value through
// unchanged on success.
func (c Chain[T]) ThenUpdate(sql string, args []any, opts ...ExecOption) Chain[T] {
	return c.exec(verbUpdate, true, nil, sql, literal[T](args), opts)
}

// ThenUpdateFrom is ThenUpdate with parameters derived from the carried value.
func (c Chain[T]) ThenUpdateFrom(sql string, argsOf func(T) []any, opts ...ExecOption) Chain[T] {
	return c.exec(verbUpdate, true, nil, sql, argsOf, opts)
}

// ThenUpdateIf executes the update only when when is true.
func (c Chain[T]) ThenUpdateIf(when bool, sql string, args []any, opts ...ExecOption) Chain[T] {
	return c.exec(verbUpdate, when, nil, sql, literal[T](args), opts)
}

// ThenUpdateWhen gates the update on a predicate over the carried value.
func (c Chain[T]) ThenUpdateWhen(pred func(T) bool, sql string, argsOf func(T) []any, opts ...ExecOption) Chain[T] {
	return c.exec(verbUpdate, true, pred, sql, argsOf, opts)
}

// ThenDelete executes a delete and passes the carried value through
// unchanged on success.
func (c Chain[T]) ThenDelete(sql string, args []any, opts ...ExecOption) Chain[T] {
	return c.exec(verbDelete, true, nil, sql, literal[T](args), opts)
}

// ThenDeleteFrom is ThenDelete with parameters derived from the carried value.
func (c Chain[T]) ThenDeleteFrom(sql string, argsOf func(T) []any, opts ...ExecOption) Chain[T] {
	return c.exec(verbDelete, true, nil, sql, argsOf, opts)
}

// ThenDeleteIf executes the delete only when when is true.
func (c Chain[T]) ThenDeleteIf(when bool, sql string, args []any, opts ...ExecOption) Chain[T] {
	return c.exec(verbDelete, when, nil, sql, literal[T](args), opts)
}

// ThenDeleteWhen gates the delete on a predicate over the carried value.
func (c Chain[T]) ThenDeleteWhen(pred func(T) bool, sql string, argsOf func(T) []any, opts ...ExecOption) Chain[T] {
	return c.exec(verbDelete, true, pred, sql, argsOf, opts)
}

// Ensure converts the chain to a failure carrying err when pred over the
// carried value is false. It is a pass-through when pred is true and is
// never evaluated after an upstream failure.
func (c Chain[T]) Ensure(pred func(T) bool, err error) Chain[T] {
	if c.res.IsFailure() {
		return c
	}
	if !pred(c.res.Value()) {
		if err == nil {
			err = NewError(KindValidation, "validation failed")
		}
		return Chain[T]{s: c.s, res: Fail[T](err)}
	}
	return c
}

// EnsureMsg is Ensure with a KindValidation error built from msg.
func (c Chain[T]) EnsureMsg(pred func(T) bool, msg string) Chain[T] {
	return c.Ensure(pred, NewError(KindValidation, msg))
}
