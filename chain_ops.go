package chainq

// Type-changing combinators live here as package-level generic functions
// taking the chain as their first argument, since Go methods cannot
// introduce new type parameters.

// step short-circuits on an upstream failure, otherwise runs f with the
// carried value.
func step[T, U any](c Chain[T], f func(Session, T) Result[U]) Chain[U] {
	if c.res.IsFailure() {
		return Chain[U]{s: c.s, res: failFrom[T, U](c.res)}
	}
	return Chain[U]{s: c.s, res: f(c.s, c.res.Value())}
}

// Map replaces the carried value with fn applied to it.
func Map[T, U any](c Chain[T], fn func(T) U) Chain[U] {
	return step(c, func(_ Session, v T) Result[U] {
		return Success(fn(v))
	})
}

// TryMap replaces the carried value with fn applied to it; an error
// returned by fn becomes the chain's failure.
func TryMap[T, U any](c Chain[T], fn func(T) (U, error)) Chain[U] {
	return step(c, func(_ Session, v T) Result[U] {
		u, err := fn(v)
		if err != nil {
			return Fail[U](err)
		}
		return Success(u)
	})
}

// execReturning runs one statement and, on success, replaces the carried
// value with sel applied to the original carried value. The statement's own
// result is discarded: the returned value is always caller-computed.
func execReturning[T, U any](c Chain[T], v verb, sql string, sel func(T) U, argsOf func(T) []any, opts []ExecOption) Chain[U] {
	return step(c, func(s Session, val T) Result[U] {
		if _, err := s.run(v, sql, argsOf(val), opts); err != nil {
			return Fail[U](err)
		}
		return Success(sel(val))
	})
}

// ThenInsertReturning executes an insert and replaces the carried value with
// sel applied to the original carried value.
func ThenInsertReturning[T, U any](c Chain[T], sql string, sel func(T) U, args []any, opts ...ExecOption) Chain[U] {
	return execReturning(c, verbInsert, sql, sel, literal[T](args), opts)
}

// ThenInsertReturningFrom is ThenInsertReturning with parameters derived
// from the carried value.
func ThenInsertReturningFrom[T, U any](c Chain[T], sql string, sel func(T) U, argsOf func(T) []any, opts ...ExecOption) Chain[U] {
	return execReturning(c, verbInsert, sql, sel, argsOf, opts)
}

// ThenUpdateReturning executes an update and replaces the carried value with
// sel applied to the original carried value.
func ThenUpdateReturning[T, U any](c Chain[T], sql string, sel func(T) U, args []any, opts ...ExecOption) Chain[U] {
	return execReturning(c, verbUpdate, sql, sel, literal[T](args), opts)
}

// ThenUpdateReturningFrom is ThenUpdateReturning with parameters derived
// from the carried value.
func ThenUpdateReturningFrom[T, U any](c Chain[T], sql string, sel func(T) U, argsOf func(T) []any, opts ...ExecOption) Chain[U] {
	return execReturning(c, verbUpdate, sql, sel, argsOf, opts)
}

// ThenDeleteReturning executes a delete and replaces the carried value with
// sel applied to the original carried value.
func ThenDeleteReturning[T, U any](c Chain[T], sql string, sel func(T) U, args []any, opts ...ExecOption) Chain[U] {
	return execReturning(c, verbDelete, sql, sel, literal[T](args), opts)
}

// ThenDeleteReturningFrom is ThenDeleteReturning with parameters derived
// from the carried value.
func ThenDeleteReturningFrom[T, U any](c Chain[T], sql string, sel func(T) U, argsOf func(T) []any, opts ...ExecOption) Chain[U] {
	return execReturning(c, verbDelete, sql, sel, argsOf, opts)
}

// ThenInsertEntity inserts with entity as the parameter source (through
// bind) and hands the same entity back as the new carried value: the
// common "insert the object and return it" case without duplicate
// literals. Thin wrapper over ThenInsertReturning.
func ThenInsertEntity[T, U any](c Chain[T], sql string, entity U, bind func(U) []any, opts ...ExecOption) Chain[U] {
	return execReturning(c, verbInsert, sql, func(T) U { return entity }, func(T) []any { return bind(entity) }, opts)
}

// ThenUpdateEntity is ThenInsertEntity for updates.
func ThenUpdateEntity[T, U any](c Chain[T], sql string, entity U, bind func(U) []any, opts ...ExecOption) Chain[U] {
	return execReturning(c, verbUpdate, sql, func(T) U { return entity }, func(T) []any { return bind(entity) }, opts)
}

// ThenDeleteEntity is ThenInsertEntity for deletes: the entity keys the
// delete and stays available to later steps, e.g. for archival.
func ThenDeleteEntity[T, U any](c Chain[T], sql string, entity U, bind func(U) []any, opts ...ExecOption) Chain[U] {
	return execReturning(c, verbDelete, sql, func(T) U { return entity }, func(T) []any { return bind(entity) }, opts)
}

// ThenInsertCount executes an insert and carries the affected-row count.
func (c Chain[T]) ThenInsertCount(sql string, args []any, opts ...ExecOption) Chain[int64] {
	return step(c, func(s Session, _ T) Result[int64] {
		return s.InsertCount(sql, args, opts...)
	})
}

// ThenUpdateCount executes an update and carries the affected-row count.
// Zero affected rows is a valid, non-error result.
func (c Chain[T]) ThenUpdateCount(sql string, args []any, opts ...ExecOption) Chain[int64] {
	return step(c, func(s Session, _ T) Result[int64] {
		return s.UpdateCount(sql, args, opts...)
	})
}

// ThenDeleteCount executes a delete and carries the affected-row count.
func (c Chain[T]) ThenDeleteCount(sql string, args []any, opts ...ExecOption) Chain[int64] {
	return step(c, func(s Session, _ T) Result[int64] {
		return s.DeleteCount(sql, args, opts...)
	})
}

// ThenGet replaces the carried value with a strict single-row lookup.
func ThenGet[T, U any](c Chain[T], sql string, key any, scan RowScanner[U], args ...any) Chain[U] {
	return step(c, func(s Session, _ T) Result[U] {
		return Get(s, sql, key, scan, args...)
	})
}

// ThenGetFrom is ThenGet with the lookup key and parameters derived from
// the carried value.
func ThenGetFrom[T, U any](c Chain[T], sql string, keyOf func(T) any, scan RowScanner[U], argsOf func(T) []any) Chain[U] {
	return step(c, func(s Session, v T) Result[U] {
		return Get(s, sql, keyOf(v), scan, argsOf(v)...)
	})
}

// ThenGetOptional replaces the carried value with a strict lookup that
// tolerates zero rows.
func ThenGetOptional[T, U any](c Chain[T], sql string, scan RowScanner[U], args ...any) Chain[Optional[U]] {
	return step(c, func(s Session, _ T) Result[Optional[U]] {
		return GetOptional(s, sql, scan, args...)
	})
}

// ThenGetScalar replaces the carried value with the first column of the
// first row.
func ThenGetScalar[T, U any](c Chain[T], sql string, key any, args ...any) Chain[U] {
	return step(c, func(s Session, _ T) Result[U] {
		return GetScalar[U](s, sql, key, args...)
	})
}

// ThenQueryAny replaces the carried value with all matching rows.
func ThenQueryAny[T, U any](c Chain[T], sql string, scan RowScanner[U], args ...any) Chain[[]U] {
	return step(c, func(s Session, _ T) Result[[]U] {
		return QueryAny(s, sql, scan, args...)
	})
}

// ThenQueryAnyFrom is ThenQueryAny with parameters derived from the carried
// value.
func ThenQueryAnyFrom[T, U any](c Chain[T], sql string, scan RowScanner[U], argsOf func(T) []any) Chain[[]U] {
	return step(c, func(s Session, v T) Result[[]U] {
		return QueryAny(s, sql, scan, argsOf(v)...)
	})
}

// ThenGetPaged replaces the carried value with an offset-paginated page
// built from a count+data batch.
func ThenGetPaged[T, U any](c Chain[T], sql string, size, page int, scan RowScanner[U], args ...any) Chain[Paged[U]] {
	return step(c, func(s Session, _ T) Result[Paged[U]] {
		return GetPaged(s, sql, size, page, scan, args...)
	})
}

// ThenQueryCursor replaces the carried value with a keyset-paginated page.
func ThenQueryCursor[T, U any](c Chain[T], sql string, size int, cursorOf func(U) (sortKey, id any), scan RowScanner[U], args ...any) Chain[CursorPage[U]] {
	return step(c, func(s Session, _ T) Result[CursorPage[U]] {
		return QueryCursor(s, sql, size, cursorOf, scan, args...)
	})
}

// ThenQuerySlice replaces the carried value with a bounded slice fetch.
func ThenQuerySlice[T, U any](c Chain[T], sql string, size int, scan RowScanner[U], args ...any) Chain[Slice[U]] {
	return step(c, func(s Session, _ T) Result[Slice[U]] {
		return QuerySlice(s, sql, size, scan, args...)
	})
}

// ThenMultipleGet replaces the carried value with the result of a
// multi-result-set batch consumed by mapper.
func ThenMultipleGet[T, U any](c Chain[T], sql string, keys any, mapper func(Batches) (Optional[U], error), args ...any) Chain[U] {
	return step(c, func(s Session, _ T) Result[U] {
		return MultipleGet(s, sql, keys, mapper, args...)
	})
}

// ThenMultipleGetOptional is ThenMultipleGet tolerating an empty mapped
// value.
func ThenMultipleGetOptional[T, U any](c Chain[T], sql string, mapper func(Batches) (Optional[U], error), args ...any) Chain[Optional[U]] {
	return step(c, func(s Session, _ T) Result[Optional[U]] {
		return MultipleGetOptional(s, sql, mapper, args...)
	})
}

// ThenMultipleQueryAny replaces the carried value with the list assembled
// by mapper from the batch's result sets.
func ThenMultipleQueryAny[T, U any](c Chain[T], sql string, mapper func(Batches) ([]U, error), args ...any) Chain[[]U] {
	return step(c, func(s Session, _ T) Result[[]U] {
		return MultipleQueryAny(s, sql, mapper, args...)
	})
}
