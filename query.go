package chainq

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// RowScanner maps one database row to a value of type T.
type RowScanner[T any] func(Row) (T, error)

// asError passes *Error values through untouched and wraps anything else
// (scan failures, mapper failures) as an unclassified query error.
func asError(msg string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return WrapError(KindUnknown, msg, err)
}

// scanAll reads rows through scan, stopping after limit items when limit > 0.
// It always closes rows and returns a non-nil slice.
func scanAll[T any](rows Rows, scan RowScanner[T], limit int) ([]T, error) {
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, asError("failed to scan row", err)
		}
		out = append(out, v)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, asError("error during row iteration", err)
	}
	return out, nil
}

// query runs one row-returning statement with logging.
func query(s Session, op, sql string, args []any) (Rows, error) {
	start := time.Now()
	rows, err := s.conn.Query(s.ctx, sql, args...)
	s.logStmt(op, sql, start, err)
	return rows, err
}

// Get executes a strict single-row lookup. Zero rows fails with
// KindNotFound carrying key; more than one row is a query failure (use
// QueryOptional for first-row-wins semantics).
func Get[T any](s Session, sql string, key any, scan RowScanner[T], args ...any) Result[T] {
	rows, err := query(s, "get", sql, args)
	if err != nil {
		return Fail[T](err)
	}
	items, err := scanAll(rows, scan, 2)
	if err != nil {
		return Fail[T](err)
	}
	switch len(items) {
	case 0:
		return Fail[T](NotFoundError("record not found", key))
	case 1:
		return Success(items[0])
	default:
		return Fail[T](NewError(KindUnknown, "query returned more than one row"))
	}
}

// GetOptional is Get with domain emptiness instead of failure: zero rows
// succeeds with an empty Optional. More than one row is still a query
// failure.
func GetOptional[T any](s Session, sql string, scan RowScanner[T], args ...any) Result[Optional[T]] {
	rows, err := query(s, "get", sql, args)
	if err != nil {
		return Fail[Optional[T]](err)
	}
	items, err := scanAll(rows, scan, 2)
	if err != nil {
		return Fail[Optional[T]](err)
	}
	switch len(items) {
	case 0:
		return Success(None[T]())
	case 1:
		return Success(Some(items[0]))
	default:
		return Fail[Optional[T]](NewError(KindUnknown, "query returned more than one row"))
	}
}

// GetScalar returns the first column of the first row. Zero rows fails with
// KindNotFound carrying key.
func GetScalar[T any](s Session, sql string, key any, args ...any) Result[T] {
	start := time.Now()
	row := s.conn.QueryRow(s.ctx, sql, args...)
	var v T
	err := row.Scan(&v)
	s.logStmt("scalar", sql, start, err)
	if err != nil {
		if IsNotFound(err) {
			return Fail[T](NotFoundError("record not found", key))
		}
		return Fail[T](asError("failed to scan scalar", err))
	}
	return Success(v)
}

// QueryOptional executes a relaxed single-row lookup: the first row of
// however many are returned wins, and zero rows succeeds with an empty
// Optional.
func QueryOptional[T any](s Session, sql string, scan RowScanner[T], args ...any) Result[Optional[T]] {
	rows, err := query(s, "query", sql, args)
	if err != nil {
		return Fail[Optional[T]](err)
	}
	items, err := scanAll(rows, scan, 1)
	if err != nil {
		return Fail[Optional[T]](err)
	}
	if len(items) == 0 {
		return Success(None[T]())
	}
	return Success(Some(items[0]))
}

// QueryAny returns all matching rows in order. Zero rows succeeds with an
// empty slice.
func QueryAny[T any](s Session, sql string, scan RowScanner[T], args ...any) Result[[]T] {
	rows, err := query(s, "query", sql, args)
	if err != nil {
		return Fail[[]T](err)
	}
	items, err := scanAll(rows, scan, 0)
	if err != nil {
		return Fail[[]T](err)
	}
	return Success(items)
}

// QueryPaged builds an offset-paginated page from a query whose SQL already
// selects the right window. total is the caller-precomputed item count
// across all pages; page is 1-based.
func QueryPaged[T any](s Session, sql string, total int64, size, page int, scan RowScanner[T], args ...any) Result[Paged[T]] {
	if err := checkPage(size, page); err != nil {
		return Fail[Paged[T]](err)
	}
	rows, err := query(s, "paged", sql, args)
	if err != nil {
		return Fail[Paged[T]](err)
	}
	items, err := scanAll(rows, scan, size)
	if err != nil {
		return Fail[Paged[T]](err)
	}
	return Success(Paged[T]{Items: items, Total: total, Size: size, Page: page})
}

// offsetClauseRe matches the OFFSET keyword as a whole word, so identifiers
// like byte_offset do not count as an existing clause.
var offsetClauseRe = regexp.MustCompile(`(?i)\boffset\b`)

// GetPaged executes a combined count+data batch: the first result set must
// yield the total item count as a scalar, the second the page's rows. The
// page size and the computed offset (page-1)*size are appended to args; a
// "LIMIT … OFFSET …" clause referencing them is appended to the batch text
// only when the caller's SQL does not already contain the OFFSET keyword.
func GetPaged[T any](s Session, sql string, size, page int, scan RowScanner[T], args ...any) Result[Paged[T]] {
	if err := checkPage(size, page); err != nil {
		return Fail[Paged[T]](err)
	}
	offset := (page - 1) * size
	if !offsetClauseRe.MatchString(sql) {
		d := s.conn.Dialect()
		sql = fmt.Sprintf("%s LIMIT %s OFFSET %s",
			sql, d.Placeholder(len(args)+1), d.Placeholder(len(args)+2))
	}
	args = append(args, size, offset)

	start := time.Now()
	b, err := s.conn.QueryBatch(s.ctx, sql, args...)
	s.logStmt("paged", sql, start, err)
	if err != nil {
		return Fail[Paged[T]](err)
	}
	defer b.Close()

	var total int64
	if !b.Next() {
		return Fail[Paged[T]](batchErr(b, "count result set returned no rows"))
	}
	if err := b.Scan(&total); err != nil {
		return Fail[Paged[T]](asError("failed to scan total count", err))
	}
	if !b.NextResultSet() {
		return Fail[Paged[T]](batchErr(b, "batch is missing the data result set"))
	}

	items := make([]T, 0, size)
	for b.Next() {
		v, err := scan(b)
		if err != nil {
			return Fail[Paged[T]](asError("failed to scan row", err))
		}
		items = append(items, v)
	}
	if err := b.Err(); err != nil {
		return Fail[Paged[T]](asError("error during row iteration", err))
	}
	return Success(Paged[T]{Items: items, Total: total, Size: size, Page: page})
}

// QueryCursor executes a keyset-paginated fetch. The SQL must order rows by
// (sort column, unique id); cursorOf extracts that pair from a scanned item.
// One row beyond size is read to detect whether more rows exist; when it is,
// the extra row is dropped and the continuation cursor is taken from the
// last kept row.
func QueryCursor[T any](s Session, sql string, size int, cursorOf func(T) (sortKey, id any), scan RowScanner[T], args ...any) Result[CursorPage[T]] {
	if size < 1 {
		return Fail[CursorPage[T]](NewError(KindValidation, "page size must be at least 1"))
	}
	rows, err := query(s, "cursor", sql, args)
	if err != nil {
		return Fail[CursorPage[T]](err)
	}
	items, err := scanAll(rows, scan, size+1)
	if err != nil {
		return Fail[CursorPage[T]](err)
	}
	page := CursorPage[T]{Items: items}
	if len(items) > size {
		page.Items = items[:size]
		page.HasMore = true
		key, id := cursorOf(page.Items[size-1])
		page.Next = &Cursor{SortKey: key, ID: id}
	}
	return Success(page)
}

// QuerySlice executes a bounded fetch of size rows plus a "more rows exist"
// probe, with no other navigation metadata.
func QuerySlice[T any](s Session, sql string, size int, scan RowScanner[T], args ...any) Result[Slice[T]] {
	if size < 1 {
		return Fail[Slice[T]](NewError(KindValidation, "page size must be at least 1"))
	}
	rows, err := query(s, "slice", sql, args)
	if err != nil {
		return Fail[Slice[T]](err)
	}
	items, err := scanAll(rows, scan, size+1)
	if err != nil {
		return Fail[Slice[T]](err)
	}
	sl := Slice[T]{Items: items}
	if len(items) > size {
		sl.Items = items[:size]
		sl.HasMore = true
	}
	return Success(sl)
}

// runBatch executes a multi-result-set batch and hands the reader to mapper.
func runBatch[T any](s Session, sql string, mapper func(Batches) (T, error), args []any) (T, error) {
	var zero T
	start := time.Now()
	b, err := s.conn.QueryBatch(s.ctx, sql, args...)
	s.logStmt("batch", sql, start, err)
	if err != nil {
		return zero, err
	}
	defer b.Close()
	v, err := mapper(b)
	if err != nil {
		return zero, asError("batch mapper failed", err)
	}
	return v, nil
}

// MultipleGet executes one batch yielding several result sets and lets
// mapper consume them through the forward-only reader. An empty mapped
// value fails with KindNotFound carrying keys.
func MultipleGet[T any](s Session, sql string, keys any, mapper func(Batches) (Optional[T], error), args ...any) Result[T] {
	opt, err := runBatch(s, sql, mapper, args)
	if err != nil {
		return Fail[T](err)
	}
	v, ok := opt.Get()
	if !ok {
		return Fail[T](NotFoundError("record not found", keys))
	}
	return Success(v)
}

// MultipleGetOptional is MultipleGet with domain emptiness instead of
// failure: an empty mapped value succeeds with an empty Optional.
func MultipleGetOptional[T any](s Session, sql string, mapper func(Batches) (Optional[T], error), args ...any) Result[Optional[T]] {
	opt, err := runBatch(s, sql, mapper, args)
	if err != nil {
		return Fail[Optional[T]](err)
	}
	return Success(opt)
}

// MultipleQueryAny executes one batch and returns whatever list the mapper
// assembles from its result sets.
func MultipleQueryAny[T any](s Session, sql string, mapper func(Batches) ([]T, error), args ...any) Result[[]T] {
	items, err := runBatch(s, sql, mapper, args)
	if err != nil {
		return Fail[[]T](err)
	}
	if items == nil {
		items = make([]T, 0)
	}
	return Success(items)
}

func checkPage(size, page int) error {
	if size < 1 {
		return NewError(KindValidation, "page size must be at least 1")
	}
	if page < 1 {
		return NewError(KindValidation, "page number must be at least 1")
	}
	return nil
}

func batchErr(b Batches, msg string) error {
	if err := b.Err(); err != nil {
		return asError(msg, err)
	}
	return NewError(KindUnknown, msg)
}
