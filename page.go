package chainq

// Paged is one page of an offset-paginated query plus navigation metadata.
// Page numbers are 1-based; Items never exceeds Size entries.
type Paged[T any] struct {
	Items []T
	Total int64 // item count across all pages
	Size  int
	Page  int
}

// Pages returns the total page count implied by Total and Size.
func (p Paged[T]) Pages() int64 {
	if p.Size <= 0 {
		return 0
	}
	return (p.Total + int64(p.Size) - 1) / int64(p.Size)
}

// Cursor is the continuation point of a keyset-paginated query: the sort
// column value of the last returned row plus its unique id as a tie-break.
// The id guarantees a total order even when the sort column has duplicates.
type Cursor struct {
	SortKey any
	ID      any
}

// CursorPage is one page of a keyset-paginated query. Next is non-nil
// exactly when HasMore is true.
type CursorPage[T any] struct {
	Items   []T
	Next    *Cursor
	HasMore bool
}

// Slice is a bounded fetch with a "more rows exist" flag and no other
// navigation metadata. The underlying fetch reads one row beyond the page
// size purely to detect whether more rows exist.
type Slice[T any] struct {
	Items   []T
	HasMore bool
}
