package datatable

import (
	"slices"
)

// Options configures a Table.
//
// A non-nil On*Change callback makes that slice of state controlled: the
// table reports the requested value to the callback and leaves its own state
// untouched until the owner pushes it back with SetState. Without a callback
// the table applies the change itself.
type Options[T any] struct {
	Columns []Column[T]
	Data    []T
	State   State

	// Manual* disable the engine's own row processing for data that was
	// already paginated, sorted or filtered by a remote source.
	ManualPagination bool
	ManualSorting    bool
	ManualFiltering  bool

	// PageCount is the externally reported page count (ManualPagination only).
	PageCount int

	OnPaginationChange   func(Pagination)
	OnSortingChange      func(Sorting)
	OnGlobalFilterChange func(string)

	// FilterFn replaces MatchesAny as the global filter.
	FilterFn func(row T, columns []Column[T], filter string) bool
}

// Table is a headless table engine holding rows and table state.
type Table[T any] struct {
	opts  Options[T]
	state State
	model *rowModel[T]
}

type rowModel[T any] struct {
	filtered []T
	sorted   []T
	page     []T
}

// New creates a table engine.
func New[T any](opts Options[T]) *Table[T] {
	state := opts.State.clone()
	if state.Pagination.PageSize < 1 {
		state.Pagination.PageSize = DefaultPageSize
	}
	state.Pagination = state.Pagination.normalized()
	return &Table[T]{opts: opts, state: state}
}

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 10

func (t *Table[T]) Columns() []Column[T] { return t.opts.Columns }

// Column returns the column with the given id.
func (t *Table[T]) Column(id string) (Column[T], bool) {
	i := slices.IndexFunc(t.opts.Columns, func(c Column[T]) bool { return c.ID == id })
	if i < 0 {
		return Column[T]{}, false
	}
	return t.opts.Columns[i], true
}

func (t *Table[T]) State() State { return t.state.clone() }

// SetState replaces the table state. Owners of controlled state call this
// after handling an On*Change callback.
func (t *Table[T]) SetState(s State) {
	s = s.clone()
	s.Pagination = s.Pagination.normalized()
	t.state = s
	t.model = nil
}

// SetData replaces the rows. For manual pagination this is the fetched page.
func (t *Table[T]) SetData(rows []T) {
	t.opts.Data = rows
	t.model = nil
}

func (t *Table[T]) Data() []T { return t.opts.Data }

// SetPageCount updates the externally reported page count.
func (t *Table[T]) SetPageCount(n int) {
	if n < 0 {
		n = 0
	}
	t.opts.PageCount = n
}

func (t *Table[T]) IsManualPagination() bool { return t.opts.ManualPagination }

// SetPagination requests a new pagination state.
func (t *Table[T]) SetPagination(p Pagination) {
	p = p.normalized()
	if t.opts.OnPaginationChange != nil {
		t.opts.OnPaginationChange(p)
		return
	}
	t.state.Pagination = p
	t.model = nil
}

func (t *Table[T]) SetPageIndex(i int) {
	p := t.state.Pagination
	p.PageIndex = i
	t.SetPagination(p)
}

// SetPageSize changes the page size keeping the first visible row on screen.
func (t *Table[T]) SetPageSize(n int) {
	if n < 1 {
		n = 1
	}
	p := t.state.Pagination
	top := p.PageIndex * p.PageSize
	p.PageSize = n
	p.PageIndex = top / n
	t.SetPagination(p)
}

func (t *Table[T]) CanPreviousPage() bool {
	return t.state.Pagination.PageIndex > 0
}

func (t *Table[T]) CanNextPage() bool {
	return t.state.Pagination.PageIndex+1 < t.PageCount()
}

func (t *Table[T]) NextPage() {
	if t.CanNextPage() {
		t.SetPageIndex(t.state.Pagination.PageIndex + 1)
	}
}

func (t *Table[T]) PreviousPage() {
	if t.CanPreviousPage() {
		t.SetPageIndex(t.state.Pagination.PageIndex - 1)
	}
}

// PageCount returns the external count for manual pagination, otherwise the
// number of pages over the filtered rows.
func (t *Table[T]) PageCount() int {
	if t.opts.ManualPagination {
		return t.opts.PageCount
	}
	n := len(t.rows().sorted)
	size := t.state.Pagination.PageSize
	return (n + size - 1) / size
}

// SetGlobalFilter requests a new filter value and resets the page index to 0
// in the same call.
func (t *Table[T]) SetGlobalFilter(v string) {
	if t.opts.OnGlobalFilterChange != nil {
		t.opts.OnGlobalFilterChange(v)
	} else {
		t.state.GlobalFilter = v
		t.model = nil
	}
	if t.state.Pagination.PageIndex != 0 {
		t.SetPageIndex(0)
	}
}

// SetSorting requests a new sort order.
func (t *Table[T]) SetSorting(s Sorting) {
	s = append(Sorting(nil), s...)
	if t.opts.OnSortingChange != nil {
		t.opts.OnSortingChange(s)
		return
	}
	t.state.Sorting = s
	t.model = nil
}

// SortDirection reports the current direction of a column.
func (t *Table[T]) SortDirection(columnID string) SortDirection {
	return t.state.Sorting.Direction(columnID)
}

// ToggleSorting advances columnID through none -> asc -> desc -> none,
// replacing any other sort key. Unknown or unsortable columns are ignored.
func (t *Table[T]) ToggleSorting(columnID string) {
	col, ok := t.Column(columnID)
	if !ok || !col.Sortable {
		return
	}
	switch t.SortDirection(columnID).next() {
	case SortAsc:
		t.SetSorting(Sorting{{ColumnID: columnID}})
	case SortDesc:
		t.SetSorting(Sorting{{ColumnID: columnID, Desc: true}})
	default:
		t.SetSorting(nil)
	}
}

// FilteredRowCount is the number of rows after the global filter.
func (t *Table[T]) FilteredRowCount() int {
	return len(t.rows().filtered)
}

// SortedRows returns every filtered row in display order, across all pages.
func (t *Table[T]) SortedRows() []T {
	return t.rows().sorted
}

// PageRows returns the rows of the current page.
func (t *Table[T]) PageRows() []T {
	return t.rows().page
}

func (t *Table[T]) rows() *rowModel[T] {
	if t.model != nil {
		return t.model
	}

	data := t.opts.Data
	m := &rowModel[T]{}

	if t.opts.ManualFiltering || t.state.GlobalFilter == "" {
		m.filtered = data
	} else {
		match := t.opts.FilterFn
		if match == nil {
			match = MatchesAny[T]
		}
		m.filtered = make([]T, 0, len(data))
		for _, row := range data {
			if match(row, t.opts.Columns, t.state.GlobalFilter) {
				m.filtered = append(m.filtered, row)
			}
		}
	}

	m.sorted = m.filtered
	if !t.opts.ManualSorting && len(t.state.Sorting) > 0 {
		m.sorted = slices.Clone(m.filtered)
		slices.SortStableFunc(m.sorted, t.compareRows)
	}

	m.page = m.sorted
	if !t.opts.ManualPagination {
		p := t.state.Pagination
		start := min(p.PageIndex*p.PageSize, len(m.sorted))
		end := min(start+p.PageSize, len(m.sorted))
		m.page = m.sorted[start:end]
	}

	t.model = m
	return m
}

func (t *Table[T]) compareRows(a, b T) int {
	for _, key := range t.state.Sorting {
		col, ok := t.Column(key.ColumnID)
		if !ok {
			continue
		}
		c := col.compare(a, b)
		if key.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}
