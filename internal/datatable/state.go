// Package datatable is the tabular core of caredash: a headless table engine
// (sorting, global filtering, pagination), a dynamic page-size calculator, and
// a Controller that renders one table UI over either caller-owned state
// (server-driven pages) or its own state (in-memory rows).
package datatable

// SortDirection is the sort state of a single column.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

func (d SortDirection) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return ""
	}
}

// Indicator is the header suffix shown for the direction.
func (d SortDirection) Indicator() string {
	switch d {
	case SortAsc:
		return " ↑"
	case SortDesc:
		return " ↓"
	default:
		return ""
	}
}

// next advances the toggle cycle none -> asc -> desc -> none.
func (d SortDirection) next() SortDirection {
	switch d {
	case SortNone:
		return SortAsc
	case SortAsc:
		return SortDesc
	default:
		return SortNone
	}
}

type SortKey struct {
	ColumnID string
	Desc     bool
}

// Sorting is an ordered list of sort keys. Only the first key is used by the
// controller (single-column sort), but the engine honours all of them.
type Sorting []SortKey

// Direction returns the direction of columnID within s.
func (s Sorting) Direction(columnID string) SortDirection {
	for _, k := range s {
		if k.ColumnID == columnID {
			if k.Desc {
				return SortDesc
			}
			return SortAsc
		}
	}
	return SortNone
}

// Primary returns the first sort key, if any.
func (s Sorting) Primary() (SortKey, bool) {
	if len(s) == 0 {
		return SortKey{}, false
	}
	return s[0], true
}

type Pagination struct {
	PageIndex int
	PageSize  int
}

func (p Pagination) normalized() Pagination {
	if p.PageIndex < 0 {
		p.PageIndex = 0
	}
	if p.PageSize < 1 {
		p.PageSize = 1
	}
	return p
}

// State is everything a table interaction can change.
type State struct {
	Sorting      Sorting
	Pagination   Pagination
	GlobalFilter string
}

func (s State) clone() State {
	s.Sorting = append(Sorting(nil), s.Sorting...)
	return s
}
