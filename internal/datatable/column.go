package datatable

import "strings"

// Column describes one table column. The engine reads Value for filtering and
// default sorting; the controller reads Header, Width and Value for rendering.
type Column[T any] struct {
	ID     string
	Header string
	Width  int
	Value  func(row T) string

	// Compare overrides the default case-insensitive text ordering.
	Compare  func(a, b T) int
	Sortable bool
}

func (c Column[T]) cell(row T) string {
	if c.Value == nil {
		return ""
	}
	return c.Value(row)
}

func (c Column[T]) compare(a, b T) int {
	if c.Compare != nil {
		return c.Compare(a, b)
	}
	return strings.Compare(strings.ToLower(c.cell(a)), strings.ToLower(c.cell(b)))
}

// MatchesAny is the default global filter: a case-insensitive substring match
// against any column's value.
func MatchesAny[T any](row T, columns []Column[T], filter string) bool {
	if filter == "" {
		return true
	}
	needle := strings.ToLower(filter)
	for _, col := range columns {
		if strings.Contains(strings.ToLower(col.cell(row)), needle) {
			return true
		}
	}
	return false
}
