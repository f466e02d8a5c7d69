package datatable

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/paginator"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/caredash/caredash/internal/log"
	"github.com/caredash/caredash/internal/ui"
)

const (
	// ChromeLines is the number of lines the controller draws around the rows:
	// search line, header row, header rule and footer.
	ChromeLines = 4

	NoResultsText     = "No results."
	SearchPlaceholder = "search..."

	defaultColumnWidth = 12
)

type options struct {
	rowHeight       int
	defaultPageSize int
	probe           Container
}

// Option configures a Controller.
type Option func(*options)

// WithRowHeight sets the height of one row in lines.
func WithRowHeight(n int) Option {
	return func(o *options) { o.rowHeight = n }
}

// WithDefaultPageSize sets the page size used until the rows area is measured.
func WithDefaultPageSize(n int) Option {
	return func(o *options) { o.defaultPageSize = n }
}

// WithProbe measures the rows area before the first SetSize call.
func WithProbe(c Container) Option {
	return func(o *options) { o.probe = c }
}

// HeaderCell is one rendered column header.
type HeaderCell struct {
	ColumnID string
	Label    string
	Sort     SortDirection
	Sortable bool
}

// Frame is the mode-independent rendering contract: everything the table UI
// shows, computed from whichever side owns the state.
type Frame struct {
	Search      string
	Headers     []HeaderCell
	Rows        [][]string
	NoResults   bool
	Selected    int
	TotalItems  int
	PageIndex   int
	PageCount   int
	CanPrevious bool
	CanNext     bool
}

// Controller renders one table UI over either an External (caller-owned)
// or a SelfDriven (controller-owned) table. The mode is fixed at construction.
type Controller[T any] struct {
	columns []Column[T]
	mode    Mode
	table   *Table[T]
	ext     External[T]

	region  Region
	sizer   *PageSizer
	release func()

	search    textinput.Model
	searching bool
	cur       cursor
	pager     paginator.Model

	width   int
	height  int
	offsetY int
	styles  controllerStyles
}

// NewController detects the mode from src and starts observing the rows area.
// An External source without a table degrades to an empty self-driven table.
func NewController[T any](columns []Column[T], src Source[T], opts ...Option) *Controller[T] {
	o := options{rowHeight: 1, defaultPageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.defaultPageSize < 1 {
		o.defaultPageSize = 1
	}

	ti := textinput.New()
	ti.Placeholder = SearchPlaceholder
	ti.Prompt = "/"
	ti.CharLimit = 64

	pg := paginator.New()
	pg.Type = paginator.Arabic
	pg.ArabicFormat = "page %d of %d"

	c := &Controller[T]{
		columns: columns,
		search:  ti,
		pager:   pg,
		styles:  newControllerStyles(),
	}
	c.region.probe = o.probe

	var rows []T
	switch s := src.(type) {
	case External[T]:
		c.useExternal(s)
	case *External[T]:
		if s != nil {
			c.useExternal(*s)
		}
	case SelfDriven[T]:
		rows = s.Rows
	case *SelfDriven[T]:
		if s != nil {
			rows = s.Rows
		}
	}

	if c.table == nil {
		if src != nil && src.mode() == ModeExternal {
			log.Warn("external table source without a table, rendering empty")
		}
		c.mode = ModeSelfDriven
		c.table = New(Options[T]{
			Columns: columns,
			Data:    rows,
			State:   State{Pagination: Pagination{PageSize: o.defaultPageSize}},
		})
	}

	log.Debug("table controller mounted", "mode", c.mode.String(), "columns", len(columns))

	c.sizer = NewPageSizer(o.rowHeight, c.table.State().Pagination.PageSize, c.applyPageSize)
	c.release = c.sizer.Observe(&c.region)
	return c
}

func (c *Controller[T]) useExternal(s External[T]) {
	if s.Table == nil {
		return
	}
	c.mode = ModeExternal
	c.ext = s
	c.table = s.Table
}

func (c *Controller[T]) Mode() Mode { return c.mode }

// Table returns the engine the controller drives.
func (c *Controller[T]) Table() *Table[T] { return c.table }

// Close releases the size observation. Later resizes change nothing.
func (c *Controller[T]) Close() {
	if c.release != nil {
		c.release()
		c.release = nil
	}
}

// SetRows replaces the in-memory rows. It reports false in external mode,
// where the caller updates its own table.
func (c *Controller[T]) SetRows(rows []T) bool {
	if c.mode != ModeSelfDriven {
		return false
	}
	c.table.SetData(rows)
	p := c.table.State().Pagination
	if pc := c.table.PageCount(); p.PageIndex > 0 && p.PageIndex >= pc {
		c.table.SetPageIndex(max(0, pc-1))
	}
	c.clampCursor()
	return true
}

// DataChanged re-clamps the cursor after the caller replaced the page data
// of its external table.
func (c *Controller[T]) DataChanged() {
	c.clampCursor()
}

// SetSize gives the controller its area. The rows area is the height minus
// ChromeLines; measuring it may change the page size.
func (c *Controller[T]) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.search.SetWidth(max(10, width-4))
	c.region.Resize(height - ChromeLines)
	c.sizer.Resized()
	c.clampCursor()
}

// SetOffset sets the screen row where the controller starts, for mouse hits.
func (c *Controller[T]) SetOffset(y int) { c.offsetY = y }

// PageSize is the size last derived from the rows area.
func (c *Controller[T]) PageSize() int { return c.sizer.PageSize() }

func (c *Controller[T]) applyPageSize(n int) {
	if n == c.table.State().Pagination.PageSize {
		return
	}
	switch c.mode {
	case ModeExternal:
		if c.ext.OnPageSizeChange != nil {
			c.ext.OnPageSizeChange(n)
		}
	default:
		c.table.SetPageSize(n)
	}
}

// SearchValue returns the filter text from whichever side owns it.
func (c *Controller[T]) SearchValue() string {
	if c.mode == ModeExternal {
		if c.ext.SearchTerm != nil {
			return c.ext.SearchTerm()
		}
		return ""
	}
	return c.table.State().GlobalFilter
}

// SetSearch updates the filter and moves back to the first page.
func (c *Controller[T]) SetSearch(v string) {
	if v == c.SearchValue() {
		return
	}
	if c.mode == ModeExternal {
		if c.ext.SetSearchTerm != nil {
			c.ext.SetSearchTerm(v)
		}
		if c.table.State().Pagination.PageIndex != 0 {
			c.table.SetPageIndex(0)
		}
	} else {
		c.table.SetGlobalFilter(v)
	}
	if c.search.Value() != v {
		c.search.SetValue(v)
	}
	c.cur.set(0, 0)
}

// ToggleSort cycles a column through unsorted, ascending and descending.
func (c *Controller[T]) ToggleSort(columnID string) {
	c.table.ToggleSorting(columnID)
	c.cur.set(0, 0)
}

func (c *Controller[T]) NextPage() {
	if !c.table.CanNextPage() {
		return
	}
	c.table.NextPage()
	c.cur.set(0, 0)
}

func (c *Controller[T]) PreviousPage() {
	if !c.table.CanPreviousPage() {
		return
	}
	c.table.PreviousPage()
	c.cur.set(0, 0)
}

// TotalItems is the authoritative item count: the caller's total in external
// mode, the filtered row count in self-driven mode.
func (c *Controller[T]) TotalItems() int {
	if c.mode == ModeExternal {
		if c.ext.TotalItems != nil {
			return c.ext.TotalItems()
		}
		return len(c.table.Data())
	}
	return c.table.FilteredRowCount()
}

// SelectedRow returns the highlighted row of the current page.
func (c *Controller[T]) SelectedRow() (T, bool) {
	rows := c.table.PageRows()
	if c.cur.pos < 0 || c.cur.pos >= len(rows) {
		var zero T
		return zero, false
	}
	return rows[c.cur.pos], true
}

// HasActiveInput reports whether the search box has focus.
func (c *Controller[T]) HasActiveInput() bool { return c.searching }

func (c *Controller[T]) FocusSearch() tea.Cmd {
	c.searching = true
	c.search.SetValue(c.SearchValue())
	c.search.CursorEnd()
	c.search.Focus()
	return textinput.Blink
}

func (c *Controller[T]) clampCursor() {
	c.cur.set(c.cur.pos, len(c.table.PageRows()))
}

// Frame computes the current rendering contract.
func (c *Controller[T]) Frame() Frame {
	p := c.table.State().Pagination
	f := Frame{
		Search:      c.SearchValue(),
		TotalItems:  c.TotalItems(),
		PageIndex:   p.PageIndex,
		PageCount:   c.table.PageCount(),
		CanPrevious: c.table.CanPreviousPage(),
		CanNext:     c.table.CanNextPage(),
		Selected:    c.cur.pos,
	}

	f.Headers = make([]HeaderCell, len(c.columns))
	for i, col := range c.columns {
		f.Headers[i] = HeaderCell{
			ColumnID: col.ID,
			Label:    col.Header,
			Sort:     c.table.SortDirection(col.ID),
			Sortable: col.Sortable,
		}
	}

	rows := c.table.PageRows()
	if len(rows) == 0 {
		f.NoResults = true
		f.Selected = -1
		return f
	}
	f.Rows = make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(c.columns))
		for j, col := range c.columns {
			cells[j] = col.cell(row)
		}
		f.Rows[i] = cells
	}
	return f
}

// Update handles search typing, sort toggles, paging and row movement.
func (c *Controller[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if c.searching {
			return c.updateSearch(msg)
		}
		return c.handleKey(msg)
	case tea.MouseClickMsg:
		if msg.Button == tea.MouseLeft && msg.Y == c.offsetY+1 {
			if id, ok := c.HeaderAt(msg.X); ok {
				c.ToggleSort(id)
			}
		}
	}
	return nil
}

func (c *Controller[T]) updateSearch(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "esc" || msg.Code == tea.KeyEscape || msg.String() == "enter" {
		c.searching = false
		c.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	c.search, cmd = c.search.Update(msg)
	c.SetSearch(c.search.Value())
	return cmd
}

func (c *Controller[T]) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "/":
		return c.FocusSearch()
	case "c":
		c.SetSearch("")
	case "]", "n", "right", "l", "pgdown":
		c.NextPage()
	case "[", "p", "left", "h", "pgup":
		c.PreviousPage()
	case "j", "down":
		c.cur.move(1, len(c.table.PageRows()))
	case "k", "up":
		c.cur.move(-1, len(c.table.PageRows()))
	case "g", "home":
		c.cur.set(0, len(c.table.PageRows()))
	case "G", "end":
		c.cur.set(len(c.table.PageRows())-1, len(c.table.PageRows()))
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if i := int(key[0] - '1'); i < len(c.columns) {
			c.ToggleSort(c.columns[i].ID)
		}
	}
	return nil
}

// HeaderAt maps an x position on the header row to a column id.
func (c *Controller[T]) HeaderAt(x int) (string, bool) {
	if x < 0 {
		return "", false
	}
	pos := 0
	for i, w := range c.columnWidths() {
		pos += w
		if x < pos {
			return c.columns[i].ID, true
		}
	}
	return "", false
}

func (c *Controller[T]) columnWidths() []int {
	widths := make([]int, len(c.columns))
	total := 0
	for i, col := range c.columns {
		w := col.Width
		if w <= 0 {
			w = defaultColumnWidth
		}
		widths[i] = w
		total += w
	}
	if n := len(widths); n > 0 && c.width > total {
		widths[n-1] += c.width - total
	}
	return widths
}

// View renders the search line, the table and the footer.
func (c *Controller[T]) View() string {
	f := c.Frame()
	widths := c.columnWidths()

	headers := make([]string, len(f.Headers))
	for i, h := range f.Headers {
		headers[i] = ansi.Truncate(h.Label+h.Sort.Indicator(), widths[i]-1, "…")
	}

	t := table.New().
		Headers(headers...).
		Wrap(false).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(true).
		BorderStyle(ui.BorderStyle()).
		StyleFunc(tableStyleFunc(widths, f.Selected))

	for _, row := range f.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = ansi.Truncate(cell, widths[i]-1, "…")
		}
		t = t.Row(cells...)
	}

	var b strings.Builder
	b.WriteString(c.searchLine())
	b.WriteString("\n")
	b.WriteString(t.String())
	if f.NoResults {
		total := 0
		for _, w := range widths {
			total += w
		}
		b.WriteString("\n")
		b.WriteString(c.styles.empty.Width(total).Render(NoResultsText))
	}
	b.WriteString("\n")
	b.WriteString(c.footer(f))
	return b.String()
}

func (c *Controller[T]) searchLine() string {
	if c.searching {
		return c.styles.search.Render(c.search.View())
	}
	if v := c.SearchValue(); v != "" {
		return c.styles.searchActive.Render("search: " + v)
	}
	return c.styles.hint.Render("/ to search")
}

func (c *Controller[T]) footer(f Frame) string {
	count := fmt.Sprintf("%d items", f.TotalItems)
	if f.TotalItems == 1 {
		count = "1 item"
	}

	prev, next := c.styles.disabled.Render("‹ prev"), c.styles.disabled.Render("next ›")
	if f.CanPrevious {
		prev = c.styles.control.Render("‹ prev")
	}
	if f.CanNext {
		next = c.styles.control.Render("next ›")
	}

	c.pager.TotalPages = max(1, f.PageCount)
	c.pager.Page = min(f.PageIndex, c.pager.TotalPages-1)

	return c.styles.count.Render(count) + "  " + prev + "  " + next + "  " + c.styles.hint.Render(c.pager.View())
}
