package view

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/caredash/caredash/internal/config"
	"github.com/caredash/caredash/internal/dao"
	"github.com/caredash/caredash/internal/datatable"
	"github.com/caredash/caredash/internal/log"
	"github.com/caredash/caredash/internal/render"
	"github.com/caredash/caredash/internal/ui"
)

// resourceBrowserStyles holds cached lipgloss styles for performance
type resourceBrowserStyles struct {
	filter lipgloss.Style
	error  lipgloss.Style
	hint   lipgloss.Style
}

func newResourceBrowserStyles() resourceBrowserStyles {
	return resourceBrowserStyles{
		filter: ui.AccentStyle().Italic(true),
		error:  ui.DangerStyle(),
		hint:   ui.DimStyle(),
	}
}

// ResourceBrowser shows one entity type in a table.
//
// Entities whose DAO implements dao.PaginatedDAO are paged, sorted and
// searched by the backend: the browser owns the table state and fetches one
// page per state change. Every other entity is loaded once and handed to the
// controller, which pages it in memory.
type ResourceBrowser struct {
	id     uint64
	env    Env
	entity string

	dao      dao.DAO
	paged    dao.PaginatedDAO // nil unless server-driven
	renderer render.Renderer

	// Field-based filter (for navigation)
	fieldFilter      string // field name to filter by (e.g., "CenterId")
	fieldFilterValue string // value to filter by

	ctrl *datatable.Controller[dao.Resource]

	// Server-driven query state. The table is created by the browser and
	// handed to the controller; the browser is the only writer of its state.
	table      *datatable.Table[dao.Resource]
	search     string
	totalItems int
	dirty      bool // query changed since the last request
	fetching   bool

	loaded    bool // at least one successful load
	loading   bool
	exporting bool
	err       error

	width        int
	height       int
	headerPanel  *HeaderPanel
	headerHeight int
	spinner      spinner.Model
	styles       resourceBrowserStyles
}

// NewResourceBrowser creates a new ResourceBrowser
func NewResourceBrowser(env Env, entity string) *ResourceBrowser {
	return newResourceBrowser(env, entity, "", "")
}

// NewResourceBrowserWithFilter creates a ResourceBrowser with a field-based filter
// fieldFilter is the field name (e.g., "CenterId"), filterValue is the value to filter by
func NewResourceBrowserWithFilter(env Env, entity, fieldFilter, filterValue string) *ResourceBrowser {
	return newResourceBrowser(env, entity, fieldFilter, filterValue)
}

func newResourceBrowser(env Env, entity, fieldFilter, filterValue string) *ResourceBrowser {
	r := &ResourceBrowser{
		id:               nextViewID(),
		env:              env,
		entity:           entity,
		fieldFilter:      fieldFilter,
		fieldFilterValue: filterValue,
		loading:          true,
		headerPanel:      NewHeaderPanel(env),
		spinner:          ui.NewSpinner(),
		styles:           newResourceBrowserStyles(),
	}

	var err error
	if r.renderer, err = env.Registry.GetRenderer(entity); err != nil {
		r.fail(err)
		return r
	}
	if r.dao, err = env.Registry.GetDAO(env.Ctx, entity, env.Client); err != nil {
		r.fail(err)
		return r
	}

	cfg := config.File()
	opts := []datatable.Option{datatable.WithRowHeight(cfg.RowHeight())}
	columns := render.TableColumns(r.renderer.Columns())

	if p, ok := r.dao.(dao.PaginatedDAO); ok {
		r.paged = p
		r.table = datatable.New(datatable.Options[dao.Resource]{
			Columns:            columns,
			ManualPagination:   true,
			ManualSorting:      true,
			ManualFiltering:    true,
			State:              datatable.State{Pagination: datatable.Pagination{PageSize: cfg.FetchPageSize()}},
			OnPaginationChange: r.onPaginationChange,
			OnSortingChange:    r.onSortingChange,
		})
		r.ctrl = datatable.NewController(columns, datatable.External[dao.Resource]{
			Table:            r.table,
			SearchTerm:       func() string { return r.search },
			SetSearchTerm:    r.setSearchTerm,
			TotalItems:       func() int { return r.totalItems },
			OnPageSizeChange: r.table.SetPageSize,
		}, opts...)
		r.dirty = true
	} else {
		opts = append(opts, datatable.WithDefaultPageSize(cfg.DefaultPageSize()))
		r.ctrl = datatable.NewController(columns, datatable.SelfDriven[dao.Resource]{}, opts...)
	}

	log.Debug("resource browser created", "entity", entity, "mode", r.ctrl.Mode().String(),
		"filterField", fieldFilter, "filterValue", filterValue)
	return r
}

// fail puts the browser into a terminal error state with an empty table.
func (r *ResourceBrowser) fail(err error) {
	log.Error("cannot open entity", "entity", r.entity, "error", err)
	r.err = err
	r.loading = false
	if r.ctrl == nil {
		r.ctrl = datatable.NewController[dao.Resource](nil, nil)
	}
}

// Init implements tea.Model
func (r *ResourceBrowser) Init() tea.Cmd {
	if r.dao == nil {
		return nil
	}
	if r.paged != nil {
		// Deferred through a message so the first request carries the page
		// size measured by SetSize.
		return tea.Batch(func() tea.Msg { return fetchPageMsg{} }, r.spinner.Tick)
	}
	return tea.Batch(r.loadResources, r.spinner.Tick)
}

func (r *ResourceBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchPageMsg:
		return r, r.fetchIfDirty()
	case pageLoadedMsg:
		return r.handlePageLoaded(msg)
	case resourcesLoadedMsg:
		return r.handleResourcesLoaded(msg)
	case exportDoneMsg:
		return r.handleExportDone(msg)
	case RefreshMsg:
		return r, r.refresh()
	case ThemeChangedMsg:
		r.styles = newResourceBrowserStyles()
		r.headerPanel.ReloadStyles()
		return r, nil

	case spinner.TickMsg:
		if r.busy() {
			var cmd tea.Cmd
			r.spinner, cmd = r.spinner.Update(msg)
			return r, cmd
		}
		return r, nil

	case tea.KeyPressMsg:
		return r, r.handleKeyPress(msg)

	case tea.MouseClickMsg:
		cmd := r.ctrl.Update(msg)
		return r, tea.Batch(cmd, r.fetchIfDirty())
	}

	return r, nil
}

func (r *ResourceBrowser) busy() bool {
	return r.loading || r.fetching || r.exporting
}

// ViewString returns the view content as a string
func (r *ResourceBrowser) ViewString() string {
	var summary []render.SummaryField
	if res, ok := r.ctrl.SelectedRow(); ok && r.renderer != nil {
		summary = r.renderer.RenderSummary(res)
	}
	header := r.headerPanel.Render(r.entity, summary)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")

	switch {
	case r.err != nil:
		b.WriteString(r.styles.error.Render(fmt.Sprintf("Error: %v", r.err)))
		b.WriteString("\n")
		b.WriteString(r.styles.hint.Render("Press ctrl+r to retry"))
	case r.loading && !r.loaded:
		b.WriteString(r.spinner.View() + " " + LoadingMessage)
	default:
		b.WriteString(r.ctrl.View())
	}
	return b.String()
}

// View implements tea.Model
func (r *ResourceBrowser) View() tea.View {
	return tea.NewView(r.ViewString())
}

// SetSize implements View
func (r *ResourceBrowser) SetSize(width, height int) tea.Cmd {
	r.width = width
	r.height = height
	r.headerPanel.SetWidth(width)
	r.headerHeight = r.headerPanel.Height(r.headerPanel.Render(r.entity, nil))

	r.ctrl.SetOffset(r.headerHeight)
	r.ctrl.SetSize(width, height-r.headerHeight)
	return r.fetchIfDirty()
}

// StatusLine implements View
func (r *ResourceBrowser) StatusLine() string {
	parts := []string{r.entity}

	if r.fieldFilter != "" && r.fieldFilterValue != "" {
		parts = append(parts, r.styles.filter.Render(r.fieldFilter+"="+r.fieldFilterValue))
	}
	if r.busy() {
		label := "loading..."
		if r.exporting {
			label = "exporting..."
		}
		parts = append(parts, r.spinner.View()+" "+label)
	}

	if r.ctrl.HasActiveInput() {
		parts = append(parts, "enter:apply", "esc:done")
		return strings.Join(parts, " • ")
	}

	parts = append(parts, "/:search", "1-9:sort", "[/]:page", "enter:detail", "ctrl+r:refresh")
	if r.canExport() {
		parts = append(parts, "x:export")
	}
	if res, ok := r.ctrl.SelectedRow(); ok {
		helper := &NavigationHelper{Env: r.env, Renderer: r.renderer}
		if nav := helper.FormatShortcuts(res); nav != "" {
			parts = append(parts, nav)
		}
	}
	return strings.Join(parts, " • ")
}

// HasActiveInput implements InputCapture
func (r *ResourceBrowser) HasActiveInput() bool {
	return r.ctrl.HasActiveInput()
}

// CanRefresh implements Refreshable
func (r *ResourceBrowser) CanRefresh() bool {
	return r.dao != nil
}

// Entity returns the entity type shown.
func (r *ResourceBrowser) Entity() string { return r.entity }

// Controller exposes the table controller.
func (r *ResourceBrowser) Controller() *datatable.Controller[dao.Resource] { return r.ctrl }

// Close releases the controller's size observation.
func (r *ResourceBrowser) Close() {
	r.ctrl.Close()
}
