package view

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/caredash/caredash/internal/dao"
	"github.com/caredash/caredash/internal/log"
	"github.com/caredash/caredash/internal/render"
	"github.com/caredash/caredash/internal/session"
	"github.com/caredash/caredash/internal/ui"
)

// detailViewStyles holds cached lipgloss styles for performance
type detailViewStyles struct {
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
}

func newDetailViewStyles() detailViewStyles {
	t := ui.Current()
	return detailViewStyles{
		title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		label: lipgloss.NewStyle().Foreground(t.TextDim).Width(15),
		value: lipgloss.NewStyle().Foreground(t.Text),
	}
}

// DetailView displays detailed information about a single entity.
//
// The browser hands the row it already has through the session handoff
// cache, so the page renders immediately and then refreshes with Get.
type DetailView struct {
	viewID     uint64
	env        Env
	entity     string
	id         string
	resource   dao.Resource
	renderer   render.Renderer
	dao        dao.DAO
	viewport   viewport.Model
	ready      bool
	refreshing bool
	refreshErr error
	width      int
	height     int

	headerPanel *HeaderPanel
	spinner     spinner.Model
	styles      detailViewStyles
}

// NewDetailView creates a new DetailView for entity id.
func NewDetailView(env Env, entity, id string) *DetailView {
	d := &DetailView{
		viewID:      nextViewID(),
		env:         env,
		entity:      entity,
		id:          id,
		headerPanel: NewHeaderPanel(env),
		spinner:     ui.NewSpinner(),
		styles:      newDetailViewStyles(),
	}

	if env.Session != nil {
		if res, ok := session.TakeAs[dao.Resource](env.Session.Handoff(), entity, id); ok {
			d.resource = res
		}
	}

	var err error
	if d.renderer, err = env.Registry.GetRenderer(entity); err != nil {
		log.Warn("no renderer for detail view", "entity", entity, "error", err)
	}
	if d.dao, err = env.Registry.GetDAO(env.Ctx, entity, env.Client); err != nil {
		log.Warn("no DAO for detail view", "entity", entity, "error", err)
		d.refreshErr = err
	}
	return d
}

// detailRefreshMsg is sent when async resource refresh completes
type detailRefreshMsg struct {
	view     uint64
	resource dao.Resource
	err      error
}

// Init implements tea.Model
func (d *DetailView) Init() tea.Cmd {
	if d.dao != nil && d.dao.Supports(dao.OpGet) {
		d.refreshing = true
		return tea.Batch(d.spinner.Tick, d.refreshResource)
	}
	return nil
}

// refreshResource fetches the full entity in the background
func (d *DetailView) refreshResource() tea.Msg {
	refreshed, err := d.dao.Get(d.env.Ctx, d.id)
	return detailRefreshMsg{view: d.viewID, resource: refreshed, err: err}
}

// Update implements tea.Model
func (d *DetailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case detailRefreshMsg:
		if msg.view != d.viewID {
			return d, nil
		}
		d.refreshing = false
		if msg.err != nil {
			log.Warn("failed to refresh entity details", "entity", d.entity, "id", d.id, "error", msg.err)
			d.refreshErr = msg.err
			d.setContent()
			return d, authRedirect(msg.err)
		}
		d.refreshErr = nil
		d.resource = mergeResources(d.resource, msg.resource)
		d.setContent()
		return d, nil

	case ThemeChangedMsg:
		d.styles = newDetailViewStyles()
		d.headerPanel.ReloadStyles()
		d.setContent()
		return d, nil

	case spinner.TickMsg:
		if d.refreshing {
			var cmd tea.Cmd
			d.spinner, cmd = d.spinner.Update(msg)
			return d, cmd
		}
		return d, nil

	case tea.KeyPressMsg:
		// Let app handle back navigation
		if IsEscKey(msg) {
			return d, nil
		}
		if msg.String() == "ctrl+r" {
			return d, d.Init()
		}
		if d.resource != nil {
			helper := &NavigationHelper{Env: d.env, Renderer: d.renderer}
			if cmd := helper.HandleKey(msg.String(), d.resource); cmd != nil {
				return d, cmd
			}
		}
	}

	// Pass other messages to viewport for scrolling
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

func (d *DetailView) summary() []render.SummaryField {
	if d.renderer == nil || d.resource == nil {
		return nil
	}
	return d.renderer.RenderSummary(d.resource)
}

// ViewString returns the view content as a string
func (d *DetailView) ViewString() string {
	if !d.ready {
		return LoadingMessage
	}
	header := d.headerPanel.Render(d.entity, d.summary())
	return header + "\n" + d.viewport.View()
}

// View implements tea.Model
func (d *DetailView) View() tea.View {
	return tea.NewView(d.ViewString())
}

// SetSize implements View
func (d *DetailView) SetSize(width, height int) tea.Cmd {
	d.width = width
	d.height = height
	d.headerPanel.SetWidth(width)

	headerHeight := d.headerPanel.Height(d.headerPanel.Render(d.entity, d.summary()))
	viewportHeight := max(5, height-headerHeight-1)

	if !d.ready {
		d.viewport = viewport.New(viewport.WithWidth(width), viewport.WithHeight(viewportHeight))
		d.ready = true
	} else {
		d.viewport.SetWidth(width)
		d.viewport.SetHeight(viewportHeight)
	}
	d.setContent()
	return nil
}

func (d *DetailView) setContent() {
	if d.ready {
		d.viewport.SetContent(d.renderContent())
	}
}

// StatusLine implements View
func (d *DetailView) StatusLine() string {
	parts := []string{d.entity + "/" + d.id}

	if d.refreshing {
		parts = append(parts, d.spinner.View()+" refreshing...")
	} else if d.refreshErr != nil {
		parts = append(parts, "⚠ refresh failed")
	}

	parts = append(parts, "↑/↓:scroll", "ctrl+r:refresh")

	if d.resource != nil {
		helper := &NavigationHelper{Env: d.env, Renderer: d.renderer}
		if navInfo := helper.FormatShortcuts(d.resource); navInfo != "" {
			parts = append(parts, navInfo)
		}
	}

	parts = append(parts, "esc:back")
	return strings.Join(parts, " • ")
}

// CanRefresh implements Refreshable
func (d *DetailView) CanRefresh() bool {
	return d.dao != nil
}

func (d *DetailView) renderContent() string {
	if d.resource == nil {
		if d.refreshErr != nil {
			return ui.DangerStyle().Render("Error: "+d.refreshErr.Error()) + "\n" +
				ui.DimStyle().Render("Press ctrl+r to retry")
		}
		return ui.DimStyle().Render(LoadingMessage)
	}

	var detail string
	if d.renderer != nil {
		detail = d.renderer.RenderDetail(d.resource)
	}
	if detail == "" {
		detail = d.renderGenericDetail()
	}

	// While refreshing, placeholders may only mean "not loaded yet". Match
	// them at line ends so values that merely contain the text are kept.
	if d.refreshing {
		loading := ui.DimStyle().Render(LoadingMessage)
		for _, placeholder := range []string{render.NotAssigned, render.Empty, render.NoValue} {
			detail = strings.ReplaceAll(detail, placeholder+"\n", loading+"\n")
			if strings.HasSuffix(detail, placeholder) {
				detail = strings.TrimSuffix(detail, placeholder) + loading
			}
		}
	}

	return detail
}

func (d *DetailView) renderGenericDetail() string {
	s := d.styles

	var out strings.Builder
	out.WriteString(s.title.Render("Details") + "\n\n")
	out.WriteString(s.label.Render("ID:") + s.value.Render(d.resource.GetID()) + "\n")
	out.WriteString(s.label.Render("Name:") + s.value.Render(d.resource.GetName()) + "\n")
	return out.String()
}

// mergeResources merges the refreshed resource with the original to preserve
// fields that are only available from List() but not from Get().
func mergeResources(original, refreshed dao.Resource) dao.Resource {
	if original == nil {
		return refreshed
	}
	if refreshed == nil {
		return original
	}
	if m, ok := refreshed.(dao.Mergeable); ok {
		m.MergeFrom(original)
	}
	return refreshed
}
