package view

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/sync/errgroup"

	"github.com/caredash/caredash/internal/api"
	"github.com/caredash/caredash/internal/dao"
	"github.com/caredash/caredash/internal/log"
	"github.com/caredash/caredash/internal/ui"
)

// maxCountFetches bounds the concurrent count requests on the home view.
const maxCountFetches = 4

type homeViewStyles struct {
	title    lipgloss.Style
	item     lipgloss.Style
	selected lipgloss.Style
	count    lipgloss.Style
	error    lipgloss.Style
	hint     lipgloss.Style
}

func newHomeViewStyles() homeViewStyles {
	return homeViewStyles{
		title:    ui.TitleStyle(),
		item:     ui.TextStyle().Padding(0, 1),
		selected: ui.SelectedStyle().Padding(0, 1),
		count:    ui.DimStyle(),
		error:    ui.WarningStyle(),
		hint:     ui.DimStyle(),
	}
}

// entityCount is the count line of one entity on the home view.
type entityCount struct {
	n      int
	err    error
	loaded bool
}

// HomeView lists the entity types the signed-in role may open, with counts.
type HomeView struct {
	id       uint64
	env      Env
	entities []string
	counts   map[string]entityCount
	cursor   int
	loading  bool

	width       int
	height      int
	headerPanel *HeaderPanel
	spinner     spinner.Model
	styles      homeViewStyles
}

type countsLoadedMsg struct {
	view   uint64
	counts map[string]entityCount
}

// NewHomeView creates a new HomeView
func NewHomeView(env Env) *HomeView {
	return &HomeView{
		id:          nextViewID(),
		env:         env,
		entities:    env.Registry.ListForRole(env.Role()),
		counts:      make(map[string]entityCount),
		headerPanel: NewHeaderPanel(env),
		spinner:     ui.NewSpinner(),
		styles:      newHomeViewStyles(),
	}
}

// Init implements tea.Model
func (h *HomeView) Init() tea.Cmd {
	if len(h.entities) == 0 {
		return nil
	}
	h.loading = true
	return tea.Batch(h.loadCounts, h.spinner.Tick)
}

// loadCounts fetches every entity count concurrently. A failed count is
// shown next to its entity and does not cancel the others.
func (h *HomeView) loadCounts() tea.Msg {
	var (
		mu     sync.Mutex
		counts = make(map[string]entityCount, len(h.entities))
	)

	g, ctx := errgroup.WithContext(h.env.Ctx)
	g.SetLimit(maxCountFetches)
	for _, entity := range h.entities {
		g.Go(func() error {
			c := entityCount{loaded: true}
			d, err := h.env.Registry.GetDAO(ctx, entity, h.env.Client)
			if err == nil {
				c.n, err = dao.Count(ctx, d)
			}
			if err != nil {
				log.Warn("failed to count entities", "entity", entity, "error", err)
				c.err = err
			}
			mu.Lock()
			counts[entity] = c
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return countsLoadedMsg{view: h.id, counts: counts}
}

// Update implements tea.Model
func (h *HomeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case countsLoadedMsg:
		if msg.view != h.id {
			return h, nil
		}
		h.loading = false
		h.counts = msg.counts
		for _, c := range msg.counts {
			if cmd := authRedirect(c.err); cmd != nil {
				return h, cmd
			}
		}
		return h, nil

	case RefreshMsg:
		return h, h.Init()

	case ThemeChangedMsg:
		h.styles = newHomeViewStyles()
		h.headerPanel.ReloadStyles()
		return h, nil

	case spinner.TickMsg:
		if h.loading {
			var cmd tea.Cmd
			h.spinner, cmd = h.spinner.Update(msg)
			return h, cmd
		}
		return h, nil

	case tea.KeyPressMsg:
		switch key := msg.String(); key {
		case "j", "down":
			if h.cursor < len(h.entities)-1 {
				h.cursor++
			}
		case "k", "up":
			if h.cursor > 0 {
				h.cursor--
			}
		case "enter", "l", "right":
			return h, h.open(h.cursor)
		case "ctrl+r":
			return h, h.Init()
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			return h, h.open(int(key[0] - '1'))
		}
	}
	return h, nil
}

func (h *HomeView) open(i int) tea.Cmd {
	if i < 0 || i >= len(h.entities) {
		return nil
	}
	h.cursor = i
	browser := NewResourceBrowser(h.env, h.entities[i])
	return func() tea.Msg {
		return NavigateMsg{View: browser}
	}
}

func (h *HomeView) countText(entity string) string {
	c, ok := h.counts[entity]
	switch {
	case !ok || !c.loaded:
		if h.loading {
			return h.spinner.View()
		}
		return ""
	case c.err != nil:
		return h.styles.error.Render("unavailable")
	default:
		return h.styles.count.Render(strconv.Itoa(c.n))
	}
}

// ViewString returns the view content as a string
func (h *HomeView) ViewString() string {
	s := h.styles

	var b strings.Builder
	b.WriteString(h.headerPanel.RenderHome())
	b.WriteString("\n\n")
	b.WriteString(s.title.Render("Browse"))
	b.WriteString("\n\n")

	if len(h.entities) == 0 {
		role := h.env.Role()
		if role == "" {
			role = api.Role("unknown")
		}
		b.WriteString(s.hint.Render(fmt.Sprintf("No entities are available to the %s role.", role)))
		return b.String()
	}

	for i, entity := range h.entities {
		label := fmt.Sprintf("%d  %-16s", i+1, h.env.Registry.GetDisplayName(entity))
		style := s.item
		if i == h.cursor {
			style = s.selected
		}
		b.WriteString(style.Render(label))
		b.WriteString(" ")
		b.WriteString(h.countText(entity))
		b.WriteString("\n")
	}
	return b.String()
}

// View implements tea.Model
func (h *HomeView) View() tea.View {
	return tea.NewView(h.ViewString())
}

// SetSize implements View
func (h *HomeView) SetSize(width, height int) tea.Cmd {
	h.width = width
	h.height = height
	h.headerPanel.SetWidth(width)
	return nil
}

// StatusLine implements View
func (h *HomeView) StatusLine() string {
	return "↑/↓:select • enter:open • 1-9:jump • ctrl+r:refresh • ?:help • q:quit"
}

// CanRefresh implements Refreshable
func (h *HomeView) CanRefresh() bool { return true }

// Selected returns the highlighted entity.
func (h *HomeView) Selected() string {
	if h.cursor < len(h.entities) {
		return h.entities[h.cursor]
	}
	return ""
}
