package view

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/caredash/caredash/internal/ui"
)

// helpViewStyles holds cached lipgloss styles for performance
type helpViewStyles struct {
	title   lipgloss.Style
	section lipgloss.Style
	key     lipgloss.Style
	desc    lipgloss.Style
}

func newHelpViewStyles() helpViewStyles {
	return helpViewStyles{
		title:   ui.TitleStyle(),
		section: ui.SectionStyle().MarginTop(1),
		key:     ui.SuccessStyle().Width(15),
		desc:    ui.TextStyle(),
	}
}

// HelpView shows keybindings and help information
type HelpView struct {
	styles helpViewStyles
	vp     viewport.Model
	ready  bool
}

// NewHelpView creates a new HelpView
func NewHelpView() *HelpView {
	return &HelpView{
		styles: newHelpViewStyles(),
	}
}

// Init implements tea.Model
func (h *HelpView) Init() tea.Cmd {
	return nil
}

func (h *HelpView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(ThemeChangedMsg); ok {
		h.styles = newHelpViewStyles()
		if h.ready {
			h.vp.SetContent(h.renderContent())
		}
		return h, nil
	}
	var cmd tea.Cmd
	h.vp, cmd = h.vp.Update(msg)
	return h, cmd
}

type helpEntry struct{ key, desc string }

// renderContent returns the help content for the viewport
func (h *HelpView) renderContent() string {
	s := h.styles

	sections := []struct {
		name    string
		entries []helpEntry
	}{
		{"Navigation", []helpEntry{
			{"↑/k, ↓/j", "Move cursor up/down"},
			{"Enter/d", "View details / open"},
			{"Esc", "Go back / cancel"},
			{"q", "Quit"},
		}},
		{"Tables", []helpEntry{
			{"/", "Search"},
			{"c", "Clear search"},
			{"1-9", "Sort by column (asc, desc, off)"},
			{"click header", "Sort by column"},
			{"]/n/→", "Next page"},
			{"[/p/←", "Previous page"},
			{"g/G", "First/last row of the page"},
			{"Ctrl+r", "Refresh"},
			{"x", "Export table to CSV (disabled when read-only)"},
		}},
		{"Related entities", []helpEntry{
			{"Center", "P:Patients T:Teams"},
			{"Team", "P:Center patients"},
		}},
		{"Global", []helpEntry{
			{"?", "Show this help"},
			{"L", "Sign out"},
			{"Ctrl+t", "Switch theme"},
			{"Ctrl+c", "Quit"},
		}},
	}

	var out strings.Builder
	out.WriteString(s.title.Render("caredash") + "\n")
	for _, sec := range sections {
		out.WriteString("\n" + s.section.Render(sec.name) + "\n")
		for _, e := range sec.entries {
			out.WriteString(s.key.Render(e.key) + s.desc.Render(e.desc) + "\n")
		}
	}
	out.WriteString("\n" + ui.DimStyle().Italic(true).
		Render("  Shortcuts to related entities are shown in the status line."))
	return out.String()
}

func (h *HelpView) ViewString() string {
	if !h.ready {
		return LoadingMessage
	}
	return h.vp.View()
}

// View implements tea.Model
func (h *HelpView) View() tea.View {
	return tea.NewView(h.ViewString())
}

func (h *HelpView) SetSize(width, height int) tea.Cmd {
	if !h.ready {
		h.vp = viewport.New(viewport.WithWidth(width), viewport.WithHeight(height))
		h.ready = true
	} else {
		h.vp.SetWidth(width)
		h.vp.SetHeight(height)
	}
	h.vp.SetContent(h.renderContent())
	return nil
}

// StatusLine implements View
func (h *HelpView) StatusLine() string {
	return "Help • Press Esc to go back"
}
