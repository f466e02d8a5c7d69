package view

import (
	"net/url"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/caredash/caredash/internal/config"
	"github.com/caredash/caredash/internal/render"
	"github.com/caredash/caredash/internal/ui"
)

const (
	// headerFixedLines is the fixed number of content lines in the header panel
	// 1: context line, 1: separator, 2: summary field rows
	headerFixedLines = 4
	// maxFieldValueWidth is the maximum width for a single field value before truncation
	maxFieldValueWidth = 30
	fieldsPerRow       = 3
)

// truncateValue truncates a string to maxWidth, adding "…" if truncated
func truncateValue(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth-1, "") + "…"
}

// headerPanelStyles holds cached lipgloss styles for performance
type headerPanelStyles struct {
	panel     lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	accent    lipgloss.Style
	dim       lipgloss.Style
	separator lipgloss.Style
}

func newHeaderPanelStyles() headerPanelStyles {
	t := ui.Current()
	return headerPanelStyles{
		panel:     lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1),
		label:     lipgloss.NewStyle().Foreground(t.TextDim),
		value:     lipgloss.NewStyle().Foreground(t.Text),
		accent:    lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		dim:       lipgloss.NewStyle().Foreground(t.TextMuted),
		separator: lipgloss.NewStyle().Foreground(t.Border),
	}
}

// HeaderPanel renders the fixed header panel at the top of entity views
type HeaderPanel struct {
	env    Env
	width  int
	styles headerPanelStyles
}

// NewHeaderPanel creates a new HeaderPanel
func NewHeaderPanel(env Env) *HeaderPanel {
	return &HeaderPanel{
		env:    env,
		width:  120,
		styles: newHeaderPanelStyles(),
	}
}

// ReloadStyles picks up a theme change
func (h *HeaderPanel) ReloadStyles() {
	h.styles = newHeaderPanelStyles()
}

// apiHost shows the backend host without scheme or credentials.
func apiHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host + strings.TrimRight(u.Path, "/")
}

func (h *HeaderPanel) renderContextLine(entity string) string {
	s := h.styles
	sep := s.dim.Render("  │  ")

	host := "-"
	if h.env.Client != nil {
		host = apiHost(h.env.Client.BaseURL())
	}
	line := s.label.Render("API: ") + s.value.Render(host)

	if p := config.Global().Profile(); p != "" {
		line += sep + s.label.Render("Profile: ") + s.value.Render(p)
	}

	if h.env.Session != nil {
		if u, ok := h.env.Session.User(); ok {
			line += sep + s.label.Render("User: ") + s.value.Render(u.Name) +
				s.dim.Render(" ("+string(u.Role)+")")
		}
	}

	if entity != "" && h.env.Registry != nil {
		line += sep + s.accent.Render(h.env.Registry.GetDisplayName(entity))
	}

	return line
}

// SetWidth sets the panel width
func (h *HeaderPanel) SetWidth(width int) {
	h.width = width
}

// Height returns the number of lines the rendered header will take
func (h *HeaderPanel) Height(rendered string) int {
	return strings.Count(rendered, "\n") + 1
}

func (h *HeaderPanel) box(content string) string {
	panelStyle := h.styles.panel
	if h.width > 4 {
		panelStyle = panelStyle.Width(h.width - 2)
	}
	return panelStyle.Render(content)
}

// RenderHome renders a simple header box for the home page
func (h *HeaderPanel) RenderHome() string {
	return h.box(h.renderContextLine(""))
}

// Render renders the header panel with fixed height. entity is the current
// entity type, summaryFields come from renderer.RenderSummary().
func (h *HeaderPanel) Render(entity string, summaryFields []render.SummaryField) string {
	s := h.styles

	lines := make([]string, headerFixedLines)
	lines[0] = h.renderContextLine(entity)

	sepWidth := h.width - 6
	if sepWidth < 20 {
		sepWidth = 60
	}
	lines[1] = s.separator.Render(strings.Repeat("─", sepWidth))

	if len(summaryFields) == 0 {
		lines[2] = s.dim.Render("Nothing selected")
		return h.box(strings.Join(lines, "\n"))
	}

	maxRows := headerFixedLines - 2
	var row []string
	rowIndex := 0
	for i, field := range summaryFields {
		if rowIndex >= maxRows {
			break
		}

		value := truncateValue(field.Value, maxFieldValueWidth)
		var styled string
		if field.Style.GetForeground() != (lipgloss.NoColor{}) {
			styled = field.Style.Render(value)
		} else {
			styled = s.value.Render(value)
		}
		row = append(row, s.label.Render(field.Label+": ")+styled)

		if len(row) >= fieldsPerRow || i == len(summaryFields)-1 {
			lines[2+rowIndex] = strings.Join(row, s.dim.Render("  │  "))
			row = nil
			rowIndex++
		}
	}

	return h.box(strings.Join(lines, "\n"))
}
