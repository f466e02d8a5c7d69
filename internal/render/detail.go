package render

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/caredash/caredash/internal/ui"
)

// Empty value placeholder constants for consistent display across detail views.
const (
	// NotAssigned indicates an optional relation is not set.
	// Use for: Center, Team lead, etc.
	NotAssigned = "Not assigned"

	// Empty indicates a list/collection has no items.
	Empty = "None"

	// NoValue indicates a single value field has no value.
	NoValue = "-"
)

// labelWidth is the display width of the label column in detail views.
const labelWidth = 20

type DetailStyles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Dim     lipgloss.Style
	Success lipgloss.Style
}

// DefaultDetailStyles returns the styles for detail views in the current theme
func DefaultDetailStyles() DetailStyles {
	t := ui.Current()
	return DetailStyles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Section: lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).MarginTop(1),
		Label:   lipgloss.NewStyle().Foreground(t.TextDim),
		Value:   lipgloss.NewStyle().Foreground(t.Text),
		Dim:     lipgloss.NewStyle().Foreground(t.TextDim),
		Success: lipgloss.NewStyle().Foreground(t.Success),
	}
}

// DetailBuilder helps construct detail views with consistent styling
type DetailBuilder struct {
	styles DetailStyles
	sb     strings.Builder
}

// NewDetailBuilder creates a new DetailBuilder with default styles
func NewDetailBuilder() *DetailBuilder {
	return &DetailBuilder{
		styles: DefaultDetailStyles(),
	}
}

// Title adds a title line
func (d *DetailBuilder) Title(entityType, name string) *DetailBuilder {
	d.sb.WriteString(d.styles.Title.Render(entityType+": "+name) + "\n\n")
	return d
}

// Section adds a section header
func (d *DetailBuilder) Section(name string) *DetailBuilder {
	d.sb.WriteString("\n" + d.styles.Section.Render(name) + "\n")
	return d
}

// label pads by display width so wide runes keep values aligned.
func (d *DetailBuilder) label(label string) string {
	return d.styles.Label.Render(runewidth.FillRight(runewidth.Truncate(label+":", labelWidth-1, "…"), labelWidth))
}

// Field adds a label: value line.
// Placeholder constants (NotAssigned, Empty, NoValue) are written without styling.
func (d *DetailBuilder) Field(label, value string) *DetailBuilder {
	styledValue := value
	if value != NotAssigned && value != Empty && value != NoValue {
		styledValue = d.styles.Value.Render(value)
	}
	d.sb.WriteString(d.label(label) + styledValue + "\n")
	return d
}

// FieldStyled adds a label: value line with custom value styling.
func (d *DetailBuilder) FieldStyled(label, value string, style lipgloss.Style) *DetailBuilder {
	d.sb.WriteString(d.label(label) + style.Render(value) + "\n")
	return d
}

// FieldIf adds a field only if value is not empty
func (d *DetailBuilder) FieldIf(label, value string) *DetailBuilder {
	if value != "" {
		d.Field(label, value)
	}
	return d
}

// Line adds a raw line
func (d *DetailBuilder) Line(text string) *DetailBuilder {
	d.sb.WriteString(text + "\n")
	return d
}

// Dim adds a dimmed text line
func (d *DetailBuilder) Dim(text string) *DetailBuilder {
	d.sb.WriteString(d.styles.Dim.Render(text) + "\n")
	return d
}

// DimIndent adds a dimmed indented text line
func (d *DetailBuilder) DimIndent(text string) *DetailBuilder {
	d.sb.WriteString("  " + d.styles.Dim.Render(text) + "\n")
	return d
}

// Styles returns the styles for custom rendering
func (d *DetailBuilder) Styles() DetailStyles {
	return d.styles
}

// String returns the built detail view
func (d *DetailBuilder) String() string {
	return d.sb.String()
}
