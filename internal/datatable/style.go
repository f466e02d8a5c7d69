package datatable

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/caredash/caredash/internal/ui"
)

type controllerStyles struct {
	search       lipgloss.Style
	searchActive lipgloss.Style
	hint         lipgloss.Style
	count        lipgloss.Style
	control      lipgloss.Style
	disabled     lipgloss.Style
	empty        lipgloss.Style
}

func newControllerStyles() controllerStyles {
	return controllerStyles{
		search:       ui.InputFieldStyle(),
		searchActive: ui.AccentStyle().Italic(true),
		hint:         ui.DimStyle(),
		count:        ui.DimStyle(),
		control:      ui.AccentStyle().Bold(true),
		disabled:     ui.MutedStyle(),
		empty:        ui.DimStyle().Italic(true).Align(lipgloss.Center),
	}
}

// tableStyleFunc styles header, selected and normal cells for lipgloss/table.
// Styles are built once per column to avoid per-cell allocations.
func tableStyleFunc(widths []int, selected int) func(row, col int) lipgloss.Style {
	th := ui.Current()
	n := len(widths)

	header := make([]lipgloss.Style, n)
	sel := make([]lipgloss.Style, n)
	normal := make([]lipgloss.Style, n)
	for col, w := range widths {
		base := lipgloss.NewStyle().Width(w).PaddingRight(1)
		header[col] = base.Bold(true).Foreground(th.TableHeaderText).Background(th.TableHeader)
		sel[col] = base.Foreground(th.SelectionText).Background(th.Selection)
		normal[col] = base.Foreground(th.Text)
	}

	return func(row, col int) lipgloss.Style {
		if col >= n {
			return lipgloss.NewStyle()
		}
		switch row {
		case table.HeaderRow:
			return header[col]
		case selected:
			return sel[col]
		default:
			return normal[col]
		}
	}
}
