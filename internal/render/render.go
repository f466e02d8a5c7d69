package render

import (
	"fmt"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/caredash/caredash/internal/dao"
	"github.com/caredash/caredash/internal/datatable"
	"github.com/caredash/caredash/internal/ui"
)

// Column defines a table column configuration
type Column struct {
	Name   string
	Width  int
	Getter func(resource dao.Resource) string

	// SortKey is the backend sort field; empty means the column is not sortable.
	SortKey string
	// Compare overrides text ordering for in-memory sorting.
	Compare func(a, b dao.Resource) int
}

// ID is the column id used by the table engine.
func (c Column) ID() string {
	if c.SortKey != "" {
		return c.SortKey
	}
	return c.Name
}

// SummaryField defines a field in the header summary panel
type SummaryField struct {
	Label string
	Value string
	Style lipgloss.Style // Optional styling for the value
}

// Navigation defines a navigation shortcut to related entities
type Navigation struct {
	Key         string // Shortcut key (e.g., "P" for patients)
	Label       string // Display label (e.g., "Patients")
	Entity      string // Target entity type (e.g., "patients")
	FilterField string // Field name to filter by (e.g., "CenterId")
	FilterValue string // Value to filter by (extracted from current entity)
}

// Renderer defines how one entity type is shown in tables and detail views
type Renderer interface {
	// EntityName returns the entity type
	EntityName() string

	// Columns returns the column definitions for this entity type
	Columns() []Column

	// RenderRow renders a single entity row
	RenderRow(resource dao.Resource, columns []Column) []string

	// RenderDetail renders detailed view of a single entity
	RenderDetail(resource dao.Resource) string

	// RenderSummary returns summary fields for the header panel
	// These are displayed when a row is selected
	RenderSummary(resource dao.Resource) []SummaryField
}

// Navigator is an optional interface that renderers can implement to provide navigation shortcuts
type Navigator interface {
	// Navigations returns available navigation shortcuts for an entity
	// The resource parameter is used to extract filter values
	Navigations(resource dao.Resource) []Navigation
}

// BaseRenderer provides a default implementation
type BaseRenderer struct {
	Entity string
	Cols   []Column
}

func (r *BaseRenderer) EntityName() string { return r.Entity }
func (r *BaseRenderer) Columns() []Column  { return r.Cols }

func (r *BaseRenderer) RenderRow(resource dao.Resource, columns []Column) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		if col.Getter != nil {
			row[i] = col.Getter(resource)
		}
	}
	return row
}

func (r *BaseRenderer) RenderDetail(resource dao.Resource) string {
	return ""
}

func (r *BaseRenderer) RenderSummary(resource dao.Resource) []SummaryField {
	// Default implementation returns ID and Name
	fields := []SummaryField{
		{Label: "ID", Value: resource.GetID()},
	}
	if name := resource.GetName(); name != "" && name != resource.GetID() {
		fields = append(fields, SummaryField{Label: "Name", Value: name})
	}
	return fields
}

// TableColumns converts renderer columns into table engine columns.
func TableColumns(cols []Column) []datatable.Column[dao.Resource] {
	out := make([]datatable.Column[dao.Resource], len(cols))
	for i, col := range cols {
		out[i] = datatable.Column[dao.Resource]{
			ID:       col.ID(),
			Header:   col.Name,
			Width:    col.Width,
			Value:    col.Getter,
			Compare:  col.Compare,
			Sortable: col.SortKey != "",
		}
	}
	return out
}

// Colorer is a function that applies styling based on value
type Colorer func(value string) lipgloss.Style

// StatusColorer returns a colorer for entity status values
func StatusColorer() Colorer {
	return func(value string) lipgloss.Style {
		t := ui.Current()
		switch value {
		case "active", "admitted", "stable":
			return lipgloss.NewStyle().Foreground(t.Success)
		case "pending", "referred", "scheduled":
			return lipgloss.NewStyle().Foreground(t.Pending)
		case "inactive", "on-hold", "discharged":
			return lipgloss.NewStyle().Foreground(t.Warning)
		case "critical", "deceased", "archived":
			return lipgloss.NewStyle().Foreground(t.Danger)
		default:
			return lipgloss.NewStyle()
		}
	}
}

// Factory creates Renderer instances
type Factory func() Renderer

// FormatAge formats a time.Time as a human-readable age string
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)

	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	days := int(d.Hours() / 24)
	if days < 30 {
		return fmt.Sprintf("%dd", days)
	}
	if days < 365 {
		return fmt.Sprintf("%dmo", days/30)
	}
	return fmt.Sprintf("%dy", days/365)
}

// FormatDate formats t as YYYY-MM-DD, or NoValue for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return NoValue
	}
	return t.Format(time.DateOnly)
}

// YearsSince returns whole years between an ISO date and now, or "" when the
// date does not parse.
func YearsSince(isoDate string, now time.Time) string {
	d, err := time.Parse(time.DateOnly, isoDate)
	if err != nil {
		return ""
	}
	years := now.Year() - d.Year()
	if now.YearDay() < d.YearDay() {
		years--
	}
	if years < 0 {
		return ""
	}
	return strconv.Itoa(years)
}

// ValueOr returns v, or NoValue when v is empty.
func ValueOr(v string) string {
	if v == "" {
		return NoValue
	}
	return v
}

// Style is an alias for lipgloss.Style for convenience
type Style = lipgloss.Style

// SuccessStyle returns a green style for success states
func SuccessStyle() lipgloss.Style {
	return ui.SuccessStyle()
}

// WarningStyle returns a yellow style for warning states
func WarningStyle() lipgloss.Style {
	return ui.WarningStyle()
}

// DangerStyle returns a red style for danger/error states
func DangerStyle() lipgloss.Style {
	return ui.DangerStyle()
}

// DimStyle returns a dimmed gray style
func DimStyle() lipgloss.Style {
	return ui.DimStyle()
}
