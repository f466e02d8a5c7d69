package centers

import (
	"cmp"
	"strconv"

	"github.com/caredash/caredash/internal/dao"
	"github.com/caredash/caredash/internal/render"
)

// Filter field understood by the patients and teams DAOs.
const filterCenterID = "CenterId"

// Ensure CenterRenderer implements render.Navigator
var _ render.Navigator = (*CenterRenderer)(nil)

// CenterRenderer renders care centers
type CenterRenderer struct {
	render.BaseRenderer
}

func center(r dao.Resource) (*CenterResource, bool) {
	cr, ok := r.(*CenterResource)
	return cr, ok
}

func compareCounts(count func(*CenterResource) int) func(a, b dao.Resource) int {
	return func(a, b dao.Resource) int {
		ca, okA := center(a)
		cb, okB := center(b)
		if !okA || !okB {
			return 0
		}
		return cmp.Compare(count(ca), count(cb))
	}
}

// NewCenterRenderer creates a new CenterRenderer
func NewCenterRenderer() render.Renderer {
	return &CenterRenderer{
		BaseRenderer: render.BaseRenderer{
			Entity: EntityName,
			Cols: []render.Column{
				{
					Name:    "NAME",
					Width:   26,
					SortKey: "name",
					Getter: func(r dao.Resource) string {
						return r.GetName()
					},
				},
				{
					Name:    "CITY",
					Width:   16,
					SortKey: "city",
					Getter: func(r dao.Resource) string {
						if cr, ok := center(r); ok {
							return cr.Item.City
						}
						return ""
					},
				},
				{
					Name:    "PATIENTS",
					Width:   9,
					SortKey: "patientCount",
					Compare: compareCounts(func(c *CenterResource) int { return c.Item.PatientCount }),
					Getter: func(r dao.Resource) string {
						if cr, ok := center(r); ok {
							return strconv.Itoa(cr.Item.PatientCount)
						}
						return ""
					},
				},
				{
					Name:    "TEAMS",
					Width:   6,
					SortKey: "teamCount",
					Compare: compareCounts(func(c *CenterResource) int { return c.Item.TeamCount }),
					Getter: func(r dao.Resource) string {
						if cr, ok := center(r); ok {
							return strconv.Itoa(cr.Item.TeamCount)
						}
						return ""
					},
				},
				{
					Name:  "PHONE",
					Width: 16,
					Getter: func(r dao.Resource) string {
						if cr, ok := center(r); ok {
							return cr.Item.Phone
						}
						return ""
					},
				},
			},
		},
	}
}

// RenderDetail renders detailed center information
func (r *CenterRenderer) RenderDetail(resource dao.Resource) string {
	cr, ok := center(resource)
	if !ok {
		return ""
	}
	c := cr.Item

	d := render.NewDetailBuilder()
	d.Title("Center", c.Name)

	d.Section("Basic Information")
	d.Field("Center ID", c.ID)
	d.Field("Name", c.Name)
	d.Field("Address", render.ValueOr(c.Address))
	d.Field("City", render.ValueOr(c.City))
	d.Field("Phone", render.ValueOr(c.Phone))

	d.Section("Capacity")
	d.Field("Patients", strconv.Itoa(c.PatientCount))
	if c.TeamCount == 0 {
		d.Field("Teams", render.Empty)
	} else {
		d.Field("Teams", strconv.Itoa(c.TeamCount))
	}

	d.Section("Timestamps")
	d.Field("Created", render.FormatDate(c.CreatedAt))

	return d.String()
}

// RenderSummary returns summary fields for the header panel
func (r *CenterRenderer) RenderSummary(resource dao.Resource) []render.SummaryField {
	cr, ok := center(resource)
	if !ok {
		return r.BaseRenderer.RenderSummary(resource)
	}
	fields := []render.SummaryField{
		{Label: "Center", Value: cr.Item.Name},
		{Label: "Patients", Value: strconv.Itoa(cr.Item.PatientCount)},
		{Label: "Teams", Value: strconv.Itoa(cr.Item.TeamCount)},
	}
	if cr.Item.City != "" {
		fields = append(fields, render.SummaryField{Label: "City", Value: cr.Item.City})
	}
	return fields
}

// Navigations returns the shortcuts from a center to its patients and teams
func (r *CenterRenderer) Navigations(resource dao.Resource) []render.Navigation {
	cr, ok := center(resource)
	if !ok {
		return nil
	}
	return []render.Navigation{
		{Key: "P", Label: "Patients", Entity: "patients", FilterField: filterCenterID, FilterValue: cr.GetID()},
		{Key: "T", Label: "Teams", Entity: "teams", FilterField: filterCenterID, FilterValue: cr.GetID()},
	}
}
