package teams

import (
	"cmp"
	"strconv"

	"github.com/caredash/caredash/internal/dao"
	"github.com/caredash/caredash/internal/render"
)

// TeamRenderer renders care teams
type TeamRenderer struct {
	render.BaseRenderer
}

func team(r dao.Resource) (*TeamResource, bool) {
	tr, ok := r.(*TeamResource)
	return tr, ok
}

// NewTeamRenderer creates a new TeamRenderer
func NewTeamRenderer() render.Renderer {
	return &TeamRenderer{
		BaseRenderer: render.BaseRenderer{
			Entity: EntityName,
			Cols: []render.Column{
				{
					Name:    "NAME",
					Width:   24,
					SortKey: "name",
					Getter: func(r dao.Resource) string {
						return r.GetName()
					},
				},
				{
					Name:    "CENTER",
					Width:   20,
					SortKey: "centerName",
					Getter: func(r dao.Resource) string {
						if tr, ok := team(r); ok {
							return tr.CenterName()
						}
						return ""
					},
				},
				{
					Name:    "LEAD",
					Width:   20,
					SortKey: "lead",
					Getter: func(r dao.Resource) string {
						if tr, ok := team(r); ok {
							return tr.Item.Lead
						}
						return ""
					},
				},
				{
					Name:    "MEMBERS",
					Width:   8,
					SortKey: "memberCount",
					Compare: func(a, b dao.Resource) int {
						ta, okA := team(a)
						tb, okB := team(b)
						if !okA || !okB {
							return 0
						}
						return cmp.Compare(ta.Item.MemberCount, tb.Item.MemberCount)
					},
					Getter: func(r dao.Resource) string {
						if tr, ok := team(r); ok {
							return strconv.Itoa(tr.Item.MemberCount)
						}
						return ""
					},
				},
				{
					Name:    "AGE",
					Width:   6,
					SortKey: "createdAt",
					Compare: func(a, b dao.Resource) int {
						ta, okA := team(a)
						tb, okB := team(b)
						if !okA || !okB {
							return 0
						}
						// Younger first when ascending, like the displayed age.
						return tb.Item.CreatedAt.Compare(ta.Item.CreatedAt)
					},
					Getter: func(r dao.Resource) string {
						if tr, ok := team(r); ok {
							return render.FormatAge(tr.Item.CreatedAt)
						}
						return ""
					},
				},
			},
		},
	}
}

// RenderDetail renders detailed team information
func (r *TeamRenderer) RenderDetail(resource dao.Resource) string {
	tr, ok := team(resource)
	if !ok {
		return ""
	}
	t := tr.Item

	d := render.NewDetailBuilder()
	d.Title("Team", t.Name)

	d.Section("Basic Information")
	d.Field("Team ID", t.ID)
	d.Field("Name", t.Name)
	if t.Lead != "" {
		d.Field("Lead", t.Lead)
	} else {
		d.Field("Lead", render.NotAssigned)
	}
	d.Field("Members", strconv.Itoa(t.MemberCount))

	d.Section("Center")
	if c := tr.CenterName(); c != "" {
		d.Field("Center", c)
		d.FieldIf("Center ID", t.CenterID)
	} else {
		d.Field("Center", render.NotAssigned)
	}

	d.Section("Timestamps")
	d.Field("Created", render.FormatDate(t.CreatedAt))

	return d.String()
}

// RenderSummary returns summary fields for the header panel
func (r *TeamRenderer) RenderSummary(resource dao.Resource) []render.SummaryField {
	tr, ok := team(resource)
	if !ok {
		return r.BaseRenderer.RenderSummary(resource)
	}
	fields := []render.SummaryField{
		{Label: "Team", Value: tr.Item.Name},
		{Label: "Members", Value: strconv.Itoa(tr.Item.MemberCount)},
	}
	if c := tr.CenterName(); c != "" {
		fields = append(fields, render.SummaryField{Label: "Center", Value: c})
	}
	return fields
}

// Navigations returns a shortcut to the patients of the team's center
func (r *TeamRenderer) Navigations(resource dao.Resource) []render.Navigation {
	tr, ok := team(resource)
	if !ok || tr.Item.CenterID == "" {
		return nil
	}
	return []render.Navigation{
		{Key: "P", Label: "Center patients", Entity: "patients", FilterField: FilterCenterID, FilterValue: tr.Item.CenterID},
	}
}
