package patients

import (
	"time"

	"github.com/caredash/caredash/internal/dao"
	"github.com/caredash/caredash/internal/render"
)

// PatientRenderer renders patients
type PatientRenderer struct {
	render.BaseRenderer
}

func patient(r dao.Resource) (*PatientResource, bool) {
	pr, ok := r.(*PatientResource)
	return pr, ok
}

// NewPatientRenderer creates a new PatientRenderer
func NewPatientRenderer() render.Renderer {
	return &PatientRenderer{
		BaseRenderer: render.BaseRenderer{
			Entity: EntityName,
			Cols: []render.Column{
				{
					Name:  "ID",
					Width: 12,
					Getter: func(r dao.Resource) string {
						return r.GetID()
					},
				},
				{
					Name:    "NAME",
					Width:   26,
					SortKey: "lastName",
					Getter: func(r dao.Resource) string {
						return r.GetName()
					},
				},
				{
					Name:    "BORN",
					Width:   12,
					SortKey: "dateOfBirth",
					Getter: func(r dao.Resource) string {
						if pr, ok := patient(r); ok {
							return pr.Item.DateOfBirth
						}
						return ""
					},
				},
				{
					Name:    "CENTER",
					Width:   20,
					SortKey: "centerName",
					Getter: func(r dao.Resource) string {
						if pr, ok := patient(r); ok {
							return pr.CenterName()
						}
						return ""
					},
				},
				{
					Name:    "STATUS",
					Width:   12,
					SortKey: "status",
					Getter: func(r dao.Resource) string {
						if pr, ok := patient(r); ok {
							return pr.Status()
						}
						return ""
					},
				},
				{
					Name:    "ADDED",
					Width:   8,
					SortKey: "createdAt",
					Getter: func(r dao.Resource) string {
						if pr, ok := patient(r); ok {
							return render.FormatAge(pr.Item.CreatedAt)
						}
						return ""
					},
				},
			},
		},
	}
}

// RenderDetail renders detailed patient information
func (r *PatientRenderer) RenderDetail(resource dao.Resource) string {
	pr, ok := patient(resource)
	if !ok {
		return ""
	}
	p := pr.Item

	d := render.NewDetailBuilder()
	d.Title("Patient", pr.GetName())

	d.Section("Basic Information")
	d.Field("Patient ID", p.ID)
	d.Field("First Name", render.ValueOr(p.FirstName))
	d.Field("Last Name", render.ValueOr(p.LastName))
	d.Field("Date of Birth", render.ValueOr(p.DateOfBirth))
	d.FieldIf("Age", render.YearsSince(p.DateOfBirth, time.Now()))
	d.FieldIf("Gender", p.Gender)
	if p.Status != "" {
		d.FieldStyled("Status", p.Status, render.StatusColorer()(p.Status))
	}

	d.Section("Contact")
	d.Field("Email", render.ValueOr(p.Email))
	d.Field("Phone", render.ValueOr(p.Phone))

	d.Section("Care")
	if c := pr.CenterName(); c != "" {
		d.Field("Center", c)
	} else {
		d.Field("Center", render.NotAssigned)
	}

	d.Section("Timestamps")
	d.Field("Created", render.FormatDate(p.CreatedAt))
	d.Field("Updated", render.FormatDate(p.UpdatedAt))

	return d.String()
}

// RenderSummary returns summary fields for the header panel
func (r *PatientRenderer) RenderSummary(resource dao.Resource) []render.SummaryField {
	pr, ok := patient(resource)
	if !ok {
		return r.BaseRenderer.RenderSummary(resource)
	}
	fields := []render.SummaryField{
		{Label: "ID", Value: pr.GetID()},
		{Label: "Name", Value: pr.GetName()},
	}
	if s := pr.Status(); s != "" {
		fields = append(fields, render.SummaryField{Label: "Status", Value: s, Style: render.StatusColorer()(s)})
	}
	if c := pr.CenterName(); c != "" {
		fields = append(fields, render.SummaryField{Label: "Center", Value: c})
	}
	return fields
}
