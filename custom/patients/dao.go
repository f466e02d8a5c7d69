package patients

import (
	"context"

	"github.com/caredash/caredash/internal/api"
	"github.com/caredash/caredash/internal/dao"
	apperrors "github.com/caredash/caredash/internal/errors"
)

// EntityName is the registry name of this entity.
const EntityName = "patients"

// FilterCenterID restricts listings to one center when set via dao.WithFilter.
const FilterCenterID = "CenterId"

// listAllPageSize bounds List, which only feeds non-table callers.
const listAllPageSize = 100

// Ensure PatientDAO implements dao.PaginatedDAO
var _ dao.PaginatedDAO = (*PatientDAO)(nil)

// PatientDAO provides data access for patients. The backend pages, sorts and
// searches them.
type PatientDAO struct {
	dao.BaseDAO
}

// NewPatientDAO creates a new PatientDAO
func NewPatientDAO(ctx context.Context, client *api.Client) (dao.DAO, error) {
	if client == nil {
		return nil, apperrors.Wrap(dao.ErrNoClient, "new "+EntityName+" dao")
	}
	return &PatientDAO{BaseDAO: dao.NewBaseDAO(EntityName, client)}, nil
}

func (d *PatientDAO) ListPage(ctx context.Context, req dao.PageRequest) (dao.PageResult, error) {
	page, err := d.Client().ListPatients(ctx, api.PageQuery{
		Page:     req.PageIndex + 1,
		PageSize: req.PageSize,
		Search:   req.Search,
		Sort:     req.SortBy,
		Desc:     req.Desc,
		CenterID: dao.GetFilterFromContext(ctx, FilterCenterID),
	})
	if err != nil {
		return dao.PageResult{}, apperrors.Wrap(err, "list patients")
	}

	items := make([]dao.Resource, len(page.Items))
	for i, p := range page.Items {
		items[i] = NewPatientResource(p)
	}
	return dao.PageResult{Items: items, TotalItems: page.TotalItems, PageCount: page.PageCount}, nil
}

// List returns the first page of patients.
func (d *PatientDAO) List(ctx context.Context) ([]dao.Resource, error) {
	res, err := d.ListPage(ctx, dao.PageRequest{PageSize: listAllPageSize})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (d *PatientDAO) Get(ctx context.Context, id string) (dao.Resource, error) {
	p, err := d.Client().GetPatient(ctx, id)
	if err != nil {
		return nil, apperrors.Wrapf(err, "get patient %s", id)
	}
	return NewPatientResource(*p), nil
}

// PatientResource wraps a patient record
type PatientResource struct {
	dao.BaseResource
	Item api.Patient
}

// NewPatientResource creates a new PatientResource
func NewPatientResource(p api.Patient) *PatientResource {
	return &PatientResource{
		BaseResource: dao.BaseResource{
			ID:   p.ID,
			Name: p.FullName(),
			Data: p,
		},
		Item: p,
	}
}

func (r *PatientResource) Status() string { return r.Item.Status }

// CenterName returns the center name, falling back to its id.
func (r *PatientResource) CenterName() string {
	if r.Item.CenterName != "" {
		return r.Item.CenterName
	}
	return r.Item.CenterID
}
