package centers

import (
	"context"

	"github.com/caredash/caredash/internal/api"
	"github.com/caredash/caredash/internal/dao"
	apperrors "github.com/caredash/caredash/internal/errors"
)

// EntityName is the registry name of this entity.
const EntityName = "centers"

// CenterDAO provides data access for care centers. The backend returns the
// whole list; the table pages and sorts it in memory.
type CenterDAO struct {
	dao.BaseDAO
}

// NewCenterDAO creates a new CenterDAO
func NewCenterDAO(ctx context.Context, client *api.Client) (dao.DAO, error) {
	if client == nil {
		return nil, apperrors.Wrap(dao.ErrNoClient, "new "+EntityName+" dao")
	}
	return &CenterDAO{BaseDAO: dao.NewBaseDAO(EntityName, client)}, nil
}

func (d *CenterDAO) List(ctx context.Context) ([]dao.Resource, error) {
	centers, err := d.Client().ListCenters(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "list centers")
	}

	resources := make([]dao.Resource, len(centers))
	for i, c := range centers {
		resources[i] = NewCenterResource(c)
	}
	return resources, nil
}

func (d *CenterDAO) Get(ctx context.Context, id string) (dao.Resource, error) {
	c, err := d.Client().GetCenter(ctx, id)
	if err != nil {
		return nil, apperrors.Wrapf(err, "get center %s", id)
	}
	return NewCenterResource(*c), nil
}

// CenterResource wraps a care center
type CenterResource struct {
	dao.BaseResource
	Item api.Center
}

// NewCenterResource creates a new CenterResource
func NewCenterResource(c api.Center) *CenterResource {
	return &CenterResource{
		BaseResource: dao.BaseResource{
			ID:   c.ID,
			Name: c.Name,
			Data: c,
		},
		Item: c,
	}
}
