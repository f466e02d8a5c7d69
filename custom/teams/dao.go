package teams

import (
	"context"

	"github.com/caredash/caredash/internal/api"
	"github.com/caredash/caredash/internal/dao"
	apperrors "github.com/caredash/caredash/internal/errors"
)

// EntityName is the registry name of this entity.
const EntityName = "teams"

// FilterCenterID limits List to one center when set via dao.WithFilter.
const FilterCenterID = "CenterId"

// TeamDAO provides data access for care teams
type TeamDAO struct {
	dao.BaseDAO
}

// NewTeamDAO creates a new TeamDAO
func NewTeamDAO(ctx context.Context, client *api.Client) (dao.DAO, error) {
	if client == nil {
		return nil, apperrors.Wrap(dao.ErrNoClient, "new "+EntityName+" dao")
	}
	return &TeamDAO{BaseDAO: dao.NewBaseDAO(EntityName, client)}, nil
}

func (d *TeamDAO) List(ctx context.Context) ([]dao.Resource, error) {
	teams, err := d.Client().ListTeams(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "list teams")
	}

	centerID := dao.GetFilterFromContext(ctx, FilterCenterID)
	resources := make([]dao.Resource, 0, len(teams))
	for _, t := range teams {
		if centerID != "" && t.CenterID != centerID {
			continue
		}
		resources = append(resources, NewTeamResource(t))
	}
	return resources, nil
}

func (d *TeamDAO) Get(ctx context.Context, id string) (dao.Resource, error) {
	t, err := d.Client().GetTeam(ctx, id)
	if err != nil {
		return nil, apperrors.Wrapf(err, "get team %s", id)
	}
	return NewTeamResource(*t), nil
}

// TeamResource wraps a care team
type TeamResource struct {
	dao.BaseResource
	Item api.Team
}

// NewTeamResource creates a new TeamResource
func NewTeamResource(t api.Team) *TeamResource {
	return &TeamResource{
		BaseResource: dao.BaseResource{
			ID:   t.ID,
			Name: t.Name,
			Data: t,
		},
		Item: t,
	}
}

// CenterName returns the center name, falling back to its id.
func (r *TeamResource) CenterName() string {
	if r.Item.CenterName != "" {
		return r.Item.CenterName
	}
	return r.Item.CenterID
}
