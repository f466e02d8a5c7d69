package centers

import (
	"context"

	"github.com/caredash/caredash/internal/api"
	"github.com/caredash/caredash/internal/dao"
	"github.com/caredash/caredash/internal/registry"
	"github.com/caredash/caredash/internal/render"
)

func init() {
	registry.Global.Register(EntityName, registry.Entry{
		DAOFactory: func(ctx context.Context, client *api.Client) (dao.DAO, error) {
			return NewCenterDAO(ctx, client)
		},
		RendererFactory: func() render.Renderer {
			return NewCenterRenderer()
		},
		DisplayName: "Centers",
		Roles:       []api.Role{api.RoleAdmin},
		Order:       2,
	})
}
