package teams

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/caredash/caredash/internal/api"
	"github.com/caredash/caredash/internal/dao"
	"github.com/caredash/caredash/internal/registry"
)

const teamsBody = `{"data":[
	{"id":"t1","name":"Cardio","centerId":"c1","memberCount":4},
	{"id":"t2","name":"Ortho","centerId":"c2","memberCount":10},
	{"id":"t3","name":"Neuro","centerId":"c1","memberCount":2}
]}`

func newTeamDAO(t *testing.T) dao.DAO {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, teamsBody)
	}))
	t.Cleanup(srv.Close)
	d, err := NewTeamDAO(context.Background(), api.New(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestTeamDAO_List(t *testing.T) {
	tests := []struct {
		name   string
		center string
		want   []string
	}{
		{"all teams", "", []string{"t1", "t2", "t3"}},
		{"filtered by center", "c1", []string{"t1", "t3"}},
		{"unknown center", "c9", nil},
	}

	d := newTeamDAO(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.center != "" {
				ctx = dao.WithFilter(ctx, FilterCenterID, tt.center)
			}
			items, err := d.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			var ids []string
			for _, it := range items {
				ids = append(ids, it.GetID())
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("List() ids = %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Errorf("List() ids = %v, want %v", ids, tt.want)
				}
			}
		})
	}
}

func TestTeamRenderer_Columns(t *testing.T) {
	rend := NewTeamRenderer()
	cols := rend.Columns()

	older := NewTeamResource(api.Team{ID: "a", MemberCount: 9, CreatedAt: time.Now().Add(-72 * time.Hour)})
	newer := NewTeamResource(api.Team{ID: "b", MemberCount: 10, CreatedAt: time.Now()})

	for _, c := range cols {
		switch c.Name {
		case "MEMBERS":
			if c.Compare(older, newer) >= 0 {
				t.Error("member counts should compare numerically")
			}
		case "AGE":
			if c.Compare(newer, older) >= 0 {
				t.Error("newer teams should sort first by age")
			}
		}
	}

	row := rend.RenderRow(NewTeamResource(api.Team{Name: "Cardio", CenterID: "c1", Lead: "Dr. Who"}), cols)
	if row[0] != "Cardio" || row[1] != "c1" || row[2] != "Dr. Who" {
		t.Errorf("RenderRow() = %v", row)
	}
}

func TestTeamRenderer_Navigations(t *testing.T) {
	rend := NewTeamRenderer().(*TeamRenderer)
	if navs := rend.Navigations(NewTeamResource(api.Team{ID: "t1"})); navs != nil {
		t.Errorf("team without center should have no navigations, got %+v", navs)
	}
	navs := rend.Navigations(NewTeamResource(api.Team{ID: "t1", CenterID: "c1"}))
	if len(navs) != 1 || navs[0].Entity != "patients" || navs[0].FilterValue != "c1" {
		t.Errorf("Navigations() = %+v", navs)
	}
}

func TestRegistered(t *testing.T) {
	e, ok := registry.Global.Get(EntityName)
	if !ok {
		t.Fatal("teams not registered")
	}
	if !e.Allows(api.RoleManager) || e.Allows(api.RoleClinician) {
		t.Errorf("teams roles = %v", e.Roles)
	}
}
