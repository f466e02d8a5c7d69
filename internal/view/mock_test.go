package view

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/caredash/caredash/internal/api"
	"github.com/caredash/caredash/internal/dao"
	"github.com/caredash/caredash/internal/registry"
	"github.com/caredash/caredash/internal/render"
	"github.com/caredash/caredash/internal/session"
)

type mockResource struct {
	id   string
	name string
}

func (m *mockResource) GetID() string   { return m.id }
func (m *mockResource) GetName() string { return m.name }
func (m *mockResource) Raw() any        { return m }

func mockResources(n int) []dao.Resource {
	out := make([]dao.Resource, n)
	for i := range out {
		out[i] = &mockResource{id: fmt.Sprintf("r-%02d", i+1), name: fmt.Sprintf("item %02d", i+1)}
	}
	return out
}

// memoryDAO serves a fixed list.
type memoryDAO struct {
	entity  string
	items   []dao.Resource
	listErr error
	getErr  error
	noOps   []dao.Operation

	mu    sync.Mutex
	lists int
	gets  int
}

func (d *memoryDAO) EntityName() string { return d.entity }

func (d *memoryDAO) List(ctx context.Context) ([]dao.Resource, error) {
	d.mu.Lock()
	d.lists++
	d.mu.Unlock()
	if d.listErr != nil {
		return nil, d.listErr
	}
	return d.items, nil
}

func (d *memoryDAO) Get(ctx context.Context, id string) (dao.Resource, error) {
	d.mu.Lock()
	d.gets++
	d.mu.Unlock()
	if d.getErr != nil {
		return nil, d.getErr
	}
	for _, r := range d.items {
		if r.GetID() == id {
			return r, nil
		}
	}
	return nil, &api.Error{Status: 404, Message: "not found"}
}

func (d *memoryDAO) Supports(op dao.Operation) bool {
	for _, o := range d.noOps {
		if o == op {
			return false
		}
	}
	return true
}

// pagedDAO pages, sorts and searches like the backend does.
type pagedDAO struct {
	memoryDAO
	pageErr  error
	requests []dao.PageRequest
}

func (d *pagedDAO) ListPage(ctx context.Context, req dao.PageRequest) (dao.PageResult, error) {
	d.mu.Lock()
	d.requests = append(d.requests, req)
	d.mu.Unlock()
	if d.pageErr != nil {
		return dao.PageResult{}, d.pageErr
	}

	var matched []dao.Resource
	for _, r := range d.items {
		if req.Search == "" || strings.Contains(r.GetName(), req.Search) {
			matched = append(matched, r)
		}
	}
	if req.SortBy == "name" {
		sort.SliceStable(matched, func(i, j int) bool {
			if req.Desc {
				return matched[i].GetName() > matched[j].GetName()
			}
			return matched[i].GetName() < matched[j].GetName()
		})
	}

	size := max(1, req.PageSize)
	start := min(req.PageIndex*size, len(matched))
	end := min(start+size, len(matched))
	return dao.PageResult{
		Items:      matched[start:end],
		TotalItems: len(matched),
		PageCount:  (len(matched) + size - 1) / size,
	}, nil
}

func (d *pagedDAO) lastRequest(t *testing.T) dao.PageRequest {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.requests) == 0 {
		t.Fatal("no page request was sent")
	}
	return d.requests[len(d.requests)-1]
}

// mockRenderer shows NAME and ID and links to related entities.
type mockRenderer struct {
	render.BaseRenderer
	navs []render.Navigation
}

func newMockRenderer(entity string) *mockRenderer {
	return &mockRenderer{BaseRenderer: render.BaseRenderer{
		Entity: entity,
		Cols: []render.Column{
			{Name: "NAME", Width: 20, SortKey: "name", Getter: func(r dao.Resource) string { return r.GetName() }},
			{Name: "ID", Width: 10, Getter: func(r dao.Resource) string { return r.GetID() }},
		},
	}}
}

func (m *mockRenderer) RenderDetail(r dao.Resource) string {
	return "detail of " + r.GetName()
}

func (m *mockRenderer) Navigations(r dao.Resource) []render.Navigation {
	return m.navs
}

func register(reg *registry.Registry, entity string, d dao.DAO, r render.Renderer, roles ...api.Role) {
	reg.Register(entity, registry.Entry{
		DAOFactory: func(ctx context.Context, client *api.Client) (dao.DAO, error) {
			return d, nil
		},
		RendererFactory: func() render.Renderer { return r },
		Roles:           roles,
	})
}

func newTestEnv(t *testing.T, role api.Role) Env {
	t.Helper()
	store := session.NewStore(session.NewHandoff(16, time.Minute))
	if role != "" {
		store.SignIn(&api.LoginResponse{
			Token: "token",
			User:  api.User{ID: "u-1", Name: "Dana Scully", Email: "dana@example.com", Role: role},
		})
	}
	return Env{
		Ctx:      context.Background(),
		Registry: registry.New(),
		Session:  store,
	}
}

// runCmd executes cmd synchronously and flattens batches.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

var errSessionExpired = &api.Error{Status: 401, Code: api.CodeTokenExpired, Message: "token expired"}

var errBackend = errors.New("backend unavailable")
