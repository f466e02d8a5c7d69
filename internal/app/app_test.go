package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/caredash/caredash/internal/api"
	"github.com/caredash/caredash/internal/dao"
	"github.com/caredash/caredash/internal/registry"
	"github.com/caredash/caredash/internal/render"
	"github.com/caredash/caredash/internal/session"
	"github.com/caredash/caredash/internal/view"
)

// MockView is a simple view for testing
type MockView struct {
	name        string
	hasInput    bool
	escReceived bool
	closed      bool
	keys        []string
}

func (m *MockView) Init() tea.Cmd                     { return nil }
func (m *MockView) View() tea.View                    { return tea.NewView(m.name) }
func (m *MockView) ViewString() string                { return m.name }
func (m *MockView) SetSize(width, height int) tea.Cmd { return nil }
func (m *MockView) StatusLine() string                { return m.name }
func (m *MockView) HasActiveInput() bool              { return m.hasInput }
func (m *MockView) Close()                            { m.closed = true }
func (m *MockView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		m.keys = append(m.keys, keyMsg.String())
		if keyMsg.String() == "esc" {
			m.escReceived = true
			m.hasInput = false // Close input on esc
		}
	}
	return m, nil
}

type emptyDAO struct{ dao.BaseDAO }

func (*emptyDAO) List(ctx context.Context) ([]dao.Resource, error) { return nil, nil }
func (*emptyDAO) Get(ctx context.Context, id string) (dao.Resource, error) {
	return nil, errors.New("not found")
}

func newTestRegistry() *registry.Registry {
	reg := registry.New()
	reg.Register("patients", registry.Entry{
		DAOFactory: func(ctx context.Context, client *api.Client) (dao.DAO, error) {
			return &emptyDAO{dao.NewBaseDAO("patients", nil)}, nil
		},
		RendererFactory: func() render.Renderer { return &render.BaseRenderer{Entity: "patients"} },
		Roles:           []api.Role{api.RoleAdmin, api.RoleManager},
	})
	return reg
}

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	store := session.NewStore(session.NewHandoff(16, time.Minute))
	app := New(context.Background(), newTestRegistry(), nil, store, opts...)
	app.width = 100
	app.height = 50
	return app
}

func loginResponse(role api.Role) *api.LoginResponse {
	return &api.LoginResponse{
		Token: "token",
		User:  api.User{ID: "u-1", Name: "Fox Mulder", Email: "fox@example.com", Role: role},
	}
}

var escMsg = tea.KeyPressMsg{Code: tea.KeyEscape}

func textKey(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: []rune(s)[0], Text: s}
}

func TestEscInDetailView(t *testing.T) {
	app := newTestApp(t)

	home := &MockView{name: "Home"}
	browser := &MockView{name: "ResourceBrowser"}
	detail := &MockView{name: "DetailView"}

	app.viewStack = []view.View{home, browser}
	app.currentView = detail

	app.Update(escMsg)

	if app.currentView.StatusLine() != "ResourceBrowser" {
		t.Errorf("Expected currentView to be ResourceBrowser, got %s", app.currentView.StatusLine())
	}
	if len(app.viewStack) != 1 {
		t.Errorf("Expected viewStack length 1, got %d", len(app.viewStack))
	}
	if !detail.closed {
		t.Error("popped view should be closed")
	}
	if detail.escReceived {
		t.Error("esc should not reach a view without active input")
	}
}

func TestEscWithActiveInput(t *testing.T) {
	app := newTestApp(t)

	home := &MockView{name: "Home"}
	browser := &MockView{name: "ResourceBrowser", hasInput: true}

	app.viewStack = []view.View{home}
	app.currentView = browser

	// First esc closes the search input instead of popping.
	app.Update(escMsg)
	if !browser.escReceived {
		t.Error("view with active input should receive esc")
	}
	if app.currentView != browser {
		t.Errorf("Expected to stay on ResourceBrowser, got %s", app.currentView.StatusLine())
	}

	app.Update(escMsg)
	if app.currentView != home {
		t.Errorf("second esc should pop to Home, got %s", app.currentView.StatusLine())
	}
}

func TestActiveInputReceivesGlobalKeys(t *testing.T) {
	app := newTestApp(t)
	app.store.SignIn(loginResponse(api.RoleAdmin))

	form := &MockView{name: "Form", hasInput: true}
	app.currentView = form

	for _, k := range []string{"q", "L", "?"} {
		_, cmd := app.Update(textKey(k))
		if cmd != nil {
			t.Errorf("key %q should be typed into the view, got a command", k)
		}
	}
	if got := strings.Join(form.keys, ""); got != "qL?" {
		t.Errorf("view received %q, want %q", got, "qL?")
	}
	if !app.store.SignedIn() {
		t.Error("L typed into an input must not sign out")
	}
	if app.currentView != form {
		t.Error("view should not change while typing")
	}
}

func TestCtrlCAlwaysQuits(t *testing.T) {
	app := newTestApp(t)
	app.currentView = &MockView{name: "Form", hasInput: true}

	_, cmd := app.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestQuitPopsDetailAndHelp(t *testing.T) {
	app := newTestApp(t)
	home := &MockView{name: "Home"}
	app.currentView = home

	app.Update(textKey("?"))
	if _, ok := app.currentView.(*view.HelpView); !ok {
		t.Fatalf("? should open help, got %T", app.currentView)
	}
	if len(app.viewStack) != 1 {
		t.Fatalf("viewStack = %d, want 1", len(app.viewStack))
	}

	_, cmd := app.Update(textKey("q"))
	if app.currentView != home {
		t.Errorf("q on help should return to Home, got %T", app.currentView)
	}
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Error("q on help with a stack must not quit")
		}
	}

	_, cmd = app.Update(textKey("q"))
	if cmd == nil {
		t.Fatal("q on Home should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q on Home should quit")
	}
}

func TestNavigationFlow(t *testing.T) {
	app := newTestApp(t)

	home := &MockView{name: "Home"}
	app.currentView = home

	browser := &MockView{name: "ResourceBrowser"}
	app.Update(view.NavigateMsg{View: browser})
	if app.currentView != browser || len(app.viewStack) != 1 {
		t.Fatalf("after push: current=%s stack=%d", app.currentView.StatusLine(), len(app.viewStack))
	}

	detail := &MockView{name: "DetailView"}
	app.Update(view.NavigateMsg{View: detail})
	if len(app.viewStack) != 2 {
		t.Fatalf("viewStack = %d, want 2", len(app.viewStack))
	}

	fresh := &MockView{name: "Fresh"}
	app.Update(view.NavigateMsg{View: fresh, ClearStack: true})
	if app.currentView != fresh {
		t.Errorf("current = %s, want Fresh", app.currentView.StatusLine())
	}
	if len(app.viewStack) != 0 {
		t.Errorf("ClearStack should empty the stack, got %d", len(app.viewStack))
	}
	for _, v := range []*MockView{home, browser, detail} {
		if !v.closed {
			t.Errorf("%s should be closed by ClearStack", v.name)
		}
	}
}

func TestNavigateBackWithEmptyStack(t *testing.T) {
	app := newTestApp(t)
	home := &MockView{name: "Home"}
	app.currentView = home

	app.Update(escMsg)
	app.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})

	if app.currentView != home {
		t.Error("back on an empty stack should keep the current view")
	}
	if home.closed {
		t.Error("the root view must not be closed")
	}
}

func TestMouseBackPops(t *testing.T) {
	app := newTestApp(t)
	home := &MockView{name: "Home"}
	app.viewStack = []view.View{home}
	app.currentView = &MockView{name: "DetailView"}

	app.Update(tea.MouseClickMsg{Button: tea.MouseBackward})

	if app.currentView != home {
		t.Errorf("mouse back should pop to Home, got %s", app.currentView.StatusLine())
	}
}

func TestInitShowsLogin(t *testing.T) {
	app := newTestApp(t)
	app.Init()

	if _, ok := app.currentView.(*view.LoginView); !ok {
		t.Errorf("Init() should show the login view, got %T", app.currentView)
	}
}

func TestSignedInShowsHome(t *testing.T) {
	app := newTestApp(t)
	app.Init()
	login := app.currentView

	app.Update(view.SignedInMsg{Response: loginResponse(api.RoleAdmin)})

	if _, ok := app.currentView.(*view.HomeView); !ok {
		t.Fatalf("after sign-in current view = %T, want *view.HomeView", app.currentView)
	}
	if len(app.viewStack) != 0 {
		t.Errorf("login must not stay on the stack, got %d views", len(app.viewStack))
	}
	if app.currentView == login {
		t.Error("login view should be replaced")
	}
	if !app.store.SignedIn() || app.store.Token() != "token" {
		t.Error("store should hold the session")
	}
}

func TestSignedInOpensStartEntity(t *testing.T) {
	tests := []struct {
		name        string
		role        api.Role
		wantBrowser bool
	}{
		{"allowed role", api.RoleManager, true},
		{"denied role", api.RoleClinician, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, WithStartEntity("patients"))
			app.Init()

			app.Update(view.SignedInMsg{Response: loginResponse(tt.role)})

			_, isBrowser := app.currentView.(*view.ResourceBrowser)
			if isBrowser != tt.wantBrowser {
				t.Fatalf("current view = %T, want browser = %v", app.currentView, tt.wantBrowser)
			}
			if !tt.wantBrowser {
				if _, ok := app.currentView.(*view.HomeView); !ok {
					t.Errorf("denied start entity should land on home, got %T", app.currentView)
				}
				return
			}
			if len(app.viewStack) != 1 {
				t.Fatalf("viewStack = %d, want home below the browser", len(app.viewStack))
			}
			if _, ok := app.viewStack[0].(*view.HomeView); !ok {
				t.Errorf("stack[0] = %T, want *view.HomeView", app.viewStack[0])
			}
		})
	}
}

func TestAuthRequiredSignsOut(t *testing.T) {
	app := newTestApp(t)
	app.store.SignIn(loginResponse(api.RoleAdmin))
	app.store.Handoff().Put("patients", "p-1", nil)

	home := &MockView{name: "Home"}
	browser := &MockView{name: "ResourceBrowser"}
	app.viewStack = []view.View{home}
	app.currentView = browser
	app.err = errors.New("stale")

	app.Update(view.AuthRequiredMsg{Cause: api.CauseSessionExpired})

	login, ok := app.currentView.(*view.LoginView)
	if !ok {
		t.Fatalf("current view = %T, want *view.LoginView", app.currentView)
	}
	if !strings.Contains(login.StatusLine(), "/login?session=expired") {
		t.Errorf("login should carry the cause, status line %q", login.StatusLine())
	}
	if app.store.SignedIn() {
		t.Error("session should be cleared")
	}
	if app.store.Handoff().Len() != 0 {
		t.Error("handoff cache should be cleared")
	}
	if len(app.viewStack) != 0 {
		t.Errorf("viewStack = %d, want 0", len(app.viewStack))
	}
	if !home.closed || !browser.closed {
		t.Error("every open view should be closed")
	}
	if app.err != nil {
		t.Error("stale error should be cleared")
	}
}

func TestLogoutKey(t *testing.T) {
	app := newTestApp(t)
	app.store.SignIn(loginResponse(api.RoleAdmin))
	app.currentView = &MockView{name: "Home"}

	app.Update(textKey("L"))

	login, ok := app.currentView.(*view.LoginView)
	if !ok {
		t.Fatalf("L should show the login view, got %T", app.currentView)
	}
	if strings.Contains(login.StatusLine(), "?") {
		t.Errorf("a manual sign-out has no cause, status line %q", login.StatusLine())
	}
	if app.store.SignedIn() {
		t.Error("L should clear the session")
	}
}

func TestLogoutKeyIgnoredWhenSignedOut(t *testing.T) {
	app := newTestApp(t)
	home := &MockView{name: "Home"}
	app.currentView = home

	app.Update(textKey("L"))

	if app.currentView != home {
		t.Errorf("L without a session should do nothing, got %T", app.currentView)
	}
}

func TestTransientStatusClears(t *testing.T) {
	app := newTestApp(t)
	app.currentView = &MockView{name: "Home"}

	_, cmd := app.Update(view.StatusMsg{Text: "exported"})
	if cmd == nil {
		t.Fatal("status should schedule a clear")
	}
	first := app.transientID

	app.Update(view.ErrorMsg{Err: errors.New("boom")})
	if app.status != "" {
		t.Error("error should replace the status")
	}

	// The first clear is stale once a newer flash was shown.
	app.Update(clearTransientMsg{id: first})
	if app.err == nil {
		t.Error("stale clear must not remove the newer error")
	}

	app.Update(clearTransientMsg{id: app.transientID})
	if app.err != nil || app.status != "" {
		t.Error("matching clear should remove the flash")
	}
}

func TestStatusBar(t *testing.T) {
	app := newTestApp(t)
	app.currentView = &MockView{name: "Patients • 3 rows"}

	if got := app.render(); !strings.Contains(got, "Patients • 3 rows") {
		t.Errorf("status bar should show the view status line, got %q", got)
	}

	app.Update(view.ErrorMsg{Err: errors.New("backend down")})
	if got := app.render(); !strings.Contains(got, "Error: backend down") {
		t.Errorf("status bar should show the error, got %q", got)
	}
}

func TestWarningScreenDismissal(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyPressMsg
	}{
		{"enter", tea.KeyPressMsg{Code: tea.KeyEnter}},
		{"space", tea.KeyPressMsg{Code: tea.KeySpace}},
		{"q", tea.KeyPressMsg{Code: 0, Text: "q"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.currentView = &MockView{name: "Login"}
			app.showWarnings = true
			app.warningsReady = true

			_, cmd := app.Update(tt.key)

			if app.showWarnings {
				t.Errorf("Expected showWarnings=false after %s key", tt.name)
			}
			if cmd != nil {
				t.Error("dismissing warnings must not quit")
			}
		})
	}
}

func TestWarningScreenWaitsForSize(t *testing.T) {
	app := newTestApp(t)
	mv := &MockView{name: "Login"}
	app.currentView = mv
	app.showWarnings = true

	// Keys that arrive before the first resize go to the view.
	app.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !app.showWarnings {
		t.Error("warnings should stay until the terminal is ready")
	}

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if app.showWarnings {
		t.Error("enter should dismiss warnings once sized")
	}
}
