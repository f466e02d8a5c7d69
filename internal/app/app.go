package app

import (
	"context"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/caredash/caredash/internal/api"
	"github.com/caredash/caredash/internal/config"
	"github.com/caredash/caredash/internal/export"
	"github.com/caredash/caredash/internal/log"
	"github.com/caredash/caredash/internal/registry"
	"github.com/caredash/caredash/internal/session"
	"github.com/caredash/caredash/internal/ui"
	"github.com/caredash/caredash/internal/view"
)

// transientTimeout is how long status and error flashes stay visible.
const transientTimeout = 3 * time.Second

// statusLines is the number of rows the app keeps below the current view.
const statusLines = 2

// clearTransientMsg clears the status flash it was scheduled for.
type clearTransientMsg struct {
	id uint64
}

// closer is implemented by views that hold resources beyond their lifetime
// on the stack.
type closer interface {
	Close()
}

// appStyles holds cached lipgloss styles for performance
type appStyles struct {
	status       lipgloss.Style
	readOnly     lipgloss.Style
	warningTitle lipgloss.Style
	warningItem  lipgloss.Style
	warningDim   lipgloss.Style
	warningBox   lipgloss.Style
}

func newAppStyles(width int) appStyles {
	t := ui.Current()
	return appStyles{
		status:       lipgloss.NewStyle().Background(t.TableHeader).Foreground(t.TableHeaderText).Padding(0, 1).Width(width),
		readOnly:     ui.ReadOnlyBadgeStyle(),
		warningTitle: lipgloss.NewStyle().Bold(true).Foreground(t.Pending).MarginBottom(1),
		warningItem:  lipgloss.NewStyle().Foreground(t.Warning),
		warningDim:   lipgloss.NewStyle().Foreground(t.TextDim).MarginTop(1),
		warningBox:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Pending).Padding(1, 2),
	}
}

// App is the main application model. It owns the view stack and the
// session lifecycle: login, role-gated navigation and forced logout.
type App struct {
	ctx         context.Context
	registry    *registry.Registry
	client      *api.Client
	store       *session.Store
	exporter    *export.Exporter
	startEntity string

	width  int
	height int

	currentView view.View
	viewStack   []view.View

	help help.Model
	keys keyMap

	err         error
	status      string
	transientID uint64

	showWarnings  bool
	warningsReady bool

	styles appStyles
}

// Option configures an App.
type Option func(*App)

// WithExporter enables table exports.
func WithExporter(e *export.Exporter) Option {
	return func(a *App) { a.exporter = e }
}

// WithStartEntity opens entity right after sign-in when the role allows it.
func WithStartEntity(entity string) Option {
	return func(a *App) { a.startEntity = entity }
}

// New creates the application model.
func New(ctx context.Context, reg *registry.Registry, client *api.Client, store *session.Store, opts ...Option) *App {
	a := &App{
		ctx:      ctx,
		registry: reg,
		client:   client,
		store:    store,
		help:     help.New(),
		keys:     defaultKeyMap(),
		styles:   newAppStyles(0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) env() view.Env {
	return view.Env{
		Ctx:      a.ctx,
		Registry: a.registry,
		Client:   a.client,
		Session:  a.store,
		Exporter: a.exporter,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	a.showWarnings = len(config.Global().Warnings()) > 0
	a.currentView = view.NewLoginView(a.env(), "")
	return a.currentView.Init()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.showWarnings && a.warningsReady {
		if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
			if keyMsg.Code == tea.KeyEnter || keyMsg.String() == "space" || keyMsg.String() == "q" {
				a.showWarnings = false
			}
			return a, nil
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.SetWidth(msg.Width)
		a.styles = newAppStyles(msg.Width)
		// The terminal is initialized once the first size arrives.
		a.warningsReady = true
		if a.currentView != nil {
			return a, a.resizeCurrent()
		}
		return a, nil

	case tea.MouseClickMsg:
		if msg.Button == tea.MouseBackward && len(a.viewStack) > 0 {
			return a, a.pop()
		}

	case tea.KeyPressMsg:
		if cmd, handled := a.handleKey(msg); handled {
			return a, cmd
		}

	case view.NavigateMsg:
		log.Debug("navigating", "clearStack", msg.ClearStack, "stackDepth", len(a.viewStack))
		if msg.ClearStack {
			a.closeAll()
		} else if a.currentView != nil {
			a.viewStack = append(a.viewStack, a.currentView)
		}
		return a, a.show(msg.View)

	case view.SignedInMsg:
		return a, a.signIn(msg.Response)

	case view.AuthRequiredMsg:
		log.Info("authentication required", "cause", msg.Cause)
		return a, a.signOut(msg.Cause)

	case view.ErrorMsg:
		log.Error("application error", "error", msg.Err)
		a.err = msg.Err
		a.status = ""
		return a, a.scheduleClear()

	case view.StatusMsg:
		a.status = msg.Text
		a.err = nil
		return a, a.scheduleClear()

	case clearTransientMsg:
		if msg.id == a.transientID {
			a.err = nil
			a.status = ""
		}
		return a, nil
	}

	return a, a.delegate(msg)
}

// handleKey processes global keys. It reports false when the key belongs to
// the current view.
func (a *App) handleKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return tea.Quit, true
	}

	// Views with focused input get every other key, esc included.
	if ic, ok := a.currentView.(view.InputCapture); ok && ic.HasActiveInput() {
		return a.delegate(msg), true
	}

	if view.IsEscKey(msg) || msg.Code == tea.KeyBackspace {
		if len(a.viewStack) > 0 {
			return a.pop(), true
		}
		return nil, true
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		switch a.currentView.(type) {
		case *view.DetailView, *view.HelpView:
			if len(a.viewStack) > 0 {
				return a.pop(), true
			}
		}
		return tea.Quit, true

	case key.Matches(msg, a.keys.Help):
		if _, ok := a.currentView.(*view.HelpView); ok {
			return nil, true
		}
		if a.currentView != nil {
			a.viewStack = append(a.viewStack, a.currentView)
		}
		return a.show(view.NewHelpView()), true

	case key.Matches(msg, a.keys.Theme):
		return a.cycleTheme(), true

	case key.Matches(msg, a.keys.Logout):
		if !a.store.SignedIn() {
			return nil, true
		}
		log.Info("signed out")
		return a.signOut(""), true
	}
	return nil, false
}

func (a *App) delegate(msg tea.Msg) tea.Cmd {
	if a.currentView == nil {
		return nil
	}
	model, cmd := a.currentView.Update(msg)
	if v, ok := model.(view.View); ok {
		a.currentView = v
	}
	return cmd
}

func (a *App) resizeCurrent() tea.Cmd {
	return a.currentView.SetSize(a.width, a.height-statusLines)
}

// show makes v the current view without touching the stack.
func (a *App) show(v view.View) tea.Cmd {
	a.currentView = v
	return tea.Batch(
		a.currentView.Init(),
		a.resizeCurrent(),
	)
}

// pop discards the current view and returns to the previous one.
func (a *App) pop() tea.Cmd {
	closeView(a.currentView)
	a.currentView = a.viewStack[len(a.viewStack)-1]
	a.viewStack = a.viewStack[:len(a.viewStack)-1]
	return a.resizeCurrent()
}

func (a *App) closeAll() {
	for _, v := range a.viewStack {
		closeView(v)
	}
	closeView(a.currentView)
	a.viewStack = nil
	a.currentView = nil
}

func closeView(v view.View) {
	if c, ok := v.(closer); ok {
		c.Close()
	}
}

func (a *App) signIn(resp *api.LoginResponse) tea.Cmd {
	a.store.SignIn(resp)
	user, _ := a.store.User()

	a.closeAll()
	env := a.env()
	home := view.NewHomeView(env)

	if a.startEntity == "" {
		return a.show(home)
	}
	if !a.registry.Allowed(a.startEntity, user.Role) {
		log.Warn("start entity not allowed for role", "entity", a.startEntity, "role", user.Role)
		return a.show(home)
	}
	// Esc from the start entity lands on the home view.
	a.viewStack = []view.View{home}
	return tea.Batch(home.Init(), home.SetSize(a.width, a.height-statusLines),
		a.show(view.NewResourceBrowser(env, a.startEntity)))
}

// signOut drops the session and every open view, then shows the login form.
func (a *App) signOut(cause api.Cause) tea.Cmd {
	a.store.Clear()
	a.closeAll()
	a.err = nil
	a.status = ""
	return a.show(view.NewLoginView(a.env(), cause))
}

func (a *App) scheduleClear() tea.Cmd {
	a.transientID++
	id := a.transientID
	return tea.Tick(transientTimeout, func(time.Time) tea.Msg {
		return clearTransientMsg{id: id}
	})
}

// cycleTheme switches to the next built-in theme and saves the choice.
func (a *App) cycleTheme() tea.Cmd {
	themes := ui.AvailableThemes()
	current := config.File().GetTheme()
	if current == "" {
		current = themes[0]
	}
	next := themes[0]
	for i, name := range themes {
		if name == current {
			next = themes[(i+1)%len(themes)]
			break
		}
	}
	if err := ui.SetTheme(next); err != nil {
		log.Warn("failed to switch theme", "theme", next, "error", err)
		return nil
	}
	config.File().SetTheme(next)
	if err := config.File().Save(); err != nil {
		log.Warn("failed to persist theme", "error", err)
	}
	a.styles = newAppStyles(a.width)

	// Stacked views cache styles too.
	for i, v := range a.viewStack {
		if m, _ := v.Update(view.ThemeChangedMsg{}); m != nil {
			if nv, ok := m.(view.View); ok {
				a.viewStack[i] = nv
			}
		}
	}
	return tea.Batch(a.delegate(view.ThemeChangedMsg{}), func() tea.Msg {
		return view.StatusMsg{Text: "theme: " + next}
	})
}

// newAltScreenView creates a View with AltScreen and mouse support enabled
func newAltScreenView(content string) tea.View {
	v := tea.NewView(content)
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	return v
}

// View implements tea.Model
func (a *App) View() tea.View {
	return newAltScreenView(a.render())
}

func (a *App) render() string {
	if a.showWarnings {
		return a.renderWarnings()
	}

	var content string
	if a.currentView != nil {
		content = a.currentView.ViewString()
	}

	var statusContent string
	switch {
	case a.err != nil:
		statusContent = ui.DangerStyle().Render("Error: " + a.err.Error())
	case a.status != "":
		statusContent = ui.SuccessStyle().Render(a.status)
	case a.currentView != nil:
		statusContent = a.currentView.StatusLine()
		if _, ok := a.currentView.(*view.HelpView); ok {
			statusContent += " • " + a.help.View(a.keys)
		}
	}

	if config.Global().ReadOnly() {
		statusContent = a.styles.readOnly.Render("READ-ONLY") + " " + statusContent
	}

	return content + "\n" + a.styles.status.Render(statusContent)
}

// renderWarnings renders the startup warnings modal
func (a *App) renderWarnings() string {
	warnings := config.Global().Warnings()
	s := a.styles

	var content string
	content += s.warningTitle.Render("⚠ Startup Warnings") + "\n\n"

	for _, w := range warnings {
		content += s.warningItem.Render("• "+w) + "\n"
	}

	content += "\n" + s.warningDim.Render("Press Enter, Space, or q to continue...")

	boxStyle := s.warningBox.Width(max(20, a.width-10))
	box := boxStyle.Render(content)

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Back   key.Binding
	Search key.Binding
	Help   key.Binding
	Theme  key.Binding
	Logout key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "theme"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "sign out"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns short help
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Theme, k.Logout, k.Quit}
}

// FullHelp returns full help
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back},
		{k.Search, k.Help, k.Theme, k.Logout, k.Quit},
	}
}
