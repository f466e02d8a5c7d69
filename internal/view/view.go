package view

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	tea "charm.land/bubbletea/v2"

	"github.com/caredash/caredash/internal/api"
	"github.com/caredash/caredash/internal/dao"
	"github.com/caredash/caredash/internal/export"
	"github.com/caredash/caredash/internal/log"
	"github.com/caredash/caredash/internal/registry"
	"github.com/caredash/caredash/internal/render"
	"github.com/caredash/caredash/internal/session"
)

// SearchPlaceholder is the placeholder text for search inputs
const SearchPlaceholder = "search..."

// LoadingMessage is the standard message shown while loading
const LoadingMessage = "Loading..."

// viewSeq numbers view instances. Async results carry the number of the view
// that requested them, since the app hands every message to the current view.
var viewSeq atomic.Uint64

func nextViewID() uint64 { return viewSeq.Add(1) }

// View is the interface for all views in the application
type View interface {
	tea.Model

	// SetSize updates the view dimensions
	SetSize(width, height int) tea.Cmd

	// StatusLine returns the status line text for this view
	StatusLine() string

	// ViewString returns the view content as a string (for internal composition)
	ViewString() string
}

// InputCapture is an optional interface for views that capture input
type InputCapture interface {
	// HasActiveInput returns true if the view has active input (search, login form, etc.)
	HasActiveInput() bool
}

// Env is what every view needs to reach the backend and the session.
type Env struct {
	Ctx      context.Context
	Registry *registry.Registry
	Client   *api.Client
	Session  *session.Store
	// Exporter is nil when exports are not configured.
	Exporter *export.Exporter
}

// Role returns the signed-in user's role.
func (e Env) Role() api.Role {
	if e.Session == nil {
		return ""
	}
	return e.Session.Role()
}

// NavigateMsg is sent when navigating to a new view
type NavigateMsg struct {
	View       View
	ClearStack bool // If true, clear the view stack (go home)
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Err error
}

// StatusMsg flashes a transient message in the status line
type StatusMsg struct {
	Text string
}

// RefreshMsg tells the view to reload its data
type RefreshMsg struct{}

// ThemeChangedMsg tells views to reload their cached styles
type ThemeChangedMsg struct{}

// SignedInMsg is sent by the login view after a successful login
type SignedInMsg struct {
	Response *api.LoginResponse
}

// AuthRequiredMsg asks the app to drop the session and show the login view.
type AuthRequiredMsg struct {
	Cause api.Cause
}

// Refreshable is an interface for views that can refresh their data
// Views like ResourceBrowser implement this, while HelpView does not
type Refreshable interface {
	View
	// CanRefresh returns true if this view can meaningfully refresh its data
	CanRefresh() bool
}

// IsEscKey returns true if the key message represents an escape key press.
func IsEscKey(msg tea.KeyPressMsg) bool {
	return msg.String() == "esc" || msg.Code == tea.KeyEscape
}

// authRedirect returns a command that reports an auth failure, or nil for any
// other error.
func authRedirect(err error) tea.Cmd {
	cause, ok := api.AuthCause(err)
	if !ok {
		return nil
	}
	log.Info("backend rejected the session", "cause", string(cause))
	return func() tea.Msg {
		return AuthRequiredMsg{Cause: cause}
	}
}

// NavigationHelper provides common navigation functionality
type NavigationHelper struct {
	Env      Env
	Renderer render.Renderer
}

// navigations returns the shortcuts the current role may follow.
func (h *NavigationHelper) navigations(resource dao.Resource) []render.Navigation {
	if h.Renderer == nil || resource == nil {
		return nil
	}
	navigator, ok := h.Renderer.(render.Navigator)
	if !ok {
		return nil
	}

	var out []render.Navigation
	for _, nav := range navigator.Navigations(resource) {
		if h.Env.Registry != nil && !h.Env.Registry.Allowed(nav.Entity, h.Env.Role()) {
			continue
		}
		out = append(out, nav)
	}
	return out
}

// FormatShortcuts returns a formatted string of navigation shortcuts
func (h *NavigationHelper) FormatShortcuts(resource dao.Resource) string {
	navigations := h.navigations(resource)
	if len(navigations) == 0 {
		return ""
	}

	parts := make([]string, 0, len(navigations))
	for _, nav := range navigations {
		parts = append(parts, fmt.Sprintf("%s:%s", nav.Key, nav.Label))
	}
	return strings.Join(parts, " ")
}

// HandleKey handles navigation key press and returns a command if navigation occurred
func (h *NavigationHelper) HandleKey(key string, resource dao.Resource) tea.Cmd {
	for _, nav := range h.navigations(resource) {
		if nav.Key != key {
			continue
		}
		browser := NewResourceBrowserWithFilter(h.Env, nav.Entity, nav.FilterField, nav.FilterValue)
		return func() tea.Msg {
			return NavigateMsg{View: browser}
		}
	}
	return nil
}
