package view

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/caredash/caredash/internal/api"
	"github.com/caredash/caredash/internal/config"
	apperrors "github.com/caredash/caredash/internal/errors"
	"github.com/caredash/caredash/internal/log"
	"github.com/caredash/caredash/internal/ui"
)

type loginViewStyles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	input  lipgloss.Style
	notice lipgloss.Style
	error  lipgloss.Style
	hint   lipgloss.Style
	box    lipgloss.Style
}

func newLoginViewStyles() loginViewStyles {
	return loginViewStyles{
		title:  ui.TitleStyle(),
		label:  ui.DimStyle().Width(10),
		input:  ui.InputFieldStyle(),
		notice: ui.WarningStyle(),
		error:  ui.DangerStyle(),
		hint:   ui.DimStyle(),
		box:    ui.BoxStyle().Padding(1, 2),
	}
}

const (
	fieldEmail = iota
	fieldPassword
	fieldCount
)

// LoginView asks for credentials and exchanges them for a session token.
type LoginView struct {
	env    Env
	cause  api.Cause
	inputs [fieldCount]textinput.Model
	focus  int

	submitting bool
	err        error

	width   int
	height  int
	spinner spinner.Model
	styles  loginViewStyles
}

type loginResultMsg struct {
	resp *api.LoginResponse
	err  error
}

// NewLoginView creates the login form. cause explains a forced logout and may
// be empty.
func NewLoginView(env Env, cause api.Cause) *LoginView {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = ""
	email.CharLimit = 254
	email.SetValue(config.Global().DefaultEmail())

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	v := &LoginView{
		env:     env,
		cause:   cause,
		inputs:  [fieldCount]textinput.Model{email, password},
		spinner: ui.NewSpinner(),
		styles:  newLoginViewStyles(),
	}
	if email.Value() != "" {
		v.focus = fieldPassword
	}
	return v
}

// Init implements tea.Model
func (v *LoginView) Init() tea.Cmd {
	return v.focusInput(v.focus)
}

func (v *LoginView) focusInput(i int) tea.Cmd {
	v.focus = i
	var cmd tea.Cmd
	for j := range v.inputs {
		if j == i {
			cmd = v.inputs[j].Focus()
		} else {
			v.inputs[j].Blur()
		}
	}
	return cmd
}

// Update implements tea.Model
func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		v.submitting = false
		if msg.err != nil {
			log.Warn("login failed", "error", msg.err)
			v.err = msg.err
			v.inputs[fieldPassword].SetValue("")
			return v, v.focusInput(fieldPassword)
		}
		resp := msg.resp
		return v, func() tea.Msg { return SignedInMsg{Response: resp} }

	case spinner.TickMsg:
		if v.submitting {
			var cmd tea.Cmd
			v.spinner, cmd = v.spinner.Update(msg)
			return v, cmd
		}
		return v, nil

	case ThemeChangedMsg:
		v.styles = newLoginViewStyles()
		return v, nil

	case tea.KeyPressMsg:
		if v.submitting {
			return v, nil
		}
		switch msg.String() {
		case "tab", "down":
			return v, v.focusInput((v.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return v, v.focusInput((v.focus + fieldCount - 1) % fieldCount)
		case "enter":
			if v.focus == fieldEmail {
				return v, v.focusInput(fieldPassword)
			}
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return v, cmd
}

func (v *LoginView) submit() tea.Cmd {
	email := strings.TrimSpace(v.inputs[fieldEmail].Value())
	password := v.inputs[fieldPassword].Value()
	if email == "" || password == "" {
		v.err = errMissingCredentials
		return nil
	}
	if v.env.Client == nil {
		return nil
	}

	v.err = nil
	v.submitting = true
	client := v.env.Client
	parent := v.env.Ctx
	timeout := config.File().LoginTimeout()
	return tea.Batch(func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		resp, err := client.Login(ctx, email, password)
		return loginResultMsg{resp: resp, err: err}
	}, v.spinner.Tick)
}

type loginError string

func (e loginError) Error() string { return string(e) }

const errMissingCredentials = loginError("email and password are required")

// notice explains why the login form is shown again.
func (v *LoginView) notice() string {
	switch v.cause {
	case api.CauseSessionExpired:
		return "Your session expired. Please sign in again."
	case api.CauseAuthRequired:
		return "Please sign in to continue."
	}
	return ""
}

// ViewString returns the view content as a string
func (v *LoginView) ViewString() string {
	s := v.styles

	var b strings.Builder
	b.WriteString(s.title.Render("caredash") + "\n")
	b.WriteString(s.hint.Render(apiHost(v.apiURL())) + "\n\n")

	if n := v.notice(); n != "" {
		b.WriteString(s.notice.Render(n) + "\n\n")
	}

	labels := [fieldCount]string{"Email", "Password"}
	for i := range v.inputs {
		b.WriteString(s.label.Render(labels[i]) + s.input.Render(v.inputs[i].View()) + "\n")
	}
	b.WriteString("\n")

	switch {
	case v.submitting:
		b.WriteString(v.spinner.View() + " Signing in...")
	case v.err != nil:
		b.WriteString(s.error.Render(loginErrorText(v.err)))
	default:
		b.WriteString(s.hint.Render("enter: sign in • tab: next field"))
	}

	box := s.box.Render(b.String())
	if v.width == 0 || v.height == 0 {
		return box
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, box)
}

func (v *LoginView) apiURL() string {
	if v.env.Client != nil {
		return v.env.Client.BaseURL()
	}
	return config.Global().BaseURL()
}

// loginErrorText prefers the backend's message over the wrapped error chain.
func loginErrorText(err error) string {
	var apiErr *api.Error
	if apperrors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// View implements tea.Model
func (v *LoginView) View() tea.View {
	return tea.NewView(v.ViewString())
}

// SetSize implements View
func (v *LoginView) SetSize(width, height int) tea.Cmd {
	v.width = width
	v.height = height
	for i := range v.inputs {
		v.inputs[i].SetWidth(max(20, min(48, width-24)))
	}
	return nil
}

// StatusLine implements View
func (v *LoginView) StatusLine() string {
	return "Sign in • " + api.LoginPath(v.cause) + " • ctrl+c:quit"
}

// HasActiveInput implements InputCapture. The form always owns the keyboard.
func (v *LoginView) HasActiveInput() bool {
	return true
}
