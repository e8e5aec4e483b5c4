// Package login is the sign-in screen. It only authenticates; the app
// navigates away when the session publishes a login event.
package login

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/apiclient"
	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/study"
	"github.com/abhisek/studyforge/internal/ui/components"
	"github.com/abhisek/studyforge/internal/ui/layout"
	"github.com/abhisek/studyforge/internal/ui/theme"
)

// Authenticator signs a user in.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (study.User, error)
}

type loginResultMsg struct {
	User study.User
	Err  error
}

const (
	fieldUsername = iota
	fieldPassword
	fieldSubmit
)

// LoginScreen collects credentials and signs in.
type LoginScreen struct {
	ctx      context.Context
	auth     Authenticator
	username components.TextInput
	password components.TextInput
	submit   components.Button
	focus    int
	notice   string
	errMsg   string
	signedIn bool
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen. notice is shown above the form, e.g. after the
// session expired.
func New(ctx context.Context, auth Authenticator, notice string) *LoginScreen {
	s := &LoginScreen{
		ctx:      ctx,
		auth:     auth,
		username: components.NewTextInput("Username", "username", false, 64),
		password: components.NewPasswordInput("Password", "password"),
		notice:   notice,
	}
	s.submit = components.NewButton("Sign in", false, s.signIn)
	s.submit.BusyLabel = "Signing in…"
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.setFocus(fieldUsername)
}

func (s *LoginScreen) Title() string {
	return "Sign in"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		s.submit.Busy = false
		if msg.Err != nil {
			s.errMsg = describe(msg.Err)
			return s, s.setFocus(fieldPassword)
		}
		s.errMsg = ""
		s.signedIn = true
		return s, nil

	case tea.KeyPressMsg:
		if s.submit.Busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % 3)
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + 2) % 3)
		case "enter":
			switch s.focus {
			case fieldUsername:
				return s, s.setFocus(fieldPassword)
			case fieldSubmit:
				var cmd tea.Cmd
				s.submit, cmd = s.submit.Update(msg)
				return s, cmd
			}
			return s, s.signIn()
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case fieldUsername:
		s.username, cmd = s.username.Update(msg)
	case fieldPassword:
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) setFocus(field int) tea.Cmd {
	s.focus = field
	s.username.Blur()
	s.password.Blur()
	s.submit.Active = field == fieldSubmit
	switch field {
	case fieldUsername:
		return s.username.Focus()
	case fieldPassword:
		return s.password.Focus()
	}
	return nil
}

func (s *LoginScreen) signIn() tea.Cmd {
	username := strings.TrimSpace(s.username.Value())
	password := s.password.Value()
	if username == "" || password == "" {
		s.errMsg = "Enter a username and password."
		return nil
	}
	s.errMsg = ""
	s.submit.Busy = true
	auth := s.auth
	return func() tea.Msg {
		u, err := auth.Login(s.ctx, username, password)
		return loginResultMsg{User: u, Err: err}
	}
}

// describe turns a sign-in failure into a message for the form.
func describe(err error) string {
	var apiErr *apiclient.APIError
	var unavailable *apiclient.ErrUnavailable
	switch {
	case errors.As(err, &unavailable):
		return "The study server is unavailable. Try again shortly."
	case errors.As(err, &apiErr) && (apiErr.Status == 401 || apiErr.Status == 403):
		return "Invalid username or password."
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	default:
		return err.Error()
	}
}

func (s *LoginScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Render("Welcome back"))
	sections = append(sections, theme.Subtitle.Render("Sign in to continue studying"))
	if s.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Render(s.notice))
	}
	sections = append(sections, "", s.username.View(), s.password.View(), "", s.submit.View())

	switch {
	case s.errMsg != "":
		sections = append(sections, "", theme.ErrorText.Render(s.errMsg))
	case s.signedIn:
		sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.Success).Render("Signed in."))
	}

	form := theme.Card.Width(min(width-4, 56)).Render(strings.Join(sections, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, form)
}
