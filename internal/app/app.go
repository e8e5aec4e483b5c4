package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/auth"
	"github.com/abhisek/studyforge/internal/router"
	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/ui/layout"
)

// sessionEventMsg carries an auth event into the Bubble Tea loop.
type sessionEventMsg struct {
	Event auth.Event
	OK    bool
}

const expiredNotice = "Your session has expired. Sign in again."

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   Deps
	nav    *navigator
	router *router.Router
	events <-chan auth.Event
	width  int
	height int
}

// newAppModel starts on the dashboard when a session is held and on the
// login screen otherwise. It subscribes to session events; the returned
// function unsubscribes. Screen requests are cancelled with ctx.
func newAppModel(ctx context.Context, deps Deps) (AppModel, func()) {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	nav := &navigator{ctx: ctx, deps: deps}
	events, unsubscribe := deps.Session().Subscribe()

	var initial screen.Screen
	if deps.Session().Get().Valid() && !deps.Session().Expired() {
		initial = nav.Dashboard()
	} else {
		initial = nav.Login("")
	}

	return AppModel{
		deps:   deps,
		nav:    nav,
		router: router.New(initial),
		events: events,
	}, unsubscribe
}

// waitForSession blocks on the next session event.
func waitForSession(events <-chan auth.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return sessionEventMsg{Event: ev, OK: ok}
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), waitForSession(m.events))
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionEventMsg:
		if !msg.OK {
			return m, nil
		}
		return m, tea.Batch(m.onSession(msg.Event), waitForSession(m.events))

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// onSession redirects on session changes: sign-in lands on the dashboard,
// sign-out and expiry replace the whole stack with the login screen.
func (m AppModel) onSession(ev auth.Event) tea.Cmd {
	m.deps.Log.Info("session event", zap.Stringer("kind", ev.Kind), zap.String("user", ev.User.Username))
	switch ev.Kind {
	case auth.Login:
		return m.router.Reset(m.nav.Dashboard())
	case auth.Expired:
		return m.router.Reset(m.nav.Login(expiredNotice))
	case auth.Logout:
		return m.router.Reset(m.nav.Login(""))
	}
	return nil
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	user := ""
	if s := m.deps.Session().Get(); s.Valid() {
		user = s.User.DisplayName()
	}
	header := layout.RenderHeader(title, user, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(footerHints, p.KeyHints()...)
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, deps Deps) error {
	model, unsubscribe := newAppModel(ctx, deps)
	defer unsubscribe()

	p := tea.NewProgram(model, tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
