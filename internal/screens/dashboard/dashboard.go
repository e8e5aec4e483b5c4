// Package dashboard lists the user's syllabi with their overall progress.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/apiclient"
	"github.com/abhisek/studyforge/internal/dates"
	"github.com/abhisek/studyforge/internal/progress"
	"github.com/abhisek/studyforge/internal/router"
	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/ui/components"
	"github.com/abhisek/studyforge/internal/ui/layout"
	"github.com/abhisek/studyforge/internal/ui/theme"
)

// Backend loads the dashboard and ends the session.
type Backend interface {
	LoadDashboard(ctx context.Context) (apiclient.Dashboard, error)
	Logout(ctx context.Context) error
}

// Navigator builds the screens reachable from the dashboard.
type Navigator interface {
	Syllabus(id int64) screen.Screen
	Requests() screen.Screen
	Upload() screen.Screen
}

type dashboardLoadedMsg struct {
	Dashboard apiclient.Dashboard
	Err       error
}

type signedOutMsg struct{ Err error }

// DashboardScreen is the home screen once signed in.
type DashboardScreen struct {
	ctx     context.Context
	backend Backend
	nav     Navigator
	style   dates.Style

	data    apiclient.Dashboard
	menu    components.Menu
	loading bool
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.Resumer = (*DashboardScreen)(nil)

// New creates a DashboardScreen.
func New(ctx context.Context, backend Backend, nav Navigator, style dates.Style) *DashboardScreen {
	return &DashboardScreen{ctx: ctx, backend: backend, nav: nav, style: style}
}

func (s *DashboardScreen) Init() tea.Cmd {
	return s.load()
}

// Resume reloads so progress changed on deeper screens shows up.
func (s *DashboardScreen) Resume() tea.Cmd {
	return s.load()
}

func (s *DashboardScreen) Title() string {
	return "Dashboard"
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "r", Description: "Refresh"},
		{Key: "u", Description: "Upload"},
		{Key: "h", Description: "Requests"},
		{Key: "l", Description: "Sign out"},
	}
}

func (s *DashboardScreen) load() tea.Cmd {
	if s.loading {
		return nil
	}
	s.loading = true
	backend := s.backend
	return func() tea.Msg {
		d, err := backend.LoadDashboard(s.ctx)
		return dashboardLoadedMsg{Dashboard: d, Err: err}
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		s.loading = false
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = describe(msg.Err)
			return s, nil
		}
		s.errMsg = ""
		s.setData(msg.Dashboard)
		return s, nil

	case signedOutMsg:
		if msg.Err != nil {
			s.errMsg = "Sign out failed: " + msg.Err.Error()
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "r":
			return s, s.load()
		case "u":
			return s, push(s.nav.Upload())
		case "h":
			return s, push(s.nav.Requests())
		case "l":
			backend := s.backend
			return s, func() tea.Msg {
				return signedOutMsg{Err: backend.Logout(s.ctx)}
			}
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *DashboardScreen) setData(d apiclient.Dashboard) {
	s.data = d
	selected := s.menu.Selected

	items := make([]components.MenuItem, 0, len(d.Syllabi))
	for _, o := range d.Syllabi {
		id := o.Syllabus.ID
		items = append(items, components.MenuItem{
			Label:  o.Syllabus.Title,
			Detail: s.detail(o),
			Action: func() tea.Cmd { return push(s.nav.Syllabus(id)) },
		})
	}
	s.menu = components.NewMenu(items)
	if selected < len(items) {
		s.menu.Selected = selected
	}
}

func (s *DashboardScreen) detail(o apiclient.SyllabusOverview) string {
	bar := components.NewProgressBar("", o.Aggregate(), true, 30).View()
	topics := fmt.Sprintf("%d/%d topics", progress.CompletedCount(o.Topics), len(o.Topics))
	timeline := progress.Timeline(o.Syllabus.StartDate, o.Syllabus.EndDate, s.style)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	return bar + "  " + theme.StatusBadge(o.Status()) + "  " + dim.Render(topics+" · "+timeline)
}

func push(sc screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: sc} }
}

func describe(err error) string {
	switch {
	case errors.Is(err, apiclient.ErrAuthExpired):
		return "Your session has expired."
	case errors.As(err, new(*apiclient.ErrUnavailable)):
		return "The study server is unavailable. Press r to retry."
	default:
		return err.Error()
	}
}

func (s *DashboardScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\nLoading your syllabi...")
	}
	if s.errMsg != "" && len(s.menu.Items) == 0 {
		return center.Foreground(theme.Error).Render("\n\n" + s.errMsg)
	}

	var b strings.Builder
	b.WriteString(renderStats(s.data.Stats, width))
	b.WriteString("\n")
	if s.errMsg != "" {
		b.WriteString(theme.ErrorText.Render("  "+s.errMsg) + "\n")
	}
	b.WriteString("\n")

	if len(s.menu.Items) == 0 {
		b.WriteString(center.Foreground(theme.TextDim).Italic(true).
			Render("No syllabi yet. Press u to upload a document."))
		return b.String()
	}

	used := lipgloss.Height(b.String())
	b.WriteString(s.menu.View(width, height-used))
	return b.String()
}

func renderStats(st progress.Stats, width int) string {
	value := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	cell := func(v, l string) string {
		return value.Render(v) + " " + label.Render(l)
	}

	cells := []string{
		cell(fmt.Sprint(st.TotalSyllabi), "syllabi"),
		cell(fmt.Sprint(st.CompletedSyllabi), "completed"),
		cell(fmt.Sprint(st.InProgressSyllabi), "in progress"),
		cell(fmt.Sprintf("%d/%d", st.CompletedTopics, st.TotalTopics), "topics done"),
		cell(fmt.Sprintf("%d%%", st.AverageCompletion), "overall"),
	}
	return theme.Card.Width(min(width, 100)).Render(strings.Join(cells, "    "))
}
