// Package requests lists recent backend calls recorded in the local store.
package requests

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/router"
	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/store"
	"github.com/abhisek/studyforge/internal/ui/layout"
	"github.com/abhisek/studyforge/internal/ui/theme"
)

// pageSize is how many events are loaded.
const pageSize = 100

type requestsLoadedMsg struct {
	Events []store.RequestEvent
	Err    error
}

// RequestsScreen displays recent request events, newest first.
type RequestsScreen struct {
	ctx      context.Context
	repo     store.RequestEventRepo
	events   []store.RequestEvent
	selected int
	offset   int
	expanded map[string]bool
	failures bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*RequestsScreen)(nil)
var _ screen.KeyHintProvider = (*RequestsScreen)(nil)

// New creates a new RequestsScreen.
func New(ctx context.Context, repo store.RequestEventRepo) *RequestsScreen {
	return &RequestsScreen{
		ctx:      ctx,
		repo:     repo,
		expanded: make(map[string]bool),
	}
}

func (s *RequestsScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		evs, err := repo.Query(s.ctx, store.QueryOpts{Limit: pageSize})
		return requestsLoadedMsg{Events: evs, Err: err}
	}
}

func (s *RequestsScreen) Title() string {
	return "Requests"
}

func (s *RequestsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Details"},
		{Key: "f", Description: "Failures only"},
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

// visible returns the events shown under the current filter.
func (s *RequestsScreen) visible() []store.RequestEvent {
	if !s.failures {
		return s.events
	}
	var out []store.RequestEvent
	for _, ev := range s.events {
		if !ev.Success {
			out = append(out, ev)
		}
	}
	return out
}

func (s *RequestsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case requestsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.events = msg.Events
		s.selected = min(s.selected, max(0, len(s.visible())-1))
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.visible())-1 {
				s.selected++
			}
		case "f":
			s.failures = !s.failures
			s.selected = 0
			s.offset = 0
		case "r":
			return s, s.Init()
		case "enter":
			if vis := s.visible(); s.selected < len(vis) {
				id := vis[s.selected].ID
				s.expanded[id] = !s.expanded[id]
			}
		}
	}
	return s, nil
}

func (s *RequestsScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading requests...")
	}

	vis := s.visible()
	if len(vis) == 0 {
		msg := "No requests recorded yet."
		if s.failures {
			msg = "No failed requests."
		}
		return center.Foreground(theme.TextDim).Italic(true).Render("\n\n  " + msg)
	}

	var b strings.Builder
	title := fmt.Sprintf("  %d requests", len(vis))
	if s.failures {
		title += " (failures)"
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(title) + "\n\n")

	start, end := layout.ListWindow(len(vis), s.selected, s.offset, max(1, height-4))
	s.offset = start
	for i := start; i < end; i++ {
		ev := vis[i]
		b.WriteString(s.renderRow(ev, i == s.selected, width))
		b.WriteString("\n")
		if s.expanded[ev.ID] {
			b.WriteString(renderDetail(ev))
		}
	}
	return b.String()
}

func (s *RequestsScreen) renderRow(ev store.RequestEvent, selected bool, width int) string {
	prefix := "  "
	if selected {
		prefix = "> "
	}

	status := "ERR"
	if ev.Status > 0 {
		status = fmt.Sprint(ev.Status)
	}
	statusStyle := lipgloss.NewStyle().Foreground(theme.Success)
	if !ev.Success {
		statusStyle = lipgloss.NewStyle().Foreground(theme.Error)
	}

	attempts := ""
	if ev.Attempts > 1 {
		attempts = fmt.Sprintf("  ×%d", ev.Attempts)
	}

	path := layout.Truncate(ev.Path, max(10, width-50))
	line := fmt.Sprintf("%s%s  %-6s %-*s %s %6dms%s",
		prefix,
		ev.Timestamp.Local().Format("Jan 02 15:04:05"),
		ev.Method,
		max(10, width-50), path,
		statusStyle.Render(fmt.Sprintf("%3s", status)),
		ev.LatencyMs,
		attempts,
	)

	style := lipgloss.NewStyle().Foreground(theme.Text)
	if selected {
		style = style.Foreground(theme.Primary).Bold(true)
	}
	return style.Render(line)
}

func renderDetail(ev store.RequestEvent) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	lines := []string{
		"      id " + ev.ID,
		fmt.Sprintf("      sequence %d, attempts %d", ev.Sequence, ev.Attempts),
	}
	if ev.ErrorMessage != "" {
		lines = append(lines, theme.ErrorText.Render("      "+ev.ErrorMessage))
	}
	return dim.Render(strings.Join(lines, "\n")) + "\n"
}
