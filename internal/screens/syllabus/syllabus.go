// Package syllabus shows one syllabus as an ordered list of topics with
// their progress, and lets the user adjust progress in place.
package syllabus

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/apiclient"
	"github.com/abhisek/studyforge/internal/dates"
	"github.com/abhisek/studyforge/internal/progress"
	"github.com/abhisek/studyforge/internal/router"
	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/study"
	"github.com/abhisek/studyforge/internal/ui/components"
	"github.com/abhisek/studyforge/internal/ui/layout"
	"github.com/abhisek/studyforge/internal/ui/theme"
)

// step is the percentage change for +/-.
const step = 10

// Backend loads and deletes a syllabus, generates its topics and writes
// topic progress.
type Backend interface {
	LoadSyllabus(ctx context.Context, syllabusID int64, withAssignments bool) (apiclient.SyllabusOverview, error)
	SaveProgress(ctx context.Context, t study.Topic, u progress.Update) (study.Progress, error)
	GenerateAndSaveTopics(ctx context.Context, syllabusID int64) ([]study.Topic, error)
	DeleteSyllabus(ctx context.Context, id int64) error
}

// Navigator builds the topic screen.
type Navigator interface {
	Topic(syl study.Syllabus, topics []study.Topic, topicID int64) screen.Screen
}

type overviewLoadedMsg struct {
	Overview apiclient.SyllabusOverview
	Err      error
}

type progressSavedMsg struct {
	TopicID  int64
	Progress study.Progress
	Err      error
}

type topicsGeneratedMsg struct{ Err error }

type deletedMsg struct{ Err error }

// SyllabusScreen lists a syllabus's topics in order.
type SyllabusScreen struct {
	ctx     context.Context
	backend Backend
	nav     Navigator
	id      int64
	style   dates.Style

	overview     apiclient.SyllabusOverview
	cursor       int
	scrollOffset int
	loading      bool
	loaded       bool
	saving       map[int64]bool
	errMsg       string

	generating    bool
	confirmDelete bool
	deleting      bool
}

var _ screen.Screen = (*SyllabusScreen)(nil)
var _ screen.KeyHintProvider = (*SyllabusScreen)(nil)
var _ screen.Resumer = (*SyllabusScreen)(nil)
var _ screen.EscapeHandler = (*SyllabusScreen)(nil)

// New creates a SyllabusScreen for the syllabus with the given ID.
func New(ctx context.Context, backend Backend, nav Navigator, id int64, style dates.Style) *SyllabusScreen {
	return &SyllabusScreen{
		ctx:     ctx,
		backend: backend,
		nav:     nav,
		id:      id,
		style:   style,
		saving:  make(map[int64]bool),
	}
}

func (s *SyllabusScreen) Init() tea.Cmd {
	return s.load()
}

func (s *SyllabusScreen) Resume() tea.Cmd {
	return s.load()
}

func (s *SyllabusScreen) Title() string {
	if s.overview.Syllabus.Title != "" {
		return s.overview.Syllabus.Title
	}
	return "Syllabus"
}

// HandlesEscape is true while the delete confirmation is shown.
func (s *SyllabusScreen) HandlesEscape() bool {
	return s.confirmDelete
}

func (s *SyllabusScreen) KeyHints() []layout.KeyHint {
	if s.confirmDelete {
		return []layout.KeyHint{
			{Key: "y", Description: "Delete"},
			{Key: "n/Esc", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Study"},
		{Key: "+/-", Description: "Progress"},
		{Key: "c", Description: "Complete"},
		{Key: "n", Description: "Next topic"},
		{Key: "g", Description: "Generate topics"},
		{Key: "x", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SyllabusScreen) load() tea.Cmd {
	if s.loading {
		return nil
	}
	s.loading = true
	backend, id := s.backend, s.id
	return func() tea.Msg {
		o, err := backend.LoadSyllabus(s.ctx, id, true)
		return overviewLoadedMsg{Overview: o, Err: err}
	}
}

func (s *SyllabusScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case overviewLoadedMsg:
		s.loading = false
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.overview = msg.Overview
		if s.cursor >= len(s.overview.Topics) {
			s.cursor = max(0, len(s.overview.Topics)-1)
		}
		return s, nil

	case progressSavedMsg:
		delete(s.saving, msg.TopicID)
		if msg.Err != nil {
			s.errMsg = "Could not save progress: " + msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		for i := range s.overview.Topics {
			if s.overview.Topics[i].ID == msg.TopicID {
				p := msg.Progress
				s.overview.Topics[i].Progress = &p
			}
		}
		return s, nil

	case topicsGeneratedMsg:
		s.generating = false
		if msg.Err != nil {
			s.errMsg = "Could not generate topics: " + msg.Err.Error()
			return s, nil
		}
		return s, s.load()

	case deletedMsg:
		s.deleting = false
		if msg.Err != nil {
			s.errMsg = "Could not delete syllabus: " + msg.Err.Error()
			return s, nil
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case tea.KeyPressMsg:
		if s.confirmDelete {
			return s, s.confirm(msg.String())
		}
		if s.deleting {
			return s, nil
		}
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.overview.Topics)-1 {
				s.cursor++
			}
		case "n":
			s.jumpToNext()
		case "r":
			return s, s.load()
		case "g":
			return s, s.generate()
		case "x":
			if s.loaded && s.overview.Syllabus.ID != 0 {
				s.confirmDelete = true
			}
		case "+", "=", "right":
			return s, s.adjust(func(pct int) progress.Update { return progress.Step(pct, step) })
		case "-", "left":
			return s, s.adjust(func(pct int) progress.Update { return progress.Step(pct, -step) })
		case "c":
			return s, s.adjust(func(int) progress.Update { return progress.NewUpdate(100) })
		case "enter":
			return s, s.open()
		}
	}
	return s, nil
}

func (s *SyllabusScreen) generate() tea.Cmd {
	if s.generating {
		return nil
	}
	s.generating = true
	s.errMsg = ""
	backend, id := s.backend, s.id
	return func() tea.Msg {
		_, err := backend.GenerateAndSaveTopics(s.ctx, id)
		return topicsGeneratedMsg{Err: err}
	}
}

func (s *SyllabusScreen) confirm(key string) tea.Cmd {
	switch key {
	case "y", "Y":
		s.confirmDelete = false
		s.deleting = true
		backend, id := s.backend, s.id
		return func() tea.Msg {
			return deletedMsg{Err: backend.DeleteSyllabus(s.ctx, id)}
		}
	case "n", "N", "esc":
		s.confirmDelete = false
	}
	return nil
}

func (s *SyllabusScreen) current() (study.Topic, bool) {
	if s.cursor < 0 || s.cursor >= len(s.overview.Topics) {
		return study.Topic{}, false
	}
	return s.overview.Topics[s.cursor], true
}

func (s *SyllabusScreen) jumpToNext() {
	next, ok := progress.NextTopic(s.overview.Topics)
	if !ok {
		return
	}
	for i, t := range s.overview.Topics {
		if t.ID == next.ID {
			s.cursor = i
			return
		}
	}
}

// adjust writes the update computed from the selected topic's current
// percentage. Only one write per topic is in flight.
func (s *SyllabusScreen) adjust(next func(pct int) progress.Update) tea.Cmd {
	t, ok := s.current()
	if !ok || s.saving[t.ID] {
		return nil
	}
	u := next(t.Percentage())
	if u.Percentage == t.Percentage() && t.Progress != nil {
		return nil
	}
	s.saving[t.ID] = true
	backend := s.backend
	return func() tea.Msg {
		p, err := backend.SaveProgress(s.ctx, t, u)
		return progressSavedMsg{TopicID: t.ID, Progress: p, Err: err}
	}
}

func (s *SyllabusScreen) open() tea.Cmd {
	t, ok := s.current()
	if !ok {
		return nil
	}
	sc := s.nav.Topic(s.overview.Syllabus, s.overview.Topics, t.ID)
	return func() tea.Msg { return router.PushScreenMsg{Screen: sc} }
}

func (s *SyllabusScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\nLoading syllabus...")
	}
	if s.errMsg != "" && len(s.overview.Topics) == 0 {
		return center.Foreground(theme.Error).Render("\n\n" + s.errMsg)
	}

	summary := s.renderSummary(width)
	var lines []string
	lines = append(lines, summary, "")
	switch {
	case s.confirmDelete:
		lines = append(lines, theme.ErrorText.Render(fmt.Sprintf("  Delete %q and all its topics? (y/n)", s.overview.Syllabus.Title)))
	case s.deleting:
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Accent).Render("  Deleting…"))
	case s.generating:
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Accent).Render("  Generating topics…"))
	case s.errMsg != "":
		lines = append(lines, theme.ErrorText.Render("  "+s.errMsg))
	}

	topics := s.overview.Topics
	if len(topics) == 0 {
		lines = append(lines, center.Foreground(theme.TextDim).Italic(true).Render("No topics yet. Press g to generate them."))
		return strings.Join(lines, "\n")
	}

	avail := height - lipgloss.Height(strings.Join(lines, "\n"))
	next, hasNext := progress.NextTopic(topics)
	start, end := layout.ListWindow(len(topics), s.cursor, s.scrollOffset, avail)
	s.scrollOffset = start
	for i := start; i < end; i++ {
		isNext := hasNext && topics[i].ID == next.ID
		lines = append(lines, s.renderTopicRow(topics[i], i == s.cursor, isNext, width))
	}
	return strings.Join(lines, "\n")
}

func (s *SyllabusScreen) renderSummary(width int) string {
	o := s.overview
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	head := theme.Title.Render(o.Syllabus.Title) + "  " + theme.StatusBadge(o.Status())
	bar := components.NewProgressBar("Overall", o.Aggregate(), true, min(width-6, 60)).View()

	done, total := progress.AssignmentCounts(o.Topics)
	facts := []string{
		progress.Timeline(o.Syllabus.StartDate, o.Syllabus.EndDate, s.style),
		fmt.Sprintf("%d/%d topics", progress.CompletedCount(o.Topics), len(o.Topics)),
		progress.FormatDuration(progress.TotalDuration(o.Topics)) + " total",
		fmt.Sprintf("%d/%d assignments", done, total),
	}

	parts := []string{head}
	if o.Syllabus.Description != "" {
		parts = append(parts, dim.Render(layout.Truncate(o.Syllabus.Description, width-8)))
	}
	parts = append(parts, bar, dim.Render(strings.Join(facts, " · ")))
	if up := progress.UpcomingAssignments(o.Topics); len(up) > 0 {
		due := up[0].DueDate.Format(s.style)
		if due == "" {
			due = "no due date"
		}
		parts = append(parts, dim.Render(fmt.Sprintf("Next assignment: %s (%s, %s)", up[0].Title, up[0].TopicTitle, due)))
	}
	return theme.Card.Width(min(width, 100)).Render(strings.Join(parts, "\n"))
}

func statusIcon(st progress.Status) string {
	switch st {
	case progress.Completed:
		return "✓"
	case progress.InProgress:
		return "◐"
	default:
		return "○"
	}
}

func (s *SyllabusScreen) renderTopicRow(t study.Topic, selected, isNext bool, width int) string {
	st := progress.TopicStatus(t)
	icon := lipgloss.NewStyle().Foreground(theme.StatusColor(st)).Render(statusIcon(st))

	meta := fmt.Sprintf("%3d%%", t.Percentage())
	if t.EstimatedDurationMinutes > 0 {
		meta += "  " + progress.FormatDuration(t.EstimatedDurationMinutes)
	}
	if d := t.Deadline.Format(s.style); d != "" {
		meta += "  due " + d
	}
	if s.saving[t.ID] {
		meta += "  saving…"
	}

	marker := "  "
	if isNext {
		marker = lipgloss.NewStyle().Foreground(theme.Accent).Render("» ")
	}
	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	nameWidth := max(10, width-lipgloss.Width(meta)-12)
	name := fmt.Sprintf("%-*s", nameWidth, layout.Truncate(fmt.Sprintf("%d. %s", t.OrderIndex, t.Title), nameWidth))
	nameStyle := lipgloss.NewStyle().Foreground(theme.Text)
	if selected {
		nameStyle = theme.Selected
	} else if st == progress.Completed {
		nameStyle = lipgloss.NewStyle().Foreground(theme.Success)
	}

	return fmt.Sprintf("  %s%s%s %s %s", cursor, marker, icon, nameStyle.Render(name), lipgloss.NewStyle().Foreground(theme.TextDim).Render(meta))
}
