// Package topic is the study view of a single topic: its content, progress
// and assignments. Opening a topic starts tracking it.
package topic

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/content"
	"github.com/abhisek/studyforge/internal/dates"
	"github.com/abhisek/studyforge/internal/progress"
	"github.com/abhisek/studyforge/internal/router"
	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/study"
	"github.com/abhisek/studyforge/internal/ui/components"
	"github.com/abhisek/studyforge/internal/ui/layout"
	"github.com/abhisek/studyforge/internal/ui/theme"
)

const step = 10

// Backend tracks progress and fetches assignments for a topic.
type Backend interface {
	EnsureProgress(ctx context.Context, topicID int64) (study.Progress, error)
	SaveProgress(ctx context.Context, t study.Topic, u progress.Update) (study.Progress, error)
	Assignments(ctx context.Context, topicID int64) ([]study.Assignment, error)
	GenerateAssignments(ctx context.Context, topicID int64) ([]study.Assignment, error)
}

// Navigator opens an assignment to take it.
type Navigator interface {
	Assignment(id int64) screen.Screen
}

type progressMsg struct {
	Progress study.Progress
	Err      error
}

type assignmentsMsg struct {
	Assignments []study.Assignment
	Generated   bool
	Err         error
}

// TopicScreen shows one topic of a syllabus.
type TopicScreen struct {
	ctx      context.Context
	backend  Backend
	nav      Navigator
	syllabus study.Syllabus
	topics   []study.Topic
	topic    study.Topic
	style    dates.Style

	scroll     int
	saving     bool
	generating bool
	prompt     *components.TextInput
	errMsg     string
	// selected indexes topic.Assignments; -1 is none.
	selected int
}

var _ screen.Screen = (*TopicScreen)(nil)
var _ screen.KeyHintProvider = (*TopicScreen)(nil)
var _ screen.EscapeHandler = (*TopicScreen)(nil)
var _ screen.Resumer = (*TopicScreen)(nil)

// New creates a TopicScreen for the topic with the given ID within topics.
// topics must be in study order; they drive previous/next navigation.
func New(ctx context.Context, backend Backend, nav Navigator, syl study.Syllabus, topics []study.Topic, topicID int64, style dates.Style) *TopicScreen {
	s := &TopicScreen{
		ctx:      ctx,
		backend:  backend,
		nav:      nav,
		syllabus: syl,
		topics:   topics,
		style:    style,
		selected: -1,
	}
	for _, t := range topics {
		if t.ID == topicID {
			s.topic = t
			break
		}
	}
	if s.topic.ID == 0 {
		s.topic.ID = topicID
	}
	return s
}

func (s *TopicScreen) Init() tea.Cmd {
	backend, id := s.backend, s.topic.ID
	cmds := []tea.Cmd{func() tea.Msg {
		p, err := backend.EnsureProgress(s.ctx, id)
		return progressMsg{Progress: p, Err: err}
	}}
	if len(s.topic.Assignments) == 0 {
		cmds = append(cmds, s.fetchAssignments())
	}
	return tea.Batch(cmds...)
}

// Resume refetches assignments, since one may have been submitted.
func (s *TopicScreen) Resume() tea.Cmd {
	return s.fetchAssignments()
}

func (s *TopicScreen) fetchAssignments() tea.Cmd {
	backend, id := s.backend, s.topic.ID
	return func() tea.Msg {
		as, err := backend.Assignments(s.ctx, id)
		return assignmentsMsg{Assignments: as, Err: err}
	}
}

func (s *TopicScreen) Title() string {
	if s.topic.Title == "" {
		return "Topic"
	}
	return s.topic.Title
}

func (s *TopicScreen) HandlesEscape() bool {
	return s.prompt != nil
}

func (s *TopicScreen) KeyHints() []layout.KeyHint {
	if s.prompt != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "+/-", Description: "Progress"},
		{Key: "p", Description: "Set %"},
		{Key: "c", Description: "Complete"},
		{Key: "[ ]", Description: "Prev/Next"},
		{Key: "a", Description: "Generate"},
		{Key: "Tab", Description: "Select assignment"},
		{Key: "Enter", Description: "Take"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TopicScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		s.saving = false
		if msg.Err != nil {
			s.errMsg = "Progress: " + msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		p := msg.Progress
		s.topic.Progress = &p
		return s, nil

	case assignmentsMsg:
		s.generating = false
		if msg.Err != nil {
			s.errMsg = "Assignments: " + msg.Err.Error()
			return s, nil
		}
		if msg.Generated {
			s.topic.Assignments = append(s.topic.Assignments, msg.Assignments...)
		} else {
			s.topic.Assignments = msg.Assignments
		}
		if s.selected >= len(s.topic.Assignments) {
			s.selected = len(s.topic.Assignments) - 1
		}
		return s, nil

	case tea.KeyPressMsg:
		if s.prompt != nil {
			return s, s.updatePrompt(msg)
		}
		switch msg.String() {
		case "up", "k":
			s.scroll = max(0, s.scroll-1)
		case "down", "j":
			s.scroll++
		case "+", "=", "right":
			return s, s.save(progress.Step(s.topic.Percentage(), step))
		case "-", "left":
			return s, s.save(progress.Step(s.topic.Percentage(), -step))
		case "c":
			return s, s.save(progress.NewUpdate(100))
		case "p":
			in := components.NewTextInput("Percent", "0-100", true, 3)
			s.prompt = &in
			return s, s.prompt.Focus()
		case "a":
			return s, s.generate()
		case "tab":
			if n := len(s.topic.Assignments); n > 0 {
				s.selected = (s.selected + 1) % n
			}
		case "shift+tab":
			if n := len(s.topic.Assignments); n > 0 {
				s.selected = (max(s.selected, 0) + n - 1) % n
			}
		case "enter":
			return s, s.take()
		case "[":
			return s, s.sibling(true)
		case "]":
			return s, s.sibling(false)
		}
	}
	return s, nil
}

func (s *TopicScreen) updatePrompt(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.prompt = nil
		return nil
	case "enter":
		n, err := s.prompt.NumericValue()
		if err != nil || n < 0 || n > 100 {
			s.errMsg = "Enter a percentage between 0 and 100."
			return nil
		}
		s.prompt = nil
		s.errMsg = ""
		return s.save(progress.NewUpdate(n))
	}
	var cmd tea.Cmd
	*s.prompt, cmd = s.prompt.Update(msg)
	return cmd
}

func (s *TopicScreen) save(u progress.Update) tea.Cmd {
	if s.saving {
		return nil
	}
	if s.topic.Progress != nil && u.Percentage == s.topic.Percentage() {
		return nil
	}
	s.saving = true
	backend, t := s.backend, s.topic
	return func() tea.Msg {
		p, err := backend.SaveProgress(s.ctx, t, u)
		return progressMsg{Progress: p, Err: err}
	}
}

func (s *TopicScreen) generate() tea.Cmd {
	if s.generating {
		return nil
	}
	s.generating = true
	backend, id := s.backend, s.topic.ID
	return func() tea.Msg {
		as, err := backend.GenerateAssignments(s.ctx, id)
		return assignmentsMsg{Assignments: as, Generated: true, Err: err}
	}
}

// take pushes the selected assignment.
func (s *TopicScreen) take() tea.Cmd {
	if s.selected < 0 || s.selected >= len(s.topic.Assignments) {
		return nil
	}
	next := s.nav.Assignment(s.topic.Assignments[s.selected].ID)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

// sibling replaces this screen with the previous or next topic.
func (s *TopicScreen) sibling(prev bool) tea.Cmd {
	before, after := progress.AdjacentTopics(s.topics, s.topic.ID)
	target := after
	if prev {
		target = before
	}
	if target == nil {
		return nil
	}
	next := New(s.ctx, s.backend, s.nav, s.syllabus, s.topics, target.ID, s.style)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *TopicScreen) View(width, height int) string {
	bodyWidth := min(width-4, 100)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	wrap := lipgloss.NewStyle().Width(bodyWidth)

	var header []string
	header = append(header, theme.Title.Render(s.topic.Title)+"  "+theme.StatusBadge(progress.TopicStatus(s.topic)))

	facts := []string{s.syllabus.Title}
	if s.topic.EstimatedDurationMinutes > 0 {
		facts = append(facts, progress.FormatDuration(s.topic.EstimatedDurationMinutes))
	}
	if d := s.topic.Deadline.Format(s.style); d != "" {
		facts = append(facts, "Due "+d)
	}
	header = append(header, dim.Render(strings.Join(facts, " · ")))

	barLabel := "Progress"
	if s.saving {
		barLabel = "Saving…"
	}
	header = append(header, components.NewProgressBar(barLabel, s.topic.Percentage(), true, min(bodyWidth, 60)).View())
	if s.prompt != nil {
		header = append(header, s.prompt.View())
	}
	if s.errMsg != "" {
		header = append(header, theme.ErrorText.Render(s.errMsg))
	}

	body := s.bodyLines(bodyWidth)
	headerText := strings.Join(header, "\n")
	avail := max(0, height-lipgloss.Height(headerText)-1)

	s.scroll = min(s.scroll, max(0, len(body)-avail))
	end := min(len(body), s.scroll+avail)
	visible := body[s.scroll:end]

	return "  " + strings.ReplaceAll(headerText, "\n", "\n  ") + "\n\n" +
		"  " + strings.ReplaceAll(wrap.Render(strings.Join(visible, "\n")), "\n", "\n  ")
}

func (s *TopicScreen) bodyLines(width int) []string {
	section := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	wrap := lipgloss.NewStyle().Width(width)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var out []string
	add := func(block string) {
		out = append(out, strings.Split(wrap.Render(block), "\n")...)
	}

	paras := content.Paragraphs(s.topic.Content)
	if len(paras) == 0 {
		add(dim.Italic(true).Render("No content for this topic yet."))
	}
	for i, p := range paras {
		if i > 0 {
			out = append(out, "")
		}
		add(p)
	}

	if len(s.topic.LearningObjectives) > 0 {
		out = append(out, "", section.Render("Learning objectives"))
		for _, o := range s.topic.LearningObjectives {
			add("• " + o)
		}
	}
	if len(s.topic.KeyTerms) > 0 {
		out = append(out, "", section.Render("Key terms"))
		add(strings.Join(s.topic.KeyTerms, ", "))
	}

	out = append(out, "", section.Render("Assignments"))
	switch {
	case s.generating:
		out = append(out, dim.Render("Generating assignments…"))
	case len(s.topic.Assignments) == 0:
		out = append(out, dim.Render("None yet. Press a to generate."))
	}
	for i, a := range s.topic.Assignments {
		line := "  " + s.assignmentLine(a)
		if i == s.selected {
			line = theme.Selected.Render("▸ " + s.assignmentLine(a))
		}
		out = append(out, line)
	}
	return out
}

func (s *TopicScreen) assignmentLine(a study.Assignment) string {
	mark := "○"
	status := "open"
	if a.Completed {
		mark = "✓"
		status = fmt.Sprintf("%d%% (%d/%d)", progress.AssignmentScore(a.EarnedPoints, a.MaxPoints), a.EarnedPoints, a.MaxPoints)
	}
	line := fmt.Sprintf("%s %s", mark, a.Title)
	if a.DifficultyLevel != "" {
		line += "  " + strings.ToLower(string(a.DifficultyLevel))
	}
	line += "  " + status
	if d := a.DueDate.Format(s.style); d != "" && !a.Completed {
		line += "  due " + d
	}
	return line
}
