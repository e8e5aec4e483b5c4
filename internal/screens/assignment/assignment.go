// Package assignment takes an assignment one question at a time, submits the
// answers and shows the graded result.
package assignment

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/progress"
	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/study"
	"github.com/abhisek/studyforge/internal/ui/components"
	"github.com/abhisek/studyforge/internal/ui/layout"
	"github.com/abhisek/studyforge/internal/ui/theme"
)

// Backend fetches and grades assignments.
type Backend interface {
	Assignment(ctx context.Context, id int64) (study.Assignment, error)
	SubmitAnswers(ctx context.Context, req study.SubmitRequest) (study.Assignment, error)
}

type loadedMsg struct {
	Assignment study.Assignment
	Err        error
}

type gradedMsg struct {
	Assignment study.Assignment
	Err        error
}

// AssignmentScreen walks the questions of one assignment.
type AssignmentScreen struct {
	ctx     context.Context
	backend Backend
	id      int64

	assignment study.Assignment
	loaded     bool
	current    int
	answers    map[int64]string
	input      components.TextInput
	submitting bool
	graded     bool
	errMsg     string
}

var _ screen.Screen = (*AssignmentScreen)(nil)
var _ screen.KeyHintProvider = (*AssignmentScreen)(nil)

// New creates an AssignmentScreen for the assignment with the given ID.
func New(ctx context.Context, backend Backend, id int64) *AssignmentScreen {
	return &AssignmentScreen{
		ctx:     ctx,
		backend: backend,
		id:      id,
		answers: make(map[int64]string),
		input:   components.NewTextInput("Answer", "type your answer", false, 0),
	}
}

func (s *AssignmentScreen) Init() tea.Cmd {
	backend, id := s.backend, s.id
	return func() tea.Msg {
		a, err := backend.Assignment(s.ctx, id)
		return loadedMsg{Assignment: a, Err: err}
	}
}

func (s *AssignmentScreen) Title() string {
	if s.assignment.Title != "" {
		return s.assignment.Title
	}
	return "Assignment"
}

func (s *AssignmentScreen) KeyHints() []layout.KeyHint {
	if s.graded || !s.loaded {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next"},
		{Key: "Shift+Tab", Description: "Previous"},
	}
	if q, ok := s.question(); ok && len(q.Choices()) > 0 {
		hints = append(hints, layout.KeyHint{Key: "1-9", Description: "Choose"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Next/Submit"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

func (s *AssignmentScreen) question() (study.Question, bool) {
	qs := s.assignment.Questions
	if s.current < 0 || s.current >= len(qs) {
		return study.Question{}, false
	}
	return qs[s.current], true
}

func (s *AssignmentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.assignment = msg.Assignment
		s.graded = msg.Assignment.Completed
		for _, q := range msg.Assignment.Questions {
			if q.UserAnswer != "" {
				s.answers[q.ID] = q.UserAnswer
			}
		}
		return s, s.move(0)

	case gradedMsg:
		s.submitting = false
		if msg.Err != nil {
			s.errMsg = "Could not submit: " + msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.assignment = msg.Assignment
		s.graded = true
		return s, nil

	case tea.KeyPressMsg:
		if !s.loaded || s.graded || s.submitting {
			return s, nil
		}
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *AssignmentScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	q, ok := s.question()
	if !ok {
		return nil
	}
	switch k := msg.String(); k {
	case "tab":
		return s.move(s.current + 1)
	case "shift+tab":
		return s.move(s.current - 1)
	case "enter":
		s.keep()
		if s.current < len(s.assignment.Questions)-1 {
			return s.move(s.current + 1)
		}
		return s.submit()
	default:
		if choices := q.Choices(); len(choices) > 0 {
			if len(k) == 1 && k[0] >= '1' && int(k[0]-'0') <= len(choices) {
				s.answers[q.ID] = choices[k[0]-'1']
			}
			return nil
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

// keep stores the free text answer of the current question.
func (s *AssignmentScreen) keep() {
	q, ok := s.question()
	if !ok || len(q.Choices()) > 0 {
		return
	}
	if v := strings.TrimSpace(s.input.Value()); v != "" {
		s.answers[q.ID] = v
	} else {
		delete(s.answers, q.ID)
	}
}

// move saves the answer being typed and shows question i, clamped to the
// list.
func (s *AssignmentScreen) move(i int) tea.Cmd {
	if s.input.Focused() {
		s.keep()
	}
	s.current = max(0, min(i, len(s.assignment.Questions)-1))
	s.input.Blur()
	q, ok := s.question()
	if !ok || len(q.Choices()) > 0 || s.graded {
		return nil
	}
	s.input.SetValue(s.answers[q.ID])
	return s.input.Focus()
}

func (s *AssignmentScreen) submit() tea.Cmd {
	for i, q := range s.assignment.Questions {
		if s.answers[q.ID] == "" {
			s.errMsg = fmt.Sprintf("Answer question %d first.", i+1)
			return s.move(i)
		}
	}
	s.errMsg = ""
	s.submitting = true
	backend := s.backend
	req := study.NewSubmitRequest(s.assignment, s.answers)
	return func() tea.Msg {
		a, err := backend.SubmitAnswers(s.ctx, req)
		return gradedMsg{Assignment: a, Err: err}
	}
}

func (s *AssignmentScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\nLoading assignment...")
	}
	if s.assignment.ID == 0 && s.errMsg != "" {
		return center.Foreground(theme.Error).Render("\n\n" + s.errMsg)
	}
	bodyWidth := min(width-4, 100)
	var lines []string
	if s.graded {
		lines = s.resultLines(bodyWidth)
	} else {
		lines = s.questionLines(bodyWidth)
	}
	return "  " + strings.ReplaceAll(strings.Join(lines, "\n"), "\n", "\n  ")
}

func (s *AssignmentScreen) questionLines(width int) []string {
	a := s.assignment
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	wrap := lipgloss.NewStyle().Width(width)

	lines := []string{theme.Title.Render(a.Title)}
	if a.Content != "" {
		lines = append(lines, dim.Render(wrap.Render(a.Content)))
	}
	q, ok := s.question()
	if !ok {
		return append(lines, "", dim.Italic(true).Render("This assignment has no questions."))
	}

	answered := 0
	for _, q := range a.Questions {
		if s.answers[q.ID] != "" {
			answered++
		}
	}
	lines = append(lines, dim.Render(fmt.Sprintf("Question %d of %d · %d answered", s.current+1, len(a.Questions), answered)), "")
	lines = append(lines, wrap.Render(q.Text))
	if q.Points > 0 {
		lines = append(lines, dim.Render(fmt.Sprintf("%d points", q.Points)))
	}
	lines = append(lines, "")

	if choices := q.Choices(); len(choices) > 0 {
		for i, c := range choices {
			mark := "○"
			style := lipgloss.NewStyle().Foreground(theme.Text)
			if s.answers[q.ID] == c {
				mark = "●"
				style = theme.Selected
			}
			lines = append(lines, style.Render(fmt.Sprintf("%d. %s %s", i+1, mark, c)))
		}
	} else {
		lines = append(lines, s.input.View())
	}

	switch {
	case s.submitting:
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Accent).Render("Submitting…"))
	case s.errMsg != "":
		lines = append(lines, "", theme.ErrorText.Render(s.errMsg))
	}
	return lines
}

func (s *AssignmentScreen) resultLines(width int) []string {
	a := s.assignment
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	wrap := lipgloss.NewStyle().Width(width)

	score := progress.AssignmentScore(a.EarnedPoints, a.MaxPoints)
	lines := []string{
		theme.Title.Render(a.Title) + "  " + theme.StatusBadge(progress.Completed),
		components.NewProgressBar("Score", score, true, min(width, 60)).View(),
		dim.Render(fmt.Sprintf("%d of %d points", a.EarnedPoints, a.MaxPoints)),
	}
	for i, q := range a.Questions {
		mark := "•"
		if q.IsCorrect != nil {
			if *q.IsCorrect {
				mark = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
			} else {
				mark = lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
			}
		}
		lines = append(lines, "", fmt.Sprintf("%s %d. %s", mark, i+1, wrap.Render(q.Text)))
		answer := q.UserAnswer
		if answer == "" {
			answer = s.answers[q.ID]
		}
		if answer != "" {
			lines = append(lines, dim.Render("   Your answer: "+answer))
		}
		if q.CorrectAnswer != "" {
			lines = append(lines, dim.Render("   Correct answer: "+q.CorrectAnswer))
		}
	}
	return lines
}
