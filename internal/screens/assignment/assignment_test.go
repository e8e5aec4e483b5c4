package assignment

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyforge/internal/study"
)

type fakeBackend struct {
	assignment study.Assignment
	loadErr    error
	submitErr  error
	submitted  []study.SubmitRequest
}

func (f *fakeBackend) Assignment(_ context.Context, id int64) (study.Assignment, error) {
	if f.loadErr != nil {
		return study.Assignment{}, f.loadErr
	}
	return f.assignment, nil
}

func (f *fakeBackend) SubmitAnswers(_ context.Context, req study.SubmitRequest) (study.Assignment, error) {
	f.submitted = append(f.submitted, req)
	if f.submitErr != nil {
		return study.Assignment{}, f.submitErr
	}
	right, wrong := true, false
	graded := f.assignment
	graded.Completed = true
	graded.EarnedPoints = 7
	graded.Questions = append([]study.Question(nil), f.assignment.Questions...)
	for i := range graded.Questions {
		graded.Questions[i].UserAnswer = req.UserAnswers[i]
		graded.Questions[i].IsCorrect = &right
	}
	graded.Questions[2].IsCorrect = &wrong
	graded.Questions[2].CorrectAnswer = "Tail recursion"
	return graded, nil
}

func quiz() study.Assignment {
	return study.Assignment{
		ID: 5, Title: "Recursion drill", MaxPoints: 10,
		Questions: []study.Question{
			{ID: 31, Text: "Cost of binary search?", Type: study.QuestionMultipleChoice, Points: 4,
				Options: []study.QuestionOption{{ID: 1, Text: "O(n)"}, {ID: 2, Text: "O(log n)"}}},
			{ID: 32, Text: "Recursion needs a base case.", Type: study.QuestionTrueFalse, Points: 3},
			{ID: 33, Text: "Name the optimisation.", Type: study.QuestionShortAnswer, Points: 3},
		},
	}
}

func opened(t *testing.T, b *fakeBackend) *AssignmentScreen {
	t.Helper()
	s := New(context.Background(), b, 5)
	s.Update(s.Init()())
	require.True(t, s.loaded)
	return s
}

func press(s *AssignmentScreen, k string) tea.Cmd {
	var msg tea.KeyPressMsg
	switch k {
	case "enter":
		msg = tea.KeyPressMsg{Code: tea.KeyEnter}
	case "tab":
		msg = tea.KeyPressMsg{Code: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	default:
		msg = tea.KeyPressMsg{Code: rune(k[0]), Text: k}
	}
	_, cmd := s.Update(msg)
	return cmd
}

func typeText(s *AssignmentScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestAssignment_AnswerAndSubmit(t *testing.T) {
	b := &fakeBackend{assignment: quiz()}
	s := opened(t, b)
	assert.Equal(t, "Recursion drill", s.Title())

	view := s.View(100, 40)
	assert.Contains(t, view, "Question 1 of 3")
	assert.Contains(t, view, "2. ○ O(log n)")

	press(s, "2")
	assert.Contains(t, s.View(100, 40), "2. ● O(log n)")
	press(s, "9")
	assert.Equal(t, "O(log n)", s.answers[31], "out of range keys are ignored")

	press(s, "enter")
	assert.Equal(t, 1, s.current)
	press(s, "1")
	press(s, "enter")
	assert.Equal(t, 2, s.current)
	assert.True(t, s.input.Focused())
	typeText(s, "Tail calls")

	cmd := press(s, "enter")
	require.NotNil(t, cmd)
	assert.Contains(t, s.View(100, 40), "Submitting")
	s.Update(cmd())

	require.Len(t, b.submitted, 1)
	assert.Equal(t, study.SubmitRequest{
		AssignmentID: 5,
		QuestionIDs:  []int64{31, 32, 33},
		UserAnswers:  []string{"O(log n)", "True", "Tail calls"},
	}, b.submitted[0])

	assert.True(t, s.graded)
	view = s.View(100, 40)
	for _, want := range []string{"Score", "70%", "7 of 10 points", "Your answer: Tail calls", "Correct answer: Tail recursion"} {
		assert.Contains(t, view, want)
	}
	assert.Nil(t, press(s, "1"), "graded assignments take no input")
}

func TestAssignment_RequiresEveryAnswer(t *testing.T) {
	b := &fakeBackend{assignment: quiz()}
	s := opened(t, b)

	press(s, "tab")
	press(s, "tab")
	press(s, "enter")

	assert.Empty(t, b.submitted)
	assert.Equal(t, 0, s.current)
	assert.Contains(t, s.View(100, 40), "Answer question 1 first.")
}

func TestAssignment_TextAnswerSurvivesMoves(t *testing.T) {
	a := quiz()
	a.Questions[2].UserAnswer = "Memoisation"
	s := opened(t, &fakeBackend{assignment: a})
	assert.Equal(t, "Memoisation", s.answers[33], "saved answers are restored")

	press(s, "tab")
	press(s, "tab")
	assert.Equal(t, "Memoisation", s.input.Value())
	typeText(s, "!")
	press(s, "shift+tab")
	assert.Equal(t, 1, s.current)
	assert.Equal(t, "Memoisation!", s.answers[33])
	assert.Nil(t, press(s, "shift+tab"))
	assert.Nil(t, press(s, "shift+tab"))
	assert.Equal(t, 0, s.current)
}

func TestAssignment_SubmitError(t *testing.T) {
	a := quiz()
	a.Questions = a.Questions[:1]
	b := &fakeBackend{assignment: a, submitErr: errors.New("server error")}
	s := opened(t, b)

	press(s, "1")
	cmd := press(s, "enter")
	require.NotNil(t, cmd)
	s.Update(cmd())

	assert.False(t, s.graded)
	assert.False(t, s.submitting)
	assert.Contains(t, s.View(100, 40), "Could not submit: server error")
}

func TestAssignment_CompletedOpensResults(t *testing.T) {
	a := quiz()
	a.Completed = true
	a.EarnedPoints = 10
	s := opened(t, &fakeBackend{assignment: a})

	assert.True(t, s.graded)
	assert.Contains(t, s.View(100, 40), "100%")
}

func TestAssignment_LoadError(t *testing.T) {
	s := opened(t, &fakeBackend{loadErr: errors.New("load assignment 5: not found")})
	assert.Contains(t, s.View(100, 40), "not found")
	assert.Equal(t, "Assignment", s.Title())
}
