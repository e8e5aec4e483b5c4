package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyforge/internal/screen"
)

type stubScreen struct {
	title string
	inits int
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

// resumingScreen counts Resume calls.
type resumingScreen struct {
	stubScreen
	resumed int
}

func (s *resumingScreen) Resume() tea.Cmd {
	s.resumed++
	return func() tea.Msg { return nil }
}

func titles(r *Router) []string {
	out := make([]string, 0, r.Depth())
	for _, s := range r.stack {
		out = append(out, s.Title())
	}
	return out
}

func TestNavigationMessages(t *testing.T) {
	tests := []struct {
		name  string
		start []string
		msg   func(next *stubScreen) tea.Msg
		want  []string
	}{
		{
			name:  "push",
			start: []string{"dashboard"},
			msg:   func(n *stubScreen) tea.Msg { return PushScreenMsg{Screen: n} },
			want:  []string{"dashboard", "next"},
		},
		{
			name:  "replace keeps depth",
			start: []string{"dashboard", "topic 1"},
			msg:   func(n *stubScreen) tea.Msg { return ReplaceScreenMsg{Screen: n} },
			want:  []string{"dashboard", "next"},
		},
		{
			name:  "reset drops the stack",
			start: []string{"dashboard", "syllabus", "topic 1"},
			msg:   func(n *stubScreen) tea.Msg { return ResetScreenMsg{Screen: n} },
			want:  []string{"next"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&stubScreen{title: tt.start[0]})
			for _, title := range tt.start[1:] {
				r.Push(&stubScreen{title: title})
			}

			next := &stubScreen{title: "next"}
			r.Update(tt.msg(next))

			assert.Equal(t, tt.want, titles(r))
			assert.Equal(t, 1, next.inits, "Init runs once on the new screen")
		})
	}
}

func TestPop(t *testing.T) {
	r := New(&stubScreen{title: "dashboard"})
	r.Push(&stubScreen{title: "syllabus"})

	r.Update(PopScreenMsg{})
	assert.Equal(t, []string{"dashboard"}, titles(r))

	r.Pop()
	assert.Equal(t, 1, r.Depth(), "the last screen is never popped")
}

func TestPopResumesScreenUnderneath(t *testing.T) {
	base := &resumingScreen{stubScreen: stubScreen{title: "dashboard"}}
	r := New(base)
	r.Push(&stubScreen{title: "syllabus"})

	cmd := r.Update(PopScreenMsg{})
	assert.Equal(t, 1, base.resumed)
	assert.NotNil(t, cmd, "the resume command is returned")

	r.Pop()
	assert.Equal(t, 1, base.resumed, "no resume when nothing was popped")
}

func TestReplaceOnEmptyStack(t *testing.T) {
	r := &Router{}
	require.Nil(t, r.Active())
	assert.Equal(t, "", r.View(80, 24))
	assert.Nil(t, r.Update(tea.KeyPressMsg{Code: 'x'}))

	r.Replace(&stubScreen{title: "login"})
	assert.Equal(t, []string{"login"}, titles(r))
}

func TestUpdateForwardsToActive(t *testing.T) {
	r := New(&stubScreen{title: "dashboard"})
	r.Push(&stubScreen{title: "topic"})

	assert.Nil(t, r.Update(tea.KeyPressMsg{Code: 'x'}))
	assert.Equal(t, "topic", r.View(80, 24))
}
