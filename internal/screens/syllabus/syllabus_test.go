package syllabus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyforge/internal/apiclient"
	"github.com/abhisek/studyforge/internal/dates"
	"github.com/abhisek/studyforge/internal/progress"
	"github.com/abhisek/studyforge/internal/router"
	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/study"
)

type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

type save struct {
	topicID int64
	update  progress.Update
	tracked bool
}

type fakeBackend struct {
	mu       sync.Mutex
	overview apiclient.SyllabusOverview
	loadErr  error
	saveErr  error
	saves    []save
	loads    int
	loadCtx  error
	genErr   error
	genFor   int64
	deleted  []int64
	delErr   error
}

func (f *fakeBackend) LoadSyllabus(ctx context.Context, id int64, withAssignments bool) (apiclient.SyllabusOverview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	f.loadCtx = ctx.Err()
	return f.overview, f.loadErr
}

func (f *fakeBackend) GenerateAndSaveTopics(_ context.Context, syllabusID int64) ([]study.Topic, error) {
	f.genFor = syllabusID
	if f.genErr != nil {
		return nil, f.genErr
	}
	f.overview.Topics = append(f.overview.Topics, study.Topic{ID: 4, Title: "Heaps", OrderIndex: 4})
	return f.overview.Topics, nil
}

func (f *fakeBackend) DeleteSyllabus(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.delErr
}

func (f *fakeBackend) SaveProgress(_ context.Context, t study.Topic, u progress.Update) (study.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, save{topicID: t.ID, update: u, tracked: t.Progress != nil})
	if f.saveErr != nil {
		return study.Progress{}, f.saveErr
	}
	return study.Progress{ID: t.ID * 10, TopicID: t.ID, CompletionPercentage: u.Percentage, Completed: u.Completed}, nil
}

type fakeNav struct{ topicID int64 }

func (n *fakeNav) Topic(_ study.Syllabus, _ []study.Topic, id int64) screen.Screen {
	n.topicID = id
	return &stubScreen{title: fmt.Sprintf("topic %d", id)}
}

func overview() apiclient.SyllabusOverview {
	return apiclient.SyllabusOverview{
		Syllabus: study.Syllabus{ID: 7, Title: "Algorithms", Description: "CS201"},
		Topics: []study.Topic{
			{ID: 1, Title: "Sorting", OrderIndex: 1, EstimatedDurationMinutes: 90,
				Progress: &study.Progress{ID: 11, CompletionPercentage: 100, Completed: true}},
			{ID: 2, Title: "Graphs", OrderIndex: 2,
				Progress:    &study.Progress{ID: 12, CompletionPercentage: 40},
				Assignments: []study.Assignment{{ID: 5, Title: "BFS drill"}}},
			{ID: 3, Title: "Trees", OrderIndex: 3},
		},
	}
}

func loaded(t *testing.T, b *fakeBackend, nav *fakeNav) *SyllabusScreen {
	t.Helper()
	s := New(context.Background(), b, nav, 7, dates.Medium)
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
	return s
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	}
	return tea.KeyPressMsg{Code: rune(s[0]), Text: s}
}

func TestSyllabus_View(t *testing.T) {
	s := loaded(t, &fakeBackend{overview: overview()}, &fakeNav{})
	assert.Equal(t, "Algorithms", s.Title())

	view := s.View(100, 30)
	for _, want := range []string{"Algorithms", "In Progress", "47%", "1/3 topics", "1h 30m total", "0/1 assignments", "Next assignment: BFS drill", "Sorting", "Graphs", "Trees"} {
		assert.Contains(t, view, want)
	}
}

func TestSyllabus_StepProgress(t *testing.T) {
	b := &fakeBackend{overview: overview()}
	s := loaded(t, b, &fakeNav{})

	s.Update(key("down"))
	_, cmd := s.Update(key("+"))
	require.NotNil(t, cmd)
	assert.True(t, s.saving[2])

	_, dup := s.Update(key("+"))
	assert.Nil(t, dup, "one write per topic in flight")

	s.Update(cmd())
	assert.False(t, s.saving[2])
	require.Len(t, b.saves, 1)
	assert.Equal(t, save{topicID: 2, update: progress.Update{Percentage: 50}, tracked: true}, b.saves[0])
	assert.Equal(t, 50, s.overview.Topics[1].Percentage())
	assert.Equal(t, 50, s.overview.Aggregate())
}

func TestSyllabus_CompleteUntrackedTopic(t *testing.T) {
	b := &fakeBackend{overview: overview()}
	s := loaded(t, b, &fakeNav{})
	s.cursor = 2

	_, cmd := s.Update(key("c"))
	require.NotNil(t, cmd)
	s.Update(cmd())

	require.Len(t, b.saves, 1)
	assert.False(t, b.saves[0].tracked)
	assert.Equal(t, progress.Update{Percentage: 100, Completed: true}, b.saves[0].update)
	assert.True(t, s.overview.Topics[2].Completed())
}

func TestSyllabus_NoOpAtBounds(t *testing.T) {
	b := &fakeBackend{overview: overview()}
	s := loaded(t, b, &fakeNav{})

	_, cmd := s.Update(key("+"))
	assert.Nil(t, cmd, "already complete")
	_, cmd = s.Update(key("c"))
	assert.Nil(t, cmd)
	assert.Empty(t, b.saves)
}

func TestSyllabus_SaveError(t *testing.T) {
	b := &fakeBackend{overview: overview(), saveErr: errors.New("boom")}
	s := loaded(t, b, &fakeNav{})
	s.cursor = 1

	_, cmd := s.Update(key("-"))
	s.Update(cmd())
	assert.Equal(t, 40, s.overview.Topics[1].Percentage(), "progress unchanged on failure")
	assert.Contains(t, s.View(100, 30), "Could not save progress")
}

func TestSyllabus_NextJumpsToResumableTopic(t *testing.T) {
	s := loaded(t, &fakeBackend{overview: overview()}, &fakeNav{})
	s.Update(key("n"))
	assert.Equal(t, 1, s.cursor)
}

func TestSyllabus_EnterOpensTopic(t *testing.T) {
	nav := &fakeNav{}
	s := loaded(t, &fakeBackend{overview: overview()}, nav)
	s.Update(key("down"))
	s.Update(key("down"))

	_, cmd := s.Update(key("enter"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "topic 3", msg.Screen.Title())
	assert.Equal(t, int64(3), nav.topicID)
}

func TestSyllabus_LoadError(t *testing.T) {
	s := loaded(t, &fakeBackend{loadErr: errors.New("load syllabus 7: not found")}, &fakeNav{})
	assert.Contains(t, s.View(100, 30), "not found")
	assert.Equal(t, "Syllabus", s.Title())
}

func TestSyllabus_GenerateTopicsReloads(t *testing.T) {
	b := &fakeBackend{overview: overview()}
	s := loaded(t, b, &fakeNav{})

	_, cmd := s.Update(key("g"))
	require.NotNil(t, cmd)
	assert.Contains(t, s.View(100, 30), "Generating topics")
	_, dup := s.Update(key("g"))
	assert.Nil(t, dup)

	_, cmd = s.Update(cmd())
	require.NotNil(t, cmd, "reload after generating")
	s.Update(cmd())
	assert.Equal(t, int64(7), b.genFor)
	assert.Equal(t, 2, b.loads)
	require.Len(t, s.overview.Topics, 4)
	assert.Contains(t, s.View(100, 30), "Heaps")
}

func TestSyllabus_GenerateTopicsError(t *testing.T) {
	b := &fakeBackend{overview: overview(), genErr: errors.New("service unavailable")}
	s := loaded(t, b, &fakeNav{})

	_, cmd := s.Update(key("g"))
	_, cmd = s.Update(cmd())
	assert.Nil(t, cmd)
	assert.Contains(t, s.View(100, 30), "Could not generate topics")
	assert.Len(t, s.overview.Topics, 3)
}

func TestSyllabus_DeleteAsksFirst(t *testing.T) {
	b := &fakeBackend{overview: overview()}
	s := loaded(t, b, &fakeNav{})

	s.Update(key("x"))
	assert.True(t, s.HandlesEscape())
	assert.Contains(t, s.View(100, 30), `Delete "Algorithms"`)

	_, cmd := s.Update(key("esc"))
	assert.Nil(t, cmd)
	assert.False(t, s.HandlesEscape())
	assert.Empty(t, b.deleted)

	s.Update(key("x"))
	_, cmd = s.Update(key("y"))
	require.NotNil(t, cmd)
	_, cmd = s.Update(cmd())
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
	assert.Equal(t, []int64{7}, b.deleted)
}

func TestSyllabus_DeleteError(t *testing.T) {
	b := &fakeBackend{overview: overview(), delErr: errors.New("server error")}
	s := loaded(t, b, &fakeNav{})

	s.Update(key("x"))
	_, cmd := s.Update(key("y"))
	_, cmd = s.Update(cmd())
	assert.Nil(t, cmd)
	assert.Contains(t, s.View(100, 30), "Could not delete syllabus")
}

func TestSyllabus_UsesScreenContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := &fakeBackend{overview: overview()}
	s := New(ctx, b, &fakeNav{}, 7, dates.Medium)
	s.Update(s.Init()())
	assert.ErrorIs(t, b.loadCtx, context.Canceled)
}
