package apiclient

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyforge/internal/progress"
)

func syllabusBackend(t *testing.T, inFlight, peak *atomic.Int32) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/syllabi/user/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []map[string]any{
			{"id": 10, "title": "Algorithms", "startDate": []int{2024, 1, 8}},
			{"id": 20, "title": "Empty"},
		})
	})
	mux.HandleFunc("GET /api/syllabi/10", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"id": 10, "title": "Algorithms"})
	})
	mux.HandleFunc("GET /api/topics/syllabus/10", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []map[string]any{
			{"id": 3, "title": "Graphs", "orderIndex": 2},
			{"id": 1, "title": "Sorting", "orderIndex": 0},
			{"id": 2, "title": "Trees", "orderIndex": 1},
		})
	})
	mux.HandleFunc("GET /api/topics/syllabus/20", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []map[string]any{})
	})
	mux.HandleFunc("GET /api/progress/syllabus/10", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []map[string]any{
			{"topicId": 1, "completionPercentage": 100, "completed": true},
			{"topicId": 2, "completionPercentage": 40, "completed": false},
		})
	})
	mux.HandleFunc("GET /api/progress/syllabus/20", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []map[string]any{})
	})
	mux.HandleFunc("GET /api/assignments/topic/{id}", func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		writeJSON(w, 200, []map[string]any{
			{"id": 100, "title": "Quiz " + r.PathValue("id"), "isCompleted": r.PathValue("id") == "1"},
		})
	})
	return mux
}

func TestLoadSyllabus(t *testing.T) {
	var inFlight, peak atomic.Int32
	c, _ := newTestClient(t, syllabusBackend(t, &inFlight, &peak))
	c.cfg.FanoutLimit = 2

	ov, err := c.LoadSyllabus(context.Background(), 10, true)
	require.NoError(t, err)

	require.Len(t, ov.Topics, 3)
	assert.Equal(t, "Sorting", ov.Topics[0].Title)
	assert.Equal(t, "Graphs", ov.Topics[2].Title)
	assert.Equal(t, 100, ov.Topics[0].Percentage())
	assert.Nil(t, ov.Topics[2].Progress)

	// (100 + 40 + 0) / 3 = 46.67
	assert.Equal(t, 47, ov.Aggregate())
	assert.Equal(t, progress.InProgress, ov.Status())

	next, ok := progress.NextTopic(ov.Topics)
	require.True(t, ok)
	assert.Equal(t, "Trees", next.Title)

	for _, topic := range ov.Topics {
		require.Len(t, topic.Assignments, 1)
	}
	done, total := progress.AssignmentCounts(ov.Topics)
	assert.Equal(t, 1, done)
	assert.Equal(t, 3, total)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestLoadSyllabus_FailureCancels(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/syllabi/10", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, map[string]any{"message": "Syllabus not found"})
	})
	mux.HandleFunc("GET /api/topics/syllabus/10", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []map[string]any{})
	})
	mux.HandleFunc("GET /api/progress/syllabus/10", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []map[string]any{})
	})
	c, _ := newTestClient(t, mux)

	_, err := c.LoadSyllabus(context.Background(), 10, false)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestLoadDashboard(t *testing.T) {
	var inFlight, peak atomic.Int32
	c, _ := newTestClient(t, syllabusBackend(t, &inFlight, &peak))

	d, err := c.LoadDashboard(context.Background())
	require.NoError(t, err)

	require.Len(t, d.Syllabi, 2)
	assert.Equal(t, 47, d.Syllabi[0].Aggregate())
	assert.Equal(t, 0, d.Syllabi[1].Aggregate())
	assert.Equal(t, progress.NotStarted, d.Syllabi[1].Status())

	assert.Equal(t, progress.Stats{
		TotalSyllabi:      2,
		CompletedSyllabi:  0,
		InProgressSyllabi: 1,
		CompletedTopics:   1,
		TotalTopics:       2,
		AverageCompletion: 50,
	}, d.Stats)
}
