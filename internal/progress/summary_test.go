package progress

import (
	"testing"
	"time"

	"github.com/abhisek/studyforge/internal/dates"
	"github.com/abhisek/studyforge/internal/study"
)

func TestSummarize(t *testing.T) {
	syllabi := []study.Syllabus{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	records := map[int64][]study.Progress{
		1: {{Completed: true}, {Completed: true}},
		2: {{Completed: true}, {Completed: false}, {Completed: false}},
		3: {{Completed: false}},
		// 4 has no records
	}

	got := Summarize(syllabi, records)
	want := Stats{
		TotalSyllabi:      4,
		CompletedSyllabi:  1,
		InProgressSyllabi: 1,
		CompletedTopics:   3,
		TotalTopics:       6,
		AverageCompletion: 50,
	}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
}

func TestSummarize_NoTopics(t *testing.T) {
	got := Summarize([]study.Syllabus{{ID: 1}}, nil)
	if got.AverageCompletion != 0 || got.TotalSyllabi != 1 || got.CompletedSyllabi != 0 {
		t.Errorf("Summarize = %+v", got)
	}
}

func TestWithProgress(t *testing.T) {
	topics := []study.Topic{bare(1), bare(2), topic(3, 20, false)}
	records := []study.Progress{{TopicID: 2, CompletionPercentage: 70}}

	got := WithProgress(topics, records)
	if got[0].Progress != nil {
		t.Error("topic 1 should have no progress")
	}
	if got[1].Percentage() != 70 {
		t.Errorf("topic 2 percentage = %d, want 70", got[1].Percentage())
	}
	if got[2].Percentage() != 20 {
		t.Errorf("topic 3 percentage = %d, want 20", got[2].Percentage())
	}
	if topics[1].Progress != nil {
		t.Error("input slice must not be modified")
	}
}

func TestSortByOrder(t *testing.T) {
	topics := []study.Topic{{ID: 1, OrderIndex: 3}, {ID: 2, OrderIndex: 1}, {ID: 3, OrderIndex: 1}}
	SortByOrder(topics)
	if topics[0].ID != 2 || topics[1].ID != 3 || topics[2].ID != 1 {
		t.Errorf("unexpected order: %d %d %d", topics[0].ID, topics[1].ID, topics[2].ID)
	}
}

func TestAdjacentTopics(t *testing.T) {
	topics := []study.Topic{bare(1), bare(2), bare(3)}

	prev, next := AdjacentTopics(topics, 2)
	if prev == nil || prev.ID != 1 || next == nil || next.ID != 3 {
		t.Errorf("middle: prev=%v next=%v", prev, next)
	}

	prev, next = AdjacentTopics(topics, 1)
	if prev != nil || next == nil || next.ID != 2 {
		t.Errorf("first: prev=%v next=%v", prev, next)
	}

	prev, next = AdjacentTopics(topics, 99)
	if prev != nil || next != nil {
		t.Error("unknown id should have no neighbours")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0 min"},
		{45, "45 min"},
		{60, "1h"},
		{120, "2h"},
		{125, "2h 5m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestTotalDuration(t *testing.T) {
	topics := []study.Topic{{EstimatedDurationMinutes: 30}, {}, {EstimatedDurationMinutes: 95}}
	if got := TotalDuration(topics); got != 125 {
		t.Errorf("TotalDuration = %d, want 125", got)
	}
}

func TestTimeline(t *testing.T) {
	start := dates.Date{Value: dates.ComponentTuple{Parts: []int{2024, 1, 8}}}
	end := dates.Of(time.Date(2024, time.May, 3, 0, 0, 0, 0, time.Local))
	none := dates.Date{}
	bad := dates.Date{Value: dates.ISOString{Text: "soon"}}

	tests := []struct {
		name       string
		start, end dates.Date
		want       string
	}{
		{"both", start, end, "Jan 8, 2024 - May 3, 2024"},
		{"start only", start, none, "Started: Jan 8, 2024"},
		{"end only", none, end, "Due: May 3, 2024"},
		{"neither", none, bad, "No dates set"},
	}
	for _, tt := range tests {
		if got := Timeline(tt.start, tt.end, dates.Medium); got != tt.want {
			t.Errorf("%s: Timeline = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestAssignmentCountsAndUpcoming(t *testing.T) {
	soon := dates.Of(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	later := dates.Of(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC))

	topics := []study.Topic{
		{Title: "A", Assignments: []study.Assignment{{ID: 1, Completed: true}, {ID: 2}}},
		{Title: "B", Assignments: []study.Assignment{{ID: 3, DueDate: later}, {ID: 4, DueDate: soon}}},
	}

	completed, total := AssignmentCounts(topics)
	if completed != 1 || total != 4 {
		t.Errorf("AssignmentCounts = %d/%d, want 1/4", completed, total)
	}

	up := UpcomingAssignments(topics)
	if len(up) != 3 {
		t.Fatalf("UpcomingAssignments len = %d, want 3", len(up))
	}
	if up[0].ID != 4 || up[1].ID != 3 || up[2].ID != 2 {
		t.Errorf("unexpected order: %d %d %d", up[0].ID, up[1].ID, up[2].ID)
	}
	if up[0].TopicTitle != "B" {
		t.Errorf("TopicTitle = %q, want B", up[0].TopicTitle)
	}
}

func TestAssignmentScore(t *testing.T) {
	if got := AssignmentScore(7, 9); got != 78 {
		t.Errorf("AssignmentScore(7, 9) = %d, want 78", got)
	}
	if got := AssignmentScore(5, 0); got != 0 {
		t.Errorf("AssignmentScore(5, 0) = %d, want 0", got)
	}
}

func TestNewUpdate(t *testing.T) {
	tests := []struct {
		in   int
		want Update
	}{
		{-5, Update{Percentage: 0}},
		{0, Update{Percentage: 0}},
		{55, Update{Percentage: 55}},
		{100, Update{Percentage: 100, Completed: true}},
		{130, Update{Percentage: 100, Completed: true}},
	}
	for _, tt := range tests {
		if got := NewUpdate(tt.in); got != tt.want {
			t.Errorf("NewUpdate(%d) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	if got := Step(95, 10); got != (Update{Percentage: 100, Completed: true}) {
		t.Errorf("Step(95, 10) = %+v", got)
	}
}
