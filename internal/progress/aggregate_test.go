package progress

import (
	"testing"

	"github.com/abhisek/studyforge/internal/study"
)

func topic(id int64, pct int, completed bool) study.Topic {
	return study.Topic{
		ID:       id,
		Title:    "topic",
		Progress: &study.Progress{TopicID: id, CompletionPercentage: pct, Completed: completed},
	}
}

func bare(id int64) study.Topic {
	return study.Topic{ID: id, Title: "topic"}
}

func TestAggregate_Empty(t *testing.T) {
	if got := Aggregate(nil); got != 0 {
		t.Errorf("Aggregate(nil) = %d, want 0", got)
	}
	if got := Aggregate([]study.Topic{}); got != 0 {
		t.Errorf("Aggregate([]) = %d, want 0", got)
	}
}

func TestAggregate_AllComplete(t *testing.T) {
	topics := []study.Topic{topic(1, 100, true), topic(2, 100, true), topic(3, 100, true)}
	if got := Aggregate(topics); got != 100 {
		t.Errorf("Aggregate = %d, want 100", got)
	}
}

func TestAggregate_Mean(t *testing.T) {
	topics := []study.Topic{topic(1, 40, false), topic(2, 60, false)}
	if got := Aggregate(topics); got != 50 {
		t.Errorf("Aggregate = %d, want 50", got)
	}
}

// A mean of exactly 33.5 rounds half up.
func TestAggregate_RoundsHalfUp(t *testing.T) {
	topics := []study.Topic{topic(1, 33, false), topic(2, 34, false)}
	if got := Aggregate(topics); got != 34 {
		t.Errorf("Aggregate = %d, want 34", got)
	}
}

// Out-of-range percentages are averaged as given; a negative tie rounds
// away from zero like a positive one.
func TestAggregate_NegativeTieRoundsAwayFromZero(t *testing.T) {
	topics := []study.Topic{topic(1, -33, false), topic(2, -34, false)}
	if got := Aggregate(topics); got != -34 {
		t.Errorf("Aggregate = %d, want -34", got)
	}
}

func TestAggregate_MissingProgressCountsAsZero(t *testing.T) {
	topics := []study.Topic{topic(1, 90, false), bare(2), bare(3)}
	if got := Aggregate(topics); got != 30 {
		t.Errorf("Aggregate = %d, want 30", got)
	}
}

func TestAggregate_ReadsPercentageNotFlag(t *testing.T) {
	topics := []study.Topic{topic(1, 40, true), topic(2, 0, false)}
	if got := Aggregate(topics); got != 20 {
		t.Errorf("Aggregate = %d, want 20", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		topics []study.Topic
		want   Status
	}{
		{"empty is not started", nil, NotStarted},
		{"all zero", []study.Topic{topic(1, 0, false), topic(2, 0, false)}, NotStarted},
		{"no progress records", []study.Topic{bare(1), bare(2)}, NotStarted},
		{"partial", []study.Topic{topic(1, 50, false), topic(2, 0, false)}, InProgress},
		{"one completed", []study.Topic{topic(1, 100, true), bare(2)}, InProgress},
		{"all completed", []study.Topic{topic(1, 100, true), topic(2, 100, true)}, Completed},
		{"flag without percentage", []study.Topic{topic(1, 40, true)}, Completed},
		{"percentage without flag", []study.Topic{topic(1, 100, false)}, InProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.topics); got != tt.want {
				t.Errorf("Classify = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTopicStatus(t *testing.T) {
	if got := TopicStatus(bare(1)); got != NotStarted {
		t.Errorf("no progress: got %q, want %q", got, NotStarted)
	}
	if got := TopicStatus(topic(1, 10, false)); got != InProgress {
		t.Errorf("10%%: got %q, want %q", got, InProgress)
	}
	if got := TopicStatus(topic(1, 100, true)); got != Completed {
		t.Errorf("100%%: got %q, want %q", got, Completed)
	}
}

func TestStatusLabel(t *testing.T) {
	if NotStarted.Label() != "Not Started" || InProgress.Label() != "In Progress" || Completed.Label() != "Completed" {
		t.Error("unexpected status labels")
	}
}

func TestNextTopic_PrefersInProgress(t *testing.T) {
	topics := []study.Topic{topic(1, 100, true), topic(2, 40, false), topic(3, 0, false)}
	got, ok := NextTopic(topics)
	if !ok || got.ID != 2 {
		t.Errorf("NextTopic = %d (ok=%v), want 2", got.ID, ok)
	}
}

func TestNextTopic_FallsBackToNotStarted(t *testing.T) {
	topics := []study.Topic{topic(1, 100, true), topic(2, 100, true), topic(3, 0, false)}
	got, ok := NextTopic(topics)
	if !ok || got.ID != 3 {
		t.Errorf("NextTopic = %d (ok=%v), want 3", got.ID, ok)
	}
}

func TestNextTopic_TopicWithoutProgress(t *testing.T) {
	topics := []study.Topic{topic(1, 100, true), bare(2)}
	got, ok := NextTopic(topics)
	if !ok || got.ID != 2 {
		t.Errorf("NextTopic = %d (ok=%v), want 2", got.ID, ok)
	}
}

func TestNextTopic_AllComplete(t *testing.T) {
	topics := []study.Topic{topic(1, 100, true), topic(2, 100, true)}
	if _, ok := NextTopic(topics); ok {
		t.Error("expected no next topic when all are complete")
	}
	if _, ok := NextTopic(nil); ok {
		t.Error("expected no next topic for an empty list")
	}
}

func TestCompletedCount(t *testing.T) {
	topics := []study.Topic{topic(1, 100, true), topic(2, 99, false), bare(3), topic(4, 100, false)}
	if got := CompletedCount(topics); got != 2 {
		t.Errorf("CompletedCount = %d, want 2", got)
	}
}
