package progress

import (
	"math"

	"github.com/abhisek/studyforge/internal/study"
)

// Status is the completion category of a topic or a set of topics.
type Status string

const (
	NotStarted Status = "not_started"
	InProgress Status = "in_progress"
	Completed  Status = "completed"
)

// Label returns the display label for the status.
func (s Status) Label() string {
	switch s {
	case InProgress:
		return "In Progress"
	case Completed:
		return "Completed"
	default:
		return "Not Started"
	}
}

// Aggregate returns the mean completion percentage of topics, with ties
// rounded away from zero. A topic without progress counts as 0; an empty
// list is 0.
func Aggregate(topics []study.Topic) int {
	if len(topics) == 0 {
		return 0
	}
	sum := 0
	for _, t := range topics {
		sum += t.Percentage()
	}
	return roundPercent(float64(sum) / float64(len(topics)))
}

// Classify derives the status of a set of topics from their completed flags
// and percentages. The two fields are read independently and never
// reconciled. An empty list is NotStarted.
func Classify(topics []study.Topic) Status {
	if len(topics) == 0 {
		return NotStarted
	}

	allCompleted := true
	anyStarted := false
	for _, t := range topics {
		if t.Completed() {
			anyStarted = true
			continue
		}
		allCompleted = false
		if t.Percentage() > 0 {
			anyStarted = true
		}
	}

	switch {
	case allCompleted:
		return Completed
	case anyStarted:
		return InProgress
	default:
		return NotStarted
	}
}

// TopicStatus classifies a single topic by its percentage.
func TopicStatus(t study.Topic) Status {
	switch pct := t.Percentage(); {
	case pct >= 100:
		return Completed
	case pct > 0:
		return InProgress
	default:
		return NotStarted
	}
}

// NextTopic picks the topic to resume: the first one in progress, otherwise
// the first one not started. It returns false when every topic is at 100%.
func NextTopic(topics []study.Topic) (study.Topic, bool) {
	for _, t := range topics {
		if pct := t.Percentage(); pct > 0 && pct < 100 {
			return t, true
		}
	}
	for _, t := range topics {
		if t.Progress == nil || t.Progress.CompletionPercentage == 0 {
			return t, true
		}
	}
	return study.Topic{}, false
}

// CompletedCount returns the number of topics at 100%.
func CompletedCount(topics []study.Topic) int {
	n := 0
	for _, t := range topics {
		if t.Percentage() == 100 {
			n++
		}
	}
	return n
}

// roundPercent rounds ties away from zero, so 33.5 is 34 and -33.5 is -34.
func roundPercent(v float64) int {
	return int(math.Round(v))
}
