package progress

import (
	"fmt"
	"sort"

	"github.com/abhisek/studyforge/internal/dates"
	"github.com/abhisek/studyforge/internal/study"
)

// Stats summarizes progress across all of a user's syllabi.
type Stats struct {
	TotalSyllabi      int
	CompletedSyllabi  int
	InProgressSyllabi int
	CompletedTopics   int
	TotalTopics       int
	AverageCompletion int // completed topics / total topics, as a percentage
}

// Summarize computes dashboard statistics from the progress records of each
// syllabus, keyed by syllabus ID. Syllabi without records count toward the
// total only.
func Summarize(syllabi []study.Syllabus, records map[int64][]study.Progress) Stats {
	stats := Stats{TotalSyllabi: len(syllabi)}

	for _, s := range syllabi {
		recs := records[s.ID]
		completed := 0
		for _, p := range recs {
			if p.Completed {
				completed++
			}
		}
		stats.CompletedTopics += completed
		stats.TotalTopics += len(recs)

		if len(recs) == 0 {
			continue
		}
		switch {
		case completed == len(recs):
			stats.CompletedSyllabi++
		case completed > 0:
			stats.InProgressSyllabi++
		}
	}

	if stats.TotalTopics > 0 {
		stats.AverageCompletion = roundPercent(float64(stats.CompletedTopics) / float64(stats.TotalTopics) * 100)
	}
	return stats
}

// WithProgress attaches records to the matching topics by topic ID.
// Topics that already carry progress keep it when no record matches.
func WithProgress(topics []study.Topic, records []study.Progress) []study.Topic {
	byTopic := make(map[int64]study.Progress, len(records))
	for _, p := range records {
		byTopic[p.TopicID] = p
	}

	out := make([]study.Topic, len(topics))
	for i, t := range topics {
		if p, ok := byTopic[t.ID]; ok {
			t.Progress = &p
		}
		out[i] = t
	}
	return out
}

// SortByOrder sorts topics by OrderIndex, keeping the original order for ties.
func SortByOrder(topics []study.Topic) {
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].OrderIndex < topics[j].OrderIndex
	})
}

// AdjacentTopics returns the topics before and after the one with the given
// ID. Missing neighbours are nil.
func AdjacentTopics(topics []study.Topic, id int64) (prev, next *study.Topic) {
	for i := range topics {
		if topics[i].ID != id {
			continue
		}
		if i > 0 {
			prev = &topics[i-1]
		}
		if i < len(topics)-1 {
			next = &topics[i+1]
		}
		return prev, next
	}
	return nil, nil
}

// TotalDuration sums the estimated minutes of all topics.
func TotalDuration(topics []study.Topic) int {
	total := 0
	for _, t := range topics {
		total += t.EstimatedDurationMinutes
	}
	return total
}

// FormatDuration renders minutes as "45 min", "2h" or "2h 5m".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// Timeline describes a syllabus date span.
func Timeline(start, end dates.Date, style dates.Style) string {
	s, e := start.Format(style), end.Format(style)
	switch {
	case s != "" && e != "":
		return s + " - " + e
	case s != "":
		return "Started: " + s
	case e != "":
		return "Due: " + e
	default:
		return "No dates set"
	}
}

// AssignmentCounts returns completed and total assignments across topics.
func AssignmentCounts(topics []study.Topic) (completed, total int) {
	for _, t := range topics {
		for _, a := range t.Assignments {
			total++
			if a.Completed {
				completed++
			}
		}
	}
	return completed, total
}

// PendingAssignment is an open assignment with its topic title.
type PendingAssignment struct {
	study.Assignment
	TopicTitle string
}

// UpcomingAssignments lists assignments that are not completed, soonest due
// date first. Assignments without a due date sort last.
func UpcomingAssignments(topics []study.Topic) []PendingAssignment {
	var out []PendingAssignment
	for _, t := range topics {
		for _, a := range t.Assignments {
			if a.Completed {
				continue
			}
			out = append(out, PendingAssignment{Assignment: a, TopicTitle: t.Title})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, iok := out[i].DueDate.Time()
		dj, jok := out[j].DueDate.Time()
		switch {
		case iok && jok:
			return di.Before(dj)
		default:
			return iok && !jok
		}
	})
	return out
}

// AssignmentScore returns earned/max as a rounded percentage, 0 when max is 0.
func AssignmentScore(earned, maxPoints int) int {
	if maxPoints <= 0 {
		return 0
	}
	if earned < 0 {
		earned = 0
	}
	return roundPercent(float64(earned) / float64(maxPoints) * 100)
}
