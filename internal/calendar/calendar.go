// Package calendar exports a syllabus schedule as an iCalendar feed.
package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/abhisek/studyforge/internal/content"
	"github.com/abhisek/studyforge/internal/progress"
	"github.com/abhisek/studyforge/internal/study"
)

const (
	productID = "-//studyforge//syllabus export//EN"
	uidDomain = "studyforge"

	// DefaultDuration is used for topics without an estimate.
	DefaultDuration = time.Hour

	descriptionExcerpt = 280
)

// Options controls the export.
type Options struct {
	// Now stamps every event. Zero means time.Now.
	Now time.Time

	// Assignments adds an event per assignment due date.
	Assignments bool
}

// Build returns a calendar with one all-day event spanning the syllabus
// (when both dates are known) and one event per topic deadline. A topic
// event ends at its deadline and lasts the estimated duration.
func Build(s study.Syllabus, opts Options) *ics.Calendar {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName(s.Title)

	start, okStart := s.StartDate.Time()
	end, okEnd := s.EndDate.Time()
	if okStart && okEnd && !end.Before(start) {
		ev := cal.AddEvent(uid("syllabus", s.ID))
		ev.SetDtStampTime(now)
		ev.SetSummary(s.Title)
		if s.Description != "" {
			ev.SetDescription(s.Description)
		}
		ev.SetAllDayStartAt(start)
		// DTEND of an all-day event is exclusive.
		ev.SetAllDayEndAt(end.AddDate(0, 0, 1))
		ev.AddProperty(ics.ComponentPropertyCategories, "Syllabus")
	}

	topics := append([]study.Topic(nil), s.Topics...)
	progress.SortByOrder(topics)

	for _, t := range topics {
		deadline, ok := t.Deadline.Time()
		if !ok {
			continue
		}
		ev := cal.AddEvent(uid("topic", t.ID))
		ev.SetDtStampTime(now)
		ev.SetSummary(fmt.Sprintf("%s: %s", s.Title, t.Title))
		ev.SetDescription(topicDescription(t))
		ev.SetStartAt(deadline.Add(-duration(t)))
		ev.SetEndAt(deadline)
		ev.AddProperty(ics.ComponentPropertyCategories, "Topic")

		if !opts.Assignments {
			continue
		}
		for _, a := range t.Assignments {
			due, ok := a.DueDate.Time()
			if !ok {
				continue
			}
			aev := cal.AddEvent(uid("assignment", a.ID))
			aev.SetDtStampTime(now)
			aev.SetSummary("Due: " + a.Title)
			aev.SetDescription(fmt.Sprintf("%s (%s)", t.Title, strings.ToLower(string(a.DifficultyLevel))))
			aev.SetStartAt(due)
			aev.SetEndAt(due)
			aev.AddProperty(ics.ComponentPropertyCategories, "Assignment")
		}
	}
	return cal
}

// Write serializes the calendar for s to w.
func Write(w io.Writer, s study.Syllabus, opts Options) error {
	_, err := io.WriteString(w, Build(s, opts).Serialize())
	return err
}

func duration(t study.Topic) time.Duration {
	if t.EstimatedDurationMinutes <= 0 {
		return DefaultDuration
	}
	return time.Duration(t.EstimatedDurationMinutes) * time.Minute
}

func topicDescription(t study.Topic) string {
	desc := fmt.Sprintf("%s, %d%% complete", progress.TopicStatus(t).Label(), t.Percentage())
	if ex := content.Excerpt(t.Content, descriptionExcerpt); ex != "" {
		desc += "\n\n" + ex
	}
	return desc
}

func uid(kind string, id int64) string {
	return fmt.Sprintf("%s-%d@%s", kind, id, uidDomain)
}
