package apiclient

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/studyforge/internal/progress"
	"github.com/abhisek/studyforge/internal/study"
)

// SyllabusOverview is a syllabus with every topic's progress and
// assignments attached.
type SyllabusOverview struct {
	Syllabus study.Syllabus
	Topics   []study.Topic
}

// Aggregate is the syllabus's overall completion percentage.
func (o SyllabusOverview) Aggregate() int {
	return progress.Aggregate(o.Topics)
}

// Status is the syllabus's completion status.
func (o SyllabusOverview) Status() progress.Status {
	return progress.Classify(o.Topics)
}

// LoadSyllabus fetches a syllabus, its topics and their progress, then each
// topic's assignments with at most FanoutLimit requests in flight. Nothing
// is aggregated until every request has returned; the first failure
// cancels the rest.
func (c *Client) LoadSyllabus(ctx context.Context, syllabusID int64, withAssignments bool) (SyllabusOverview, error) {
	var (
		syl     study.Syllabus
		topics  []study.Topic
		records []study.Progress
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		syl, err = c.Syllabus(gctx, syllabusID)
		return err
	})
	g.Go(func() error {
		var err error
		topics, err = c.Topics(gctx, syllabusID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = c.SyllabusProgress(gctx, syllabusID)
		return err
	})
	if err := g.Wait(); err != nil {
		return SyllabusOverview{}, fmt.Errorf("load syllabus %d: %w", syllabusID, err)
	}

	topics = progress.WithProgress(topics, records)

	if withAssignments && len(topics) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.fanoutLimit())
		for i := range topics {
			g.Go(func() error {
				as, err := c.Assignments(gctx, topics[i].ID)
				if err != nil {
					return fmt.Errorf("topic %d assignments: %w", topics[i].ID, err)
				}
				topics[i].Assignments = as
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return SyllabusOverview{}, err
		}
	}

	syl.Topics = topics
	return SyllabusOverview{Syllabus: syl, Topics: topics}, nil
}

// Dashboard is the signed-in user's syllabi with their topics' progress.
type Dashboard struct {
	Syllabi []SyllabusOverview
	Stats   progress.Stats
}

// LoadDashboard fetches the user's syllabi, then the topics and progress of
// each syllabus concurrently.
func (c *Client) LoadDashboard(ctx context.Context) (Dashboard, error) {
	syllabi, err := c.MySyllabi(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load syllabi: %w", err)
	}

	overviews := make([]SyllabusOverview, len(syllabi))
	records := make(map[int64][]study.Progress, len(syllabi))
	recs := make([][]study.Progress, len(syllabi))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.fanoutLimit())
	for i, s := range syllabi {
		g.Go(func() error {
			topics := s.Topics
			if len(topics) == 0 {
				var err error
				if topics, err = c.Topics(gctx, s.ID); err != nil {
					return fmt.Errorf("syllabus %d topics: %w", s.ID, err)
				}
			} else {
				progress.SortByOrder(topics)
			}
			pr, err := c.SyllabusProgress(gctx, s.ID)
			if err != nil {
				return fmt.Errorf("syllabus %d progress: %w", s.ID, err)
			}
			recs[i] = pr
			topics = progress.WithProgress(topics, pr)
			s.Topics = topics
			overviews[i] = SyllabusOverview{Syllabus: s, Topics: topics}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	for i, s := range syllabi {
		records[s.ID] = recs[i]
	}
	return Dashboard{Syllabi: overviews, Stats: progress.Summarize(syllabi, records)}, nil
}

func (c *Client) fanoutLimit() int {
	if c.cfg.FanoutLimit > 0 {
		return c.cfg.FanoutLimit
	}
	return 1
}
