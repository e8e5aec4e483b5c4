package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/auth"
	"github.com/abhisek/studyforge/internal/progress"
	"github.com/abhisek/studyforge/internal/study"
)

// Login signs in and stores the resulting session in the holder.
func (c *Client) Login(ctx context.Context, username, password string) (study.User, error) {
	var resp study.AuthResponse
	err := c.send(ctx, call{
		method: http.MethodPost,
		path:   "/auth/signin",
		body:   study.LoginRequest{Username: username, Password: password},
		schema: authSchema,
		out:    &resp,
	})
	if err != nil {
		return study.User{}, fmt.Errorf("sign in: %w", err)
	}

	user := resp.User()
	if err := c.session.Set(ctx, auth.Session{Token: resp.Token, User: user}); err != nil {
		// The session is live in memory even if it could not be saved.
		c.log.Warn("session not persisted", zap.Error(err))
	}
	return user, nil
}

// Logout ends the session locally. The backend keeps no session state.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.Clear(ctx)
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, req study.SignupRequest) (string, error) {
	var resp study.MessageResponse
	if err := c.Do(ctx, http.MethodPost, "/auth/signup", req, &resp); err != nil {
		return "", fmt.Errorf("sign up: %w", err)
	}
	return resp.Message, nil
}

// CurrentUser fetches the signed-in user's profile.
func (c *Client) CurrentUser(ctx context.Context) (study.User, error) {
	var u study.User
	err := c.send(ctx, call{method: http.MethodGet, path: "/users/me", schema: userSchema, out: &u})
	return u, err
}

// UpdateCurrentUser changes the signed-in user's profile and refreshes the
// user held by the session.
func (c *Client) UpdateCurrentUser(ctx context.Context, u study.ProfileUpdate) (study.User, error) {
	if u.Empty() {
		return study.User{}, errors.New("update profile: nothing to change")
	}
	var out study.User
	err := c.send(ctx, call{method: http.MethodPut, path: "/users/me", body: u, schema: userSchema, out: &out})
	if err != nil {
		return study.User{}, fmt.Errorf("update profile: %w", err)
	}
	if err := c.session.UpdateUser(ctx, out); err != nil {
		c.log.Warn("session user not refreshed", zap.Error(err))
	}
	return out, nil
}

// userID returns the signed-in user's ID.
func (c *Client) userID() (int64, error) {
	s := c.session.Get()
	if !s.Valid() {
		return 0, ErrNotSignedIn
	}
	return s.User.ID, nil
}

// MySyllabi lists the signed-in user's syllabi.
func (c *Client) MySyllabi(ctx context.Context) ([]study.Syllabus, error) {
	id, err := c.userID()
	if err != nil {
		return nil, err
	}
	return c.Syllabi(ctx, id)
}

// Syllabi lists a user's syllabi.
func (c *Client) Syllabi(ctx context.Context, userID int64) ([]study.Syllabus, error) {
	var out []study.Syllabus
	err := c.send(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/syllabi/user/%d", userID),
		schema: syllabusListSchema,
		out:    &out,
	})
	return out, err
}

// Syllabus fetches one syllabus with its topics.
func (c *Client) Syllabus(ctx context.Context, id int64) (study.Syllabus, error) {
	var out study.Syllabus
	err := c.send(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/syllabi/%d", id),
		schema: syllabusSchema,
		out:    &out,
	})
	return out, err
}

// CreateSyllabus creates a syllabus owned by the signed-in user.
func (c *Client) CreateSyllabus(ctx context.Context, s study.Syllabus) (study.Syllabus, error) {
	id, err := c.userID()
	if err != nil {
		return study.Syllabus{}, err
	}
	var out study.Syllabus
	err = c.send(ctx, call{
		method: http.MethodPost,
		path:   "/syllabi",
		query:  url.Values{"userId": {strconv.FormatInt(id, 10)}},
		body:   s,
		schema: syllabusSchema,
		out:    &out,
	})
	return out, err
}

// UpdateSyllabus replaces a syllabus's editable fields.
func (c *Client) UpdateSyllabus(ctx context.Context, id int64, s study.Syllabus) (study.Syllabus, error) {
	var out study.Syllabus
	err := c.send(ctx, call{
		method: http.MethodPut,
		path:   fmt.Sprintf("/syllabi/%d", id),
		body:   s,
		schema: syllabusSchema,
		out:    &out,
	})
	return out, err
}

// DeleteSyllabus deletes a syllabus and its topics.
func (c *Client) DeleteSyllabus(ctx context.Context, id int64) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/syllabi/%d", id), nil, nil)
}

// GenerateTopics asks the backend to extract topics from the syllabus
// document.
func (c *Client) GenerateTopics(ctx context.Context, syllabusID int64) ([]study.Topic, error) {
	var out []study.Topic
	err := c.send(ctx, call{
		method: http.MethodPost,
		path:   fmt.Sprintf("/syllabi/%d/generate-topics", syllabusID),
		schema: generatedTopicsSchema,
		out:    &out,
	})
	return out, err
}

// GenerateAndSaveTopics generates topics for a syllabus and saves each
// one, since generated topics are only proposals. It returns the syllabus's
// topics after saving. Topics saved before a failure stay saved.
func (c *Client) GenerateAndSaveTopics(ctx context.Context, syllabusID int64) ([]study.Topic, error) {
	generated, err := c.GenerateTopics(ctx, syllabusID)
	if err != nil {
		return nil, fmt.Errorf("generate topics: %w", err)
	}
	for i, t := range generated {
		if t.OrderIndex == 0 {
			t.OrderIndex = i + 1
		}
		if _, err := c.CreateTopic(ctx, study.RequestFor(t, syllabusID)); err != nil {
			return nil, fmt.Errorf("save topic %q: %w", t.Title, err)
		}
	}
	return c.Topics(ctx, syllabusID)
}

// Topics lists a syllabus's topics in order.
func (c *Client) Topics(ctx context.Context, syllabusID int64) ([]study.Topic, error) {
	var out []study.Topic
	err := c.send(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/topics/syllabus/%d", syllabusID),
		schema: topicListSchema,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	progress.SortByOrder(out)
	return out, nil
}

// Topic fetches one topic.
func (c *Client) Topic(ctx context.Context, id int64) (study.Topic, error) {
	var out study.Topic
	err := c.send(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/topics/%d", id),
		schema: topicSchema,
		out:    &out,
	})
	return out, err
}

// CreateTopic adds a topic to a syllabus.
func (c *Client) CreateTopic(ctx context.Context, req study.TopicRequest) (study.Topic, error) {
	var out study.Topic
	err := c.send(ctx, call{method: http.MethodPost, path: "/topics", body: req, schema: topicSchema, out: &out})
	return out, err
}

// UpdateTopic replaces a topic's editable fields.
func (c *Client) UpdateTopic(ctx context.Context, id int64, req study.TopicRequest) (study.Topic, error) {
	var out study.Topic
	err := c.send(ctx, call{
		method: http.MethodPut,
		path:   fmt.Sprintf("/topics/%d", id),
		body:   req,
		schema: topicSchema,
		out:    &out,
	})
	return out, err
}

// DeleteTopic deletes a topic.
func (c *Client) DeleteTopic(ctx context.Context, id int64) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/topics/%d", id), nil, nil)
}

func percentageQuery(u progress.Update) url.Values {
	return url.Values{"completionPercentage": {strconv.Itoa(u.Percentage)}}
}

// TrackProgress records progress on a topic, creating the record if
// needed. The backend derives the completed flag from the percentage.
func (c *Client) TrackProgress(ctx context.Context, topicID int64, u progress.Update) (study.Progress, error) {
	var out study.Progress
	err := c.send(ctx, call{
		method: http.MethodPost,
		path:   fmt.Sprintf("/topics/%d/progress", topicID),
		query:  percentageQuery(u),
		schema: progressSchema,
		out:    &out,
	})
	return out, err
}

// UpdateProgress updates an existing progress record.
func (c *Client) UpdateProgress(ctx context.Context, topicID int64, u progress.Update) (study.Progress, error) {
	var out study.Progress
	err := c.send(ctx, call{
		method: http.MethodPut,
		path:   fmt.Sprintf("/progress/topic/%d", topicID),
		query:  percentageQuery(u),
		schema: progressSchema,
		out:    &out,
	})
	return out, err
}

// TopicProgress fetches a topic's progress. Check IsNotFound for topics
// that have never been tracked.
func (c *Client) TopicProgress(ctx context.Context, topicID int64) (study.Progress, error) {
	var out study.Progress
	err := c.send(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/progress/topic/%d", topicID),
		schema: progressSchema,
		out:    &out,
	})
	return out, err
}

// EnsureProgress returns a topic's progress, starting it at 0% when the
// backend has no record yet.
func (c *Client) EnsureProgress(ctx context.Context, topicID int64) (study.Progress, error) {
	p, err := c.TopicProgress(ctx, topicID)
	if err == nil {
		return p, nil
	}
	if !IsNotFound(err) {
		return study.Progress{}, err
	}
	return c.TrackProgress(ctx, topicID, progress.NewUpdate(0))
}

// SaveProgress writes u for topic t: an update when t already has a
// progress record, otherwise a new record.
func (c *Client) SaveProgress(ctx context.Context, t study.Topic, u progress.Update) (study.Progress, error) {
	if t.Progress != nil && t.Progress.ID != 0 {
		return c.UpdateProgress(ctx, t.ID, u)
	}
	return c.TrackProgress(ctx, t.ID, u)
}

// SyllabusProgress lists the progress records of every tracked topic in a
// syllabus.
func (c *Client) SyllabusProgress(ctx context.Context, syllabusID int64) ([]study.Progress, error) {
	var out []study.Progress
	err := c.send(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/progress/syllabus/%d", syllabusID),
		schema: progressListSchema,
		out:    &out,
	})
	return out, err
}

// GenerateAssignments asks the backend to generate assignments for a topic.
func (c *Client) GenerateAssignments(ctx context.Context, topicID int64) ([]study.Assignment, error) {
	var out []study.Assignment
	err := c.send(ctx, call{
		method: http.MethodPost,
		path:   fmt.Sprintf("/assignments/%d/generate-assignments", topicID),
		schema: assignmentListSchema,
		out:    &out,
	})
	return out, err
}

// Assignments lists a topic's assignments.
func (c *Client) Assignments(ctx context.Context, topicID int64) ([]study.Assignment, error) {
	var out []study.Assignment
	err := c.send(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/assignments/topic/%d", topicID),
		schema: assignmentListSchema,
		out:    &out,
	})
	return out, err
}

// AssignmentsByDifficulty lists a topic's assignments at one level.
func (c *Client) AssignmentsByDifficulty(ctx context.Context, topicID int64, level study.Difficulty) ([]study.Assignment, error) {
	var out []study.Assignment
	err := c.send(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/assignments/topic/%d/difficulty/%s", topicID, url.PathEscape(string(level))),
		schema: assignmentListSchema,
		out:    &out,
	})
	return out, err
}

// Assignment fetches one assignment with its questions.
func (c *Client) Assignment(ctx context.Context, id int64) (study.Assignment, error) {
	var out study.Assignment
	err := c.send(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/assignments/%d", id),
		schema: assignmentSchema,
		out:    &out,
	})
	return out, err
}

// SubmitAnswers submits answers and returns the graded assignment.
func (c *Client) SubmitAnswers(ctx context.Context, req study.SubmitRequest) (study.Assignment, error) {
	if len(req.QuestionIDs) != len(req.UserAnswers) {
		return study.Assignment{}, fmt.Errorf("submit answers: %d questions but %d answers",
			len(req.QuestionIDs), len(req.UserAnswers))
	}
	var out study.Assignment
	err := c.send(ctx, call{
		method: http.MethodPost,
		path:   "/assignments/submit",
		body:   req,
		schema: assignmentSchema,
		out:    &out,
	})
	return out, err
}
