package study

import "github.com/abhisek/studyforge/internal/dates"

// User is the authenticated account.
type User struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

// DisplayName returns "First Last" when known, otherwise the username.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// AuthResponse is returned by /auth/signin.
type AuthResponse struct {
	Token     string   `json:"token"`
	Type      string   `json:"type,omitempty"`
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

// User extracts the profile part of the response.
func (r AuthResponse) User() User {
	return User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Roles:     r.Roles,
	}
}

// MessageResponse is the backend's generic {"message": "..."} body.
type MessageResponse struct {
	Message string `json:"message"`
}

// SubmitRequest submits answers for an assignment.
type SubmitRequest struct {
	AssignmentID int64    `json:"assignmentId"`
	QuestionIDs  []int64  `json:"questionIds"`
	UserAnswers  []string `json:"userAnswers"`
}

// NewSubmitRequest pairs every question of a with its answer, in question
// order. A question without an answer submits an empty string.
func NewSubmitRequest(a Assignment, answers map[int64]string) SubmitRequest {
	req := SubmitRequest{
		AssignmentID: a.ID,
		QuestionIDs:  make([]int64, 0, len(a.Questions)),
		UserAnswers:  make([]string, 0, len(a.Questions)),
	}
	for _, q := range a.Questions {
		req.QuestionIDs = append(req.QuestionIDs, q.ID)
		req.UserAnswers = append(req.UserAnswers, answers[q.ID])
	}
	return req
}

// ProfileUpdate changes the signed-in user's profile. Empty fields are left
// as they are.
type ProfileUpdate struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
}

// Empty reports whether the update changes nothing.
func (p ProfileUpdate) Empty() bool {
	return p == ProfileUpdate{}
}

// TopicRequest creates or replaces a topic.
type TopicRequest struct {
	Title                    string     `json:"title"`
	Content                  string     `json:"content,omitempty"`
	EstimatedDurationMinutes int        `json:"estimatedDurationMinutes,omitempty"`
	Deadline                 dates.Date `json:"deadline"`
	OrderIndex               int        `json:"orderIndex"`
	SyllabusID               int64      `json:"syllabusId"`
	KeyTerms                 []string   `json:"keyTerms,omitempty"`
}

// RequestFor returns the request that recreates t in syllabusID.
func RequestFor(t Topic, syllabusID int64) TopicRequest {
	return TopicRequest{
		Title:                    t.Title,
		Content:                  t.Content,
		EstimatedDurationMinutes: t.EstimatedDurationMinutes,
		Deadline:                 t.Deadline,
		OrderIndex:               t.OrderIndex,
		SyllabusID:               syllabusID,
		KeyTerms:                 t.KeyTerms,
	}
}
