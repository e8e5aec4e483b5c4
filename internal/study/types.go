package study

import (
	"fmt"
	"strings"

	"github.com/abhisek/studyforge/internal/dates"
)

// DocumentType is the kind of uploaded syllabus document.
type DocumentType string

const (
	DocumentPDF   DocumentType = "PDF"
	DocumentWord  DocumentType = "WORD"
	DocumentText  DocumentType = "TEXT"
	DocumentOther DocumentType = "OTHER"
)

// Syllabus is an uploaded study plan and its ordered topics.
type Syllabus struct {
	ID                  int64        `json:"id"`
	Title               string       `json:"title"`
	Description         string       `json:"description,omitempty"`
	DocumentType        DocumentType `json:"documentType,omitempty"`
	OriginalDocumentURL string       `json:"originalDocumentUrl,omitempty"`
	StartDate           dates.Date   `json:"startDate"`
	EndDate             dates.Date   `json:"endDate"`
	CreatedAt           dates.Date   `json:"createdAt"`
	UpdatedAt           dates.Date   `json:"updatedAt"`
	Topics              []Topic      `json:"topics,omitempty"`
}

// Topic is one unit of study within a syllabus.
type Topic struct {
	ID                       int64        `json:"id"`
	Title                    string       `json:"title"`
	Content                  string       `json:"content,omitempty"`
	EstimatedDurationMinutes int          `json:"estimatedDurationMinutes,omitempty"`
	Deadline                 dates.Date   `json:"deadline"`
	OrderIndex               int          `json:"orderIndex"`
	SyllabusID               int64        `json:"syllabusId,omitempty"`
	KeyTerms                 []string     `json:"keyTerms,omitempty"`
	LearningObjectives       []string     `json:"learningObjectives,omitempty"`
	CreatedAt                dates.Date   `json:"createdAt"`
	UpdatedAt                dates.Date   `json:"updatedAt"`
	Progress                 *Progress    `json:"progress,omitempty"`
	Assignments              []Assignment `json:"assignments,omitempty"`
}

// Percentage is the topic's completion percentage, 0 when it has no progress.
func (t Topic) Percentage() int {
	if t.Progress == nil {
		return 0
	}
	return t.Progress.CompletionPercentage
}

// Completed reports the topic's completed flag, false when it has no progress.
func (t Topic) Completed() bool {
	return t.Progress != nil && t.Progress.Completed
}

// Progress is the completion state of a single topic.
type Progress struct {
	ID                   int64      `json:"id,omitempty"`
	Completed            bool       `json:"completed"`
	CompletionPercentage int        `json:"completionPercentage"`
	StartedAt            dates.Date `json:"startedAt"`
	CompletedAt          dates.Date `json:"completedAt"`
	CreatedAt            dates.Date `json:"createdAt"`
	UpdatedAt            dates.Date `json:"updatedAt"`
	TopicID              int64      `json:"topicId,omitempty"`
	TopicTitle           string     `json:"topicTitle,omitempty"`
}

// Difficulty of a generated assignment.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
	DifficultyGod    Difficulty = "GOD"
)

// ParseDifficulty reads a difficulty level in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToUpper(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyGod:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q: want easy, medium, hard or god", s)
}

// Assignment is a generated exercise tied to a topic.
type Assignment struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Content         string     `json:"content,omitempty"`
	DifficultyLevel Difficulty `json:"difficultyLevel,omitempty"`
	MaxPoints       int        `json:"maxPoints,omitempty"`
	Completed       bool       `json:"isCompleted"`
	EarnedPoints    int        `json:"earnedPoints,omitempty"`
	DueDate         dates.Date `json:"dueDate"`
	TopicID         int64      `json:"topicId,omitempty"`
	CreatedAt       dates.Date `json:"createdAt"`
	UpdatedAt       dates.Date `json:"updatedAt"`
	Questions       []Question `json:"questions,omitempty"`
}

// QuestionType is the answer format of a question.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTrueFalse      QuestionType = "TRUE_FALSE"
	QuestionShortAnswer    QuestionType = "SHORT_ANSWER"
	QuestionEssay          QuestionType = "ESSAY"
)

type Question struct {
	ID            int64            `json:"id"`
	Text          string           `json:"text"`
	Type          QuestionType     `json:"type"`
	Points        int              `json:"points,omitempty"`
	AssignmentID  int64            `json:"assignmentId,omitempty"`
	Options       []QuestionOption `json:"options,omitempty"`
	CorrectAnswer string           `json:"correctAnswer,omitempty"`
	UserAnswer    string           `json:"userAnswer,omitempty"`
	IsCorrect     *bool            `json:"isCorrect,omitempty"`
}

// Choices lists the answers a question is answered with: the option texts of
// a multiple choice question, True and False for true/false. Free text
// questions have none.
func (q Question) Choices() []string {
	switch q.Type {
	case QuestionMultipleChoice:
		out := make([]string, len(q.Options))
		for i, o := range q.Options {
			out[i] = o.Text
		}
		return out
	case QuestionTrueFalse:
		return []string{"True", "False"}
	}
	return nil
}

type QuestionOption struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"isCorrect"`
	QuestionID int64  `json:"questionId,omitempty"`
}
