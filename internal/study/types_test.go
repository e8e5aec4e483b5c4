package study

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopic_PercentageAndCompleted(t *testing.T) {
	var bare Topic
	assert.Equal(t, 0, bare.Percentage())
	assert.False(t, bare.Completed())

	done := Topic{Progress: &Progress{CompletionPercentage: 100, Completed: true}}
	assert.Equal(t, 100, done.Percentage())
	assert.True(t, done.Completed())
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{Username: "ada", FirstName: "Ada", LastName: "Lovelace"}.DisplayName())
	assert.Equal(t, "Ada", User{Username: "ada", FirstName: "Ada"}.DisplayName())
	assert.Equal(t, "ada", User{Username: "ada"}.DisplayName())
}

func TestAuthResponse_User(t *testing.T) {
	r := AuthResponse{Token: "tok", ID: 7, Username: "ada", Email: "ada@example.com", Roles: []string{"ROLE_USER"}}
	u := r.User()
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "ada", u.Username)
	assert.Equal(t, []string{"ROLE_USER"}, u.Roles)
}

func TestTopic_DecodesMixedDateShapes(t *testing.T) {
	payload := `{
		"id": 3,
		"title": "Graphs",
		"orderIndex": 2,
		"deadline": [2024, 8, 15, 9, 30],
		"createdAt": "2024-01-02T10:00:00",
		"updatedAt": null,
		"progress": {"completed": false, "completionPercentage": 40, "topicId": 3},
		"assignments": [{"id": 1, "title": "Quiz", "isCompleted": true, "dueDate": "not a date"}]
	}`

	var topic Topic
	require.NoError(t, json.Unmarshal([]byte(payload), &topic))

	deadline, ok := topic.Deadline.Time()
	require.True(t, ok)
	assert.Equal(t, time.August, deadline.Month())
	assert.Equal(t, 9, deadline.Hour())

	assert.True(t, topic.CreatedAt.IsSet())
	assert.False(t, topic.UpdatedAt.IsSet())
	assert.Equal(t, 40, topic.Percentage())

	require.Len(t, topic.Assignments, 1)
	assert.True(t, topic.Assignments[0].Completed)
	assert.False(t, topic.Assignments[0].DueDate.IsSet())
}

func TestRequestFor_CarriesTopicFields(t *testing.T) {
	var topic Topic
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 9, "title": "Heaps", "content": "Binary heaps.", "estimatedDurationMinutes": 45,
		"deadline": [2024, 3, 1, 12, 0], "orderIndex": 2, "keyTerms": ["sift"]
	}`), &topic))

	req := RequestFor(topic, 7)
	assert.Equal(t, int64(7), req.SyllabusID)
	assert.Equal(t, 2, req.OrderIndex)

	b, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"title": "Heaps", "content": "Binary heaps.", "estimatedDurationMinutes": 45,
		"deadline": "2024-03-01T12:00:00", "orderIndex": 2, "syllabusId": 7, "keyTerms": ["sift"]
	}`, string(b))

	b, err = json.Marshal(RequestFor(Topic{Title: "Tries"}, 7))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"deadline":null`)
}

func TestProfileUpdate_Empty(t *testing.T) {
	assert.True(t, ProfileUpdate{}.Empty())
	assert.False(t, ProfileUpdate{LastName: "Lovelace"}.Empty())

	b, err := json.Marshal(ProfileUpdate{FirstName: "Ada"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"firstName":"Ada"}`, string(b))
}

func TestQuestion_Choices(t *testing.T) {
	mc := Question{Type: QuestionMultipleChoice, Options: []QuestionOption{{ID: 1, Text: "O(n)"}, {ID: 2, Text: "O(log n)"}}}
	assert.Equal(t, []string{"O(n)", "O(log n)"}, mc.Choices())
	assert.Equal(t, []string{"True", "False"}, Question{Type: QuestionTrueFalse}.Choices())
	assert.Nil(t, Question{Type: QuestionEssay}.Choices())
}

func TestNewSubmitRequest_FollowsQuestionOrder(t *testing.T) {
	a := Assignment{ID: 5, Questions: []Question{{ID: 30}, {ID: 10}, {ID: 20}}}
	req := NewSubmitRequest(a, map[int64]string{10: "True", 30: "O(n)"})
	assert.Equal(t, SubmitRequest{
		AssignmentID: 5,
		QuestionIDs:  []int64{30, 10, 20},
		UserAnswers:  []string{"O(n)", "True", ""},
	}, req)
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" hard ")
	require.NoError(t, err)
	assert.Equal(t, DifficultyHard, d)

	_, err = ParseDifficulty("brutal")
	assert.ErrorContains(t, err, "unknown difficulty")
}
