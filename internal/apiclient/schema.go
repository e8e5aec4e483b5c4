package apiclient

// Response schemas check the fields the client depends on. Unknown fields
// are always allowed so backend additions don't break older clients.

// dateField accepts any value. dates.Date turns shapes it cannot read into
// no value, so a bad date never rejects the document around it.
var dateField = map[string]any{}

var idField = map[string]any{"type": "integer"}

func object(required []any, props map[string]any) map[string]any {
	return map[string]any{
		"type":       "object",
		"required":   required,
		"properties": props,
	}
}

func listOf(item map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": item}
}

func nullable(def map[string]any) map[string]any {
	return map[string]any{"oneOf": []any{map[string]any{"type": "null"}, def}}
}

var progressDef = object([]any{"completionPercentage"}, map[string]any{
	"id":                   idField,
	"completed":            map[string]any{"type": "boolean"},
	"completionPercentage": map[string]any{"type": "integer"},
	"startedAt":            dateField,
	"completedAt":          dateField,
})

var assignmentDef = object([]any{"id", "title"}, map[string]any{
	"id":          idField,
	"title":       map[string]any{"type": "string"},
	"maxPoints":   map[string]any{"type": []any{"integer", "null"}},
	"isCompleted": map[string]any{"type": []any{"boolean", "null"}},
	"dueDate":     dateField,
	"questions":   map[string]any{"type": []any{"array", "null"}},
})

var topicDef = object([]any{"id", "title"}, map[string]any{
	"id":         idField,
	"title":      map[string]any{"type": "string"},
	"orderIndex": map[string]any{"type": []any{"integer", "null"}},
	"deadline":   dateField,
	"progress":   nullable(progressDef),
})

// generatedTopicDef is a proposed topic. It has not been saved, so it has no
// id yet.
var generatedTopicDef = object([]any{"title"}, map[string]any{
	"id":         map[string]any{"type": []any{"integer", "null"}},
	"title":      map[string]any{"type": "string", "minLength": 1},
	"orderIndex": map[string]any{"type": []any{"integer", "null"}},
	"deadline":   dateField,
})

var syllabusDef = object([]any{"id", "title"}, map[string]any{
	"id":        idField,
	"title":     map[string]any{"type": "string"},
	"startDate": dateField,
	"endDate":   dateField,
	"topics":    map[string]any{"oneOf": []any{map[string]any{"type": "null"}, listOf(topicDef)}},
})

var userDef = object([]any{"id", "username"}, map[string]any{
	"id":       idField,
	"username": map[string]any{"type": "string"},
	"email":    map[string]any{"type": []any{"string", "null"}},
})

var (
	authSchema = &Schema{Name: "auth-response", Definition: object(
		[]any{"token", "id", "username"},
		map[string]any{
			"token":    map[string]any{"type": "string", "minLength": 1},
			"id":       idField,
			"username": map[string]any{"type": "string"},
		},
	)}
	userSchema = &Schema{Name: "user", Definition: userDef}

	syllabusSchema     = &Schema{Name: "syllabus", Definition: syllabusDef}
	syllabusListSchema = &Schema{Name: "syllabus-list", Definition: listOf(syllabusDef)}

	topicSchema     = &Schema{Name: "topic", Definition: topicDef}
	topicListSchema = &Schema{Name: "topic-list", Definition: listOf(topicDef)}

	generatedTopicsSchema = &Schema{Name: "generated-topics", Definition: listOf(generatedTopicDef)}

	progressSchema     = &Schema{Name: "progress", Definition: progressDef}
	progressListSchema = &Schema{Name: "progress-list", Definition: listOf(progressDef)}

	assignmentSchema     = &Schema{Name: "assignment", Definition: assignmentDef}
	assignmentListSchema = &Schema{Name: "assignment-list", Definition: listOf(assignmentDef)}
)
