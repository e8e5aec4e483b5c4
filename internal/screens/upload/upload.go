// Package upload sends a syllabus document from the local disk.
package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/apiclient"
	"github.com/abhisek/studyforge/internal/router"
	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/study"
	"github.com/abhisek/studyforge/internal/ui/components"
	"github.com/abhisek/studyforge/internal/ui/layout"
	"github.com/abhisek/studyforge/internal/ui/theme"
)

// Backend uploads a document and generates its topics.
type Backend interface {
	UploadFile(ctx context.Context, path, title, description string) (study.Syllabus, error)
	GenerateAndSaveTopics(ctx context.Context, syllabusID int64) ([]study.Topic, error)
}

// Navigator opens the uploaded syllabus.
type Navigator interface {
	Syllabus(id int64) screen.Screen
}

type uploadedMsg struct {
	Syllabus study.Syllabus
	Err      error
}

type generatedMsg struct {
	Topics []study.Topic
	Err    error
}

// UploadScreen is a three-field form: path, title and description. After
// the upload it generates the syllabus topics.
type UploadScreen struct {
	ctx     context.Context
	backend Backend
	nav     Navigator
	fields  []components.TextInput
	focus   int
	busy    string
	errMsg  string
	// uploaded is set once the document is stored; a failed generation
	// keeps it so Enter can still open the syllabus.
	uploaded *study.Syllabus
}

var _ screen.Screen = (*UploadScreen)(nil)
var _ screen.KeyHintProvider = (*UploadScreen)(nil)

const (
	fieldPath = iota
	fieldTitle
	fieldDescription
)

// New creates an UploadScreen.
func New(ctx context.Context, backend Backend, nav Navigator) *UploadScreen {
	return &UploadScreen{
		ctx:     ctx,
		backend: backend,
		nav:     nav,
		fields: []components.TextInput{
			components.NewTextInput("File", "~/syllabus.pdf", false, 0),
			components.NewTextInput("Title", "defaults to the file name", false, 120),
			components.NewTextInput("Notes", "optional description", false, 500),
		},
	}
}

func (s *UploadScreen) Init() tea.Cmd {
	return s.setFocus(fieldPath)
}

func (s *UploadScreen) Title() string {
	return "Upload"
}

func (s *UploadScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Upload"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *UploadScreen) setFocus(i int) tea.Cmd {
	s.focus = i
	for j := range s.fields {
		s.fields[j].Blur()
	}
	return s.fields[i].Focus()
}

func (s *UploadScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case uploadedMsg:
		if msg.Err != nil {
			s.busy = ""
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		syl := msg.Syllabus
		s.uploaded = &syl
		s.busy = "Generating topics…"
		backend := s.backend
		return s, func() tea.Msg {
			topics, err := backend.GenerateAndSaveTopics(s.ctx, syl.ID)
			return generatedMsg{Topics: topics, Err: err}
		}

	case generatedMsg:
		s.busy = ""
		if msg.Err != nil {
			s.errMsg = "Topics could not be generated: " + msg.Err.Error()
			return s, nil
		}
		return s, s.openUploaded()

	case tea.KeyPressMsg:
		if s.busy != "" {
			return s, nil
		}
		if s.uploaded != nil {
			if msg.String() == "enter" {
				return s, s.openUploaded()
			}
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % len(s.fields))
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + len(s.fields) - 1) % len(s.fields))
		case "enter":
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

func (s *UploadScreen) openUploaded() tea.Cmd {
	next := s.nav.Syllabus(s.uploaded.ID)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *UploadScreen) submit() tea.Cmd {
	path := expandHome(strings.TrimSpace(s.fields[fieldPath].Value()))
	if path == "" {
		s.errMsg = "Enter the path of a document."
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		s.errMsg = "Cannot read " + path
		return nil
	}
	s.errMsg = ""
	s.busy = "Uploading…"
	title := strings.TrimSpace(s.fields[fieldTitle].Value())
	desc := strings.TrimSpace(s.fields[fieldDescription].Value())
	backend := s.backend
	return func() tea.Msg {
		syl, err := backend.UploadFile(s.ctx, path, title, desc)
		return uploadedMsg{Syllabus: syl, Err: err}
	}
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func (s *UploadScreen) View(width, height int) string {
	lines := []string{
		theme.Title.Render("Upload a syllabus"),
		theme.Subtitle.Render("PDF, Word or text documents up to 10 MB"),
		"",
	}
	for _, f := range s.fields {
		lines = append(lines, f.View())
	}
	if path := s.fields[fieldPath].Value(); path != "" {
		lines = append(lines, "", theme.Hint.Render("Type: "+string(apiclient.DocumentTypeFor(path))))
	}
	switch {
	case s.busy != "":
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Accent).Render(s.busy))
	case s.errMsg != "":
		lines = append(lines, "", theme.ErrorText.Render(s.errMsg))
	}
	if s.uploaded != nil && s.busy == "" {
		lines = append(lines, theme.Hint.Render("Press Enter to open "+s.uploaded.Title+"."))
	}
	form := theme.Card.Width(min(width-4, 80)).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, form)
}
