package placeholder

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/ui/theme"
)

// PlaceholderScreen stands in for a feature this client cannot offer in
// the terminal, and points at the alternative.
type PlaceholderScreen struct {
	title   string
	message string
}

var _ screen.Screen = (*PlaceholderScreen)(nil)

// New creates a PlaceholderScreen. An empty message shows a generic note.
func New(title, message string) *PlaceholderScreen {
	if message == "" {
		message = "This feature is not available here yet."
	}
	return &PlaceholderScreen{title: title, message: message}
}

func (p *PlaceholderScreen) Init() tea.Cmd {
	return nil
}

func (p *PlaceholderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return p, nil
}

func (p *PlaceholderScreen) View(width, height int) string {
	body := theme.Title.Render(p.title) + "\n\n" + theme.Body.Render(p.message) + "\n\n" + theme.Hint.Render("Esc to go back")
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}

func (p *PlaceholderScreen) Title() string {
	return p.title
}
