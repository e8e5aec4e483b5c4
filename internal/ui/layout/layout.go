package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/ui/theme"
)

// Minimum terminal size the frame is drawn at.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small.\n\nResize to at least %d x %d\n(current %d x %d)",
			MinWidth, MinHeight, width, height,
		))
}

var bar = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// RenderHeader renders the header bar: app name on the left, screen title
// centered and the signed-in user (or "signed out") on the right.
func RenderHeader(title, user string, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  StudyForge")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	who := lipgloss.NewStyle().Foreground(theme.TextDim).Render("signed out")
	if user != "" {
		who = lipgloss.NewStyle().Foreground(theme.Accent).Render("● " + Truncate(user, 24))
	}

	return bar.Width(width).Render(spread(brand, center, who, max(0, width-4)))
}

// spread lays out three segments across width with center as close to the
// middle as the left segment allows.
func spread(left, center, right string, width int) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	gapL := max(1, (width-cw)/2-lw)
	gapR := max(1, width-lw-gapL-cw-rw)
	return left + strings.Repeat(" ", gapL) + center + strings.Repeat(" ", gapR) + right
}

// RenderFooter renders the key hints. Hints that do not fit the width are
// dropped from the left so the trailing ones (Back, Quit) stay visible.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, key.Render(h.Key)+" "+desc.Render(h.Description))
	}

	const sep = "   "
	content := "  " + strings.Join(parts, sep)
	for len(parts) > 1 && lipgloss.Width(content) > width-4 {
		parts = parts[1:]
		content = "  " + strings.Join(parts, sep)
	}

	return bar.Width(width).Render(content)
}

// RenderFrame stacks header, content and footer, sizing content to the
// height left between them.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(0, height-lipgloss.Height(header)-lipgloss.Height(footer))
	body := lipgloss.NewStyle().Width(width).Height(rest).Render(content)
	return header + "\n" + body + "\n" + footer
}

// ListWindow returns the [start, end) range of a list of n rows that keeps
// cursor visible in height rows, starting the search from offset.
func ListWindow(n, cursor, offset, height int) (start, end int) {
	if height <= 0 || n == 0 {
		return 0, 0
	}
	start = offset
	if cursor < start {
		start = cursor
	}
	if cursor >= start+height {
		start = cursor - height + 1
	}
	start = max(0, min(start, max(0, n-height)))
	end = min(n, start+height)
	return start, end
}

// Truncate shortens s to at most n display cells, ending with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
