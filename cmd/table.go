package cmd

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/ui/layout"
)

// col truncates s to n cells and pads it on the right. Printf widths count
// bytes, which misaligns titles with non-ASCII characters.
func col(s string, n int) string {
	s = layout.Truncate(s, n)
	if w := lipgloss.Width(s); w < n {
		s += strings.Repeat(" ", n-w)
	}
	return s
}

func rule(n int) string {
	return strings.Repeat("─", n)
}
