package dates

import (
	"fmt"
	"strings"
	"time"
)

// Style is the coarseness of a formatted date.
type Style int

const (
	Short Style = iota
	Medium
	Long
	Full
)

// en-US layouts equivalent to the browser's dateStyle option.
var styleLayouts = map[Style]string{
	Short:  "1/2/06",
	Medium: "Jan 2, 2006",
	Long:   "January 2, 2006",
	Full:   "Monday, January 2, 2006",
}

func (s Style) String() string {
	switch s {
	case Short:
		return "short"
	case Medium:
		return "medium"
	case Long:
		return "long"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// ParseStyle parses a style name. The empty string selects Medium.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short":
		return Short, nil
	case "", "medium":
		return Medium, nil
	case "long":
		return Long, nil
	case "full":
		return Full, nil
	default:
		return Medium, fmt.Errorf("unknown date style %q", s)
	}
}

// Format renders a normalized time. The zero time is the "no value"
// sentinel and renders as the empty string for every style.
func Format(t time.Time, style Style) string {
	if t.IsZero() {
		return ""
	}
	layout, ok := styleLayouts[style]
	if !ok {
		layout = styleLayouts[Medium]
	}
	return t.Format(layout)
}

// FormatValue normalizes v in the local zone and formats it.
func FormatValue(v Value, style Style) string {
	t, _ := Normalize(v)
	return Format(t, style)
}
