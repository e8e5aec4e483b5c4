// Package content turns topic content from the backend into plain-text
// paragraphs for the terminal. Content is usually plain text separated by
// blank lines, but generated content sometimes arrives as an HTML fragment.
package content

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blocks are the elements rendered as their own paragraph.
const blocks = "p, li, h1, h2, h3, h4, h5, h6, pre, blockquote, td"

var (
	blankLine = regexp.MustCompile(`\n\s*\n`)
	htmlTag   = regexp.MustCompile(`<(p|div|br|ul|ol|li|h[1-6]|pre|blockquote|table|span|strong|em|b|i|a|code)\b[^>]*>`)
)

// Paragraphs splits raw content into trimmed, non-empty paragraphs.
func Paragraphs(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if IsHTML(raw) {
		if ps, ok := htmlParagraphs(raw); ok {
			return ps
		}
	}
	return textParagraphs(raw)
}

// IsHTML reports whether raw contains common markup tags.
func IsHTML(raw string) bool {
	return htmlTag.MatchString(raw)
}

func textParagraphs(raw string) []string {
	var out []string
	for _, p := range blankLine.Split(raw, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func htmlParagraphs(raw string) ([]string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, false
	}
	doc.Find("script, style").Remove()

	var out []string
	doc.Find(blocks).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are emitted on their own.
		if s.Find(blocks).Length() > 0 {
			return
		}
		text := collapse(s.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" {
			text = "• " + text
		}
		out = append(out, text)
	})

	if len(out) == 0 {
		text := collapse(doc.Text())
		if text == "" {
			return nil, true
		}
		out = append(out, text)
	}
	return out, true
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Excerpt returns the first paragraph shortened to at most n runes.
func Excerpt(raw string, n int) string {
	ps := Paragraphs(raw)
	if len(ps) == 0 || n <= 0 {
		return ""
	}
	first := collapse(ps[0])
	r := []rune(first)
	if len(r) <= n {
		return first
	}
	if n == 1 {
		return "…"
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
