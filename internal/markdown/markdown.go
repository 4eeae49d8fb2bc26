// Package markdown renders the small markdown subset the AI endpoints emit
// into safe HTML: headings, bold, italic and line breaks. Everything else is
// escaped text.
package markdown

import (
	"html"
	"regexp"
	"strings"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.+?)\*`)
	headPattern   = regexp.MustCompile(`^(#{1,3})\s+(.*)$`)
)

// Render converts markdown text to HTML. Input is HTML-escaped before any
// markup is applied, so model output can never inject tags.
func Render(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var b strings.Builder
	for i, line := range lines {
		line = html.EscapeString(line)

		if m := headPattern.FindStringSubmatch(line); m != nil {
			level := len(m[1])
			b.WriteString("<h")
			b.WriteByte(byte('0' + level))
			b.WriteByte('>')
			b.WriteString(inline(m[2]))
			b.WriteString("</h")
			b.WriteByte(byte('0' + level))
			b.WriteByte('>')
			continue
		}

		b.WriteString(inline(line))
		if i < len(lines)-1 {
			b.WriteString("<br>")
		}
	}
	return b.String()
}

// inline applies bold before italic so "**x**" never reads as two italics.
func inline(line string) string {
	line = boldPattern.ReplaceAllString(line, "<strong>$1</strong>")
	return italicPattern.ReplaceAllString(line, "<em>$1</em>")
}
