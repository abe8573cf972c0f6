package utils

import (
	"html"
	"strings"
)

// Sanitize prepares free-text input for storage: HTML tags are stripped
// and the remainder is entity-escaped, so stored values can be rendered
// without executing injected markup.
func Sanitize(s string) string {
	return html.EscapeString(stripTags(s))
}

// stripTags removes everything between '<' and the next '>'. An unclosed
// '<' drops the rest of the string, which errs on the side of losing
// characters over keeping markup.
func stripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
