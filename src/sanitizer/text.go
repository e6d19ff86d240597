package sanitizer

import (
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Escape replaces the HTML-significant characters < > & " ' with
// entity references. It is applied exactly once to every literal
// payload before a node is built; Escape(Escape(s)) double-escapes.
func Escape(text string) string {
	return html.EscapeString(text)
}

// IsValid reports whether text may be kept in a node. It rejects NUL
// and every other C0 control except newline and tab, DEL, and invalid
// UTF-8. Escaped output of valid input is always valid.
func IsValid(text string) bool {
	if !utf8.ValidString(text) {
		return false
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\n' || c == '\t' {
			continue
		}
		if c < 0x20 || c == 0x7f {
			return false
		}
	}
	return true
}
