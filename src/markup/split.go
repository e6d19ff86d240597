package markup

import (
	"regexp"
	"strings"
)

// blankLines matches a run of one or more blank lines, where a line
// holding only spaces and tabs counts as blank.
var blankLines = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)*`)

// Split divides raw on blank-line boundaries. Segments are trimmed and
// empty ones are discarded; order is preserved.
func Split(raw string) []string {
	parts := blankLines.Split(raw, -1)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
