package sanitizer

import (
	"fmt"
	"regexp"
	"strings"
)

// builtInMarkupPatterns match high-risk constructs anywhere in the raw
// text, whether or not the segment scanner would recognize them as a
// tag. All are compiled with the case-insensitive flag.
var builtInMarkupPatterns = []string{
	// script tag opener or closer, including "< script" and "</script"
	`<\s*/?\s*script`,
	// inline event handler assignment inside an angle-bracket region
	`<[^>]*[\s/"'\x60]on[a-z]+\s*=`,
}

// MarkupScanner detects script openers and event-handler attributes via
// regex matching.
type MarkupScanner struct {
	patterns []*regexp.Regexp
}

// NewMarkupScanner builds a scanner from the built-in patterns plus
// customPatterns. Custom patterns can only add block rules; the
// built-in list cannot be disabled.
func NewMarkupScanner(customPatterns []string) (*MarkupScanner, error) {
	sources := make([]string, 0, len(builtInMarkupPatterns)+len(customPatterns))
	sources = append(sources, builtInMarkupPatterns...)
	sources = append(sources, customPatterns...)

	compiled := make([]*regexp.Regexp, 0, len(sources))
	for _, p := range sources {
		// Prepend case-insensitive flag if not already present.
		if !strings.HasPrefix(p, "(?i)") {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling markup pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}

	return &MarkupScanner{patterns: compiled}, nil
}

func (s *MarkupScanner) Name() string { return "markup" }

func (s *MarkupScanner) Scan(content string) ScanResult {
	if re := s.match(content); re != nil {
		return ScanResult{
			Verdict:     VerdictBlock,
			Content:     content,
			Threats:     []string{fmt.Sprintf("dangerous markup detected: matched pattern %q", re.String())},
			ScannerName: s.Name(),
		}
	}

	return ScanResult{
		Verdict:     VerdictPass,
		Content:     content,
		ScannerName: s.Name(),
	}
}

func (s *MarkupScanner) match(content string) *regexp.Regexp {
	for _, re := range s.patterns {
		if re.MatchString(content) {
			return re
		}
	}
	return nil
}
