package sanitizer

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

const (
	zeroWidthNonJoiner = '\u200C'
	zeroWidthJoiner    = '\u200D'
)

// UnicodeScanner blocks content that carries non-printable code
// points: C0/C1 controls other than newline and tab, format characters
// (bidi overrides, zero-width spaces, BOM), private use, line/paragraph
// separators, and invalid UTF-8.
type UnicodeScanner struct{}

func (UnicodeScanner) Name() string { return "unicode" }

func (UnicodeScanner) Scan(content string) ScanResult {
	if !utf8.ValidString(content) {
		return ScanResult{
			Verdict:     VerdictBlock,
			Content:     content,
			Threats:     []string{"invalid UTF-8 sequence"},
			ScannerName: "unicode",
		}
	}

	for i, r := range content {
		if allowedRune(r) {
			continue
		}
		return ScanResult{
			Verdict:     VerdictBlock,
			Content:     content,
			Threats:     []string{fmt.Sprintf("disallowed code point %U at offset %d", r, i)},
			ScannerName: "unicode",
		}
	}

	return ScanResult{
		Verdict:     VerdictPass,
		Content:     content,
		ScannerName: "unicode",
	}
}

// allowedRune reports whether r may appear in raw input. Joiners are
// kept because emoji sequences and several scripts depend on them.
func allowedRune(r rune) bool {
	switch r {
	case '\n', '\t', zeroWidthJoiner, zeroWidthNonJoiner:
		return true
	}
	return unicode.IsGraphic(r)
}
