package sanitizer

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// maxDecodeRounds bounds repeated entity/percent decoding of nested
// encodings such as "&amp;lt;script&amp;gt;".
const maxDecodeRounds = 3

// scriptSchemes are compared with separators removed so that
// "java\tscript:" or "ｊａｖａｓｃｒｉｐｔ:" count as a scheme token.
var scriptSchemes = []string{"javascript:", "vbscript:", "livescript:"}

// builtInMarkup is the markup scanner without custom patterns, reused
// against the decoded view.
var builtInMarkup = mustMarkupScanner()

func mustMarkupScanner() *MarkupScanner {
	s, err := NewMarkupScanner(nil)
	if err != nil {
		panic(err)
	}
	return s
}

// EncodingScanner catches payloads smuggled past the literal checks
// through HTML entities, percent encoding, compatibility characters
// (fullwidth letters and brackets) or interleaved whitespace. It runs
// the built-in markup and scheme checks again on a decoded, NFKC
// normalized, case-folded view of the content.
type EncodingScanner struct{}

func (EncodingScanner) Name() string { return "encoding" }

func (EncodingScanner) Scan(content string) ScanResult {
	literal := cases.Fold().String(content)
	view := decodedView(content)

	if view != literal {
		if re := builtInMarkup.match(view); re != nil {
			return encodingBlock(fmt.Sprintf("encoded markup detected: matched pattern %q", re.String()))
		}
		for _, re := range dangerousSchemes {
			if match := re.FindString(view); match != "" {
				return encodingBlock(fmt.Sprintf("encoded URI scheme detected: %q", strings.TrimSpace(match)))
			}
		}
	}

	stripped := stripSeparators(view)
	for _, tok := range scriptSchemes {
		if strings.Count(stripped, tok) > strings.Count(literal, tok) {
			return encodingBlock(fmt.Sprintf("obfuscated %q scheme detected", strings.TrimSuffix(tok, ":")))
		}
	}

	return ScanResult{
		Verdict:     VerdictPass,
		Content:     content,
		ScannerName: "encoding",
	}
}

func encodingBlock(threat string) ScanResult {
	return ScanResult{
		Verdict:     VerdictBlock,
		Content:     "",
		Threats:     []string{threat},
		ScannerName: "encoding",
	}
}

// decodedView returns content with entity and percent encodings undone,
// NFKC applied and case folded.
func decodedView(content string) string {
	view := content
	for range maxDecodeRounds {
		next := html.UnescapeString(view)
		if p, err := url.PathUnescape(next); err == nil {
			next = p
		}
		if next == view {
			break
		}
		view = next
	}
	return cases.Fold().String(norm.NFKC.String(view))
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
}
