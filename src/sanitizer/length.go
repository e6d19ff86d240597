package sanitizer

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxChars caps the input before scanning so that the
	// worst-case scan cost is bounded regardless of input size.
	DefaultMaxChars = 50000

	// DefaultTruncationMarker is appended to input that was cut.
	DefaultTruncationMarker = "\n[truncated]"

	// TruncationNotice is the entry LengthScanner adds to Threats. It
	// marks a normal transform, not a detected attack.
	TruncationNotice = "content exceeded character limit"
)

// LengthScanner truncates content exceeding a character limit and
// appends a visible marker.
type LengthScanner struct {
	MaxChars int
	Marker   string
}

// NewLengthScanner creates a LengthScanner with the given character
// limit. A non-positive limit falls back to DefaultMaxChars and an
// empty marker to DefaultTruncationMarker.
func NewLengthScanner(maxChars int, marker string) *LengthScanner {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if marker == "" {
		marker = DefaultTruncationMarker
	}
	return &LengthScanner{MaxChars: maxChars, Marker: marker}
}

func (s *LengthScanner) Name() string { return "length" }

func (s *LengthScanner) Scan(content string) ScanResult {
	if utf8.RuneCountInString(content) <= s.MaxChars {
		return ScanResult{
			Verdict:     VerdictPass,
			Content:     content,
			ScannerName: s.Name(),
		}
	}

	// Cut on a rune boundary without materializing a []rune copy.
	cut, n := 0, 0
	for i := range content {
		if n == s.MaxChars {
			cut = i
			break
		}
		n++
	}

	return ScanResult{
		Verdict:     VerdictModify,
		Content:     content[:cut] + s.Marker,
		Threats:     []string{TruncationNotice},
		ScannerName: s.Name(),
		Truncated:   true,
	}
}

// NewlineScanner rewrites CRLF and lone CR line endings to LF so the
// rest of the pipeline only has to allow '\n'.
type NewlineScanner struct{}

func (NewlineScanner) Name() string { return "newline" }

var newlineReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func (NewlineScanner) Scan(content string) ScanResult {
	if !strings.ContainsRune(content, '\r') {
		return ScanResult{
			Verdict:     VerdictPass,
			Content:     content,
			ScannerName: "newline",
		}
	}
	return ScanResult{
		Verdict:     VerdictModify,
		Content:     newlineReplacer.Replace(content),
		ScannerName: "newline",
	}
}
