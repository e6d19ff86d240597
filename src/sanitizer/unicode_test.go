package sanitizer

import (
	"strings"
	"testing"
)

func TestUnicodeScanner_CleanText(t *testing.T) {
	s := UnicodeScanner{}
	res := s.Scan("hello world")
	if res.Verdict != VerdictPass {
		t.Errorf("verdict = %v, want Pass", res.Verdict)
	}
}

func TestUnicodeScanner_AllowsNewlineAndTab(t *testing.T) {
	s := UnicodeScanner{}
	input := "line1\nline2\ttab"
	res := s.Scan(input)
	if res.Verdict != VerdictPass {
		t.Errorf("verdict = %v, want Pass", res.Verdict)
	}
	if res.Content != input {
		t.Errorf("content = %q, want %q", res.Content, input)
	}
}

func TestUnicodeScanner_AllowsNonASCIIText(t *testing.T) {
	s := UnicodeScanner{}
	for _, input := range []string{"日本語テキスト", "naïve café", "emoji 👩\u200D💻", "a\u00A0b"} {
		if res := s.Scan(input); res.Verdict != VerdictPass {
			t.Errorf("Scan(%q) verdict = %v, want Pass (threats %v)", input, res.Verdict, res.Threats)
		}
	}
}

func TestUnicodeScanner_BlocksControlCharacters(t *testing.T) {
	s := UnicodeScanner{}

	tests := []struct {
		name  string
		input string
	}{
		{"nul", "a\x00b"},
		{"bell", "a\x07b"},
		{"escape", "\x1b[31mred"},
		{"delete", "a\x7fb"},
		{"c1 control", "a\u0085b"},
		{"vertical tab", "a\vb"},
		{"lone control", "\x01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Scan(tt.input)
			if res.Verdict != VerdictBlock {
				t.Errorf("verdict = %v, want Block", res.Verdict)
			}
			if len(res.Threats) != 1 {
				t.Errorf("threats = %v, want one entry", res.Threats)
			}
		})
	}
}

func TestUnicodeScanner_BlocksFormatCharacters(t *testing.T) {
	s := UnicodeScanner{}
	for _, input := range []string{
		"hello\u200Bworld", // zero-width space
		"\uFEFFhello",      // BOM
		"abc\u202Efed",     // right-to-left override
		"hello\u200Fworld", // right-to-left mark
		"a\u2028b",         // line separator
	} {
		res := s.Scan(input)
		if res.Verdict != VerdictBlock {
			t.Errorf("Scan(%q) verdict = %v, want Block", input, res.Verdict)
		}
	}
}

func TestUnicodeScanner_ThreatNamesCodePoint(t *testing.T) {
	res := UnicodeScanner{}.Scan("ok\u202E")
	if len(res.Threats) == 0 || !strings.Contains(res.Threats[0], "U+202E") {
		t.Errorf("threats = %v, want mention of U+202E", res.Threats)
	}
}

func TestUnicodeScanner_BlocksInvalidUTF8(t *testing.T) {
	res := UnicodeScanner{}.Scan("abc\xff")
	if res.Verdict != VerdictBlock {
		t.Errorf("verdict = %v, want Block", res.Verdict)
	}
}

func TestUnicodeScanner_EmptyString(t *testing.T) {
	res := UnicodeScanner{}.Scan("")
	if res.Verdict != VerdictPass {
		t.Errorf("verdict = %v, want Pass", res.Verdict)
	}
}
