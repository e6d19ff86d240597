package sanitizer

import "testing"

func TestMarkupScanner_Clean(t *testing.T) {
	s, err := NewMarkupScanner(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, input := range []string{
		"The file contains 42 lines of code.",
		"<b>bold</b> <i>italic</i>",
		`<span class="color-red">red</span>`,
		"turn the light on=off outside brackets",
		"a description of the onload event",
	} {
		if res := s.Scan(input); res.Verdict != VerdictPass {
			t.Errorf("Scan(%q) verdict = %v, want Pass", input, res.Verdict)
		}
	}
}

func TestMarkupScanner_BuiltInPatterns(t *testing.T) {
	s, err := NewMarkupScanner(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		input string
	}{
		{"script open", "<script>alert(1)</script>"},
		{"script upper", "<SCRIPT>"},
		{"script spaced", "<  script>"},
		{"script close only", "text </script>"},
		{"onerror", `<img src=x onerror=alert(1)>`},
		{"onload slash", `<svg/onload=alert(1)>`},
		{"onclick quoted", `<b class="x"onclick="y">`},
		{"handler unclosed", `<img src=x onerror=alert(1)`},
		{"handler spaced", `<div onmouseover = "x">`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Scan(tt.input)
			if res.Verdict != VerdictBlock {
				t.Errorf("verdict = %v, want Block", res.Verdict)
			}
			if len(res.Threats) == 0 {
				t.Error("expected at least one threat")
			}
		})
	}
}

func TestMarkupScanner_CustomPatterns(t *testing.T) {
	s, err := NewMarkupScanner([]string{`<\s*marquee`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res := s.Scan("<MARQUEE>hi"); res.Verdict != VerdictBlock {
		t.Errorf("verdict = %v, want Block", res.Verdict)
	}
	if res := s.Scan("<script>"); res.Verdict != VerdictBlock {
		t.Errorf("built-in patterns should stay active, verdict = %v", res.Verdict)
	}
}

func TestMarkupScanner_InvalidPattern(t *testing.T) {
	if _, err := NewMarkupScanner([]string{`[invalid`}); err == nil {
		t.Fatal("expected error for invalid regex")
	}
}
