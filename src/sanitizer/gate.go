package sanitizer

// Gate executes an ordered sequence of Scanners against raw content.
// On VerdictBlock it short-circuits. On VerdictModify it threads the
// modified content into subsequent scanners, so scanners placed after
// the length scanner only ever see capped input.
type Gate struct {
	scanners []Scanner
}

// NewGate creates a gate from the given scanners. Execution order
// matches the slice order.
func NewGate(scanners ...Scanner) *Gate {
	return &Gate{scanners: scanners}
}

// NewDefaultGate builds the standard gate:
// newline -> length -> unicode -> markup -> scheme -> encoding.
// customPatterns are extra case-insensitive block patterns appended to
// the markup scanner.
func NewDefaultGate(maxChars int, marker string, customPatterns []string) (*Gate, error) {
	markup, err := NewMarkupScanner(customPatterns)
	if err != nil {
		return nil, err
	}
	return NewGate(
		NewlineScanner{},
		NewLengthScanner(maxChars, marker),
		UnicodeScanner{},
		markup,
		SchemeScanner{},
		EncodingScanner{},
	), nil
}

// Check runs all scanners in order and returns an aggregated result.
// A result with a Safe verdict always carries the content that should
// be handed to the segment scanner.
func (g *Gate) Check(content string) GateResult {
	current := content
	result := GateResult{
		Verdict:     VerdictPass,
		ScanResults: make([]ScanResult, 0, len(g.scanners)),
	}

	for _, s := range g.scanners {
		sr := s.Scan(current)

		result.ScanResults = append(result.ScanResults, sr)
		result.Threats = append(result.Threats, sr.Threats...)
		if sr.Truncated {
			result.Truncated = true
		}

		switch sr.Verdict {
		case VerdictBlock:
			result.Verdict = VerdictBlock
			result.Content = ""
			return result
		case VerdictModify:
			result.Verdict = VerdictModify
			current = sr.Content
		default:
			// VerdictPass: keep current content as-is
		}
	}

	result.Content = current
	return result
}
