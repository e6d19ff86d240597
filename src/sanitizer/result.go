package sanitizer

import "fmt"

// Verdict represents the outcome of a scan.
type Verdict int

const (
	// VerdictPass means the content is clean.
	VerdictPass Verdict = iota
	// VerdictModify means the content was normalized or truncated and
	// the modified copy should be used in place of the original.
	VerdictModify
	// VerdictBlock means the content is unsafe as a whole and must be
	// replaced by the block marker.
	VerdictBlock
)

func (v Verdict) String() string {
	switch v {
	case VerdictPass:
		return "pass"
	case VerdictModify:
		return "modify"
	case VerdictBlock:
		return "block"
	default:
		return "unknown"
	}
}

// MarshalText encodes the verdict by name.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a verdict name written by MarshalText.
func (v *Verdict) UnmarshalText(text []byte) error {
	for _, c := range []Verdict{VerdictPass, VerdictModify, VerdictBlock} {
		if c.String() == string(text) {
			*v = c
			return nil
		}
	}
	return fmt.Errorf("unknown verdict %q", text)
}

// Safe reports whether content carrying this verdict may be scanned.
func (v Verdict) Safe() bool {
	return v == VerdictPass || v == VerdictModify
}

// ScanResult is the outcome of a single Scanner.
type ScanResult struct {
	Verdict     Verdict
	Content     string   // original or modified content
	Threats     []string // human-readable threat descriptions
	ScannerName string
	Truncated   bool // set by the length scanner when it cut the input
}

// GateResult aggregates results from all scanners in a Gate.
type GateResult struct {
	Verdict     Verdict
	Content     string
	Threats     []string
	Truncated   bool
	ScanResults []ScanResult
}
