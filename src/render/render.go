// Package render orchestrates the inline pipeline: the safety gate runs
// over the whole capped input, then each paragraph is scanned into
// nodes. Every input, including the empty string, yields a Document.
package render

import (
	"errors"
	"fmt"

	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/markup"
	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/sanitizer"
)

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	MaxChars       int
	Marker         string
	CustomPatterns []string // extra case-insensitive block patterns
}

// Engine is safe for concurrent use; it holds no per-call state.
type Engine struct {
	gate *sanitizer.Gate
}

// New builds an Engine. It fails only when a custom pattern does not
// compile.
func New(opts Options) (*Engine, error) {
	gate, err := sanitizer.NewDefaultGate(opts.MaxChars, opts.Marker, opts.CustomPatterns)
	if err != nil {
		return nil, fmt.Errorf("safety gate: %w", err)
	}
	return &Engine{gate: gate}, nil
}

// Default returns an Engine with the built-in limits and patterns.
func Default() *Engine {
	e, err := New(Options{})
	if err != nil {
		panic(err)
	}
	return e
}

// Document is the outcome of one Render call.
type Document struct {
	Verdict   sanitizer.Verdict `json:"verdict"`
	Blocks    []markup.Block    `json:"blocks"`
	Blocked   bool              `json:"blocked"`
	Truncated bool              `json:"truncated"`
	Threats   []string          `json:"threats,omitempty"`
}

// Wrapped reports whether the document needs one container per
// paragraph. A single paragraph renders flat.
func (d Document) Wrapped() bool {
	return len(d.Blocks) > 1
}

// Render runs raw through the gate, the splitter and the scanner. A gate
// block or a disallowed tag anywhere replaces the whole document with a
// single Blocked node.
func (e *Engine) Render(raw string) Document {
	gr := e.gate.Check(raw)
	if !gr.Verdict.Safe() {
		return blocked(gr.Threats)
	}

	doc := Document{
		Verdict:   gr.Verdict,
		Truncated: gr.Truncated,
		Threats:   gr.Threats,
	}
	for _, segment := range markup.Split(gr.Content) {
		block, err := markup.Scan(segment)
		if err != nil {
			return blocked(append(append([]string(nil), gr.Threats...), threat(err)))
		}
		if len(block) == 0 {
			continue
		}
		doc.Blocks = append(doc.Blocks, block)
	}
	return doc
}

// Check runs only the safety gate.
func (e *Engine) Check(raw string) sanitizer.GateResult {
	return e.gate.Check(raw)
}

func blocked(threats []string) Document {
	return Document{
		Verdict: sanitizer.VerdictBlock,
		Blocks:  []markup.Block{{markup.Blocked()}},
		Blocked: true,
		Threats: threats,
	}
}

func threat(err error) string {
	var dt *markup.DisallowedTagError
	if errors.As(err, &dt) {
		return fmt.Sprintf("disallowed tag <%s>", dt.Tag)
	}
	return err.Error()
}
