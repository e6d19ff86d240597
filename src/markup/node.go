// Package markup turns one sanitized text segment into a flat sequence
// of typed inline nodes, and splits raw input into paragraph segments.
//
// The model is deliberately flat: a captured payload is never scanned
// again, so "**a *b* c**" is one Bold node whose text is "a *b* c".
package markup

import (
	"fmt"

	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/sanitizer"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	KindPlainText Kind = iota
	KindBold
	KindItalic
	KindUnderline
	KindEmphasis
	KindCode
	KindColorSpan
	KindLineBreak
	KindLink
	KindBlocked
)

var kindNames = [...]string{
	KindPlainText: "text",
	KindBold:      "bold",
	KindItalic:    "italic",
	KindUnderline: "underline",
	KindEmphasis:  "emphasis",
	KindCode:      "code",
	KindColorSpan: "color",
	KindLineBreak: "break",
	KindLink:      "link",
	KindBlocked:   "blocked",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name written by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown node kind %q", text)
}

// Node is one flat inline unit. Text and URL are always escaped.
type Node struct {
	Kind  Kind               `json:"kind"`
	Text  string             `json:"text,omitempty"`
	Color sanitizer.ColorKey `json:"color,omitempty"` // KindColorSpan only
	URL   string             `json:"url,omitempty"`   // KindLink only; title, never a target
}

// Block is the ordered node list of one paragraph.
type Block []Node

// Blocked returns the sole node of a rejected segment.
func Blocked() Node {
	return Node{Kind: KindBlocked}
}

// IsBlocked reports whether b is the rejected-segment marker.
func (b Block) IsBlocked() bool {
	return len(b) == 1 && b[0].Kind == KindBlocked
}
