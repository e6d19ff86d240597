package present

import (
	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/markup"
	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/render"
)

// BlockedText is shown in place of rejected content.
const BlockedText = "[content blocked]"

// Unit is one presentation-ready run of text. Text is already escaped.
// Title is only ever set for links and is display-only.
type Unit struct {
	Kind  markup.Kind `json:"kind"`
	Text  string      `json:"text,omitempty"`
	Style Style       `json:"style"`
	Title string      `json:"title,omitempty"`
}

// Container groups the units of one paragraph.
type Container struct {
	Units []Unit `json:"units"`
}

// View is the mapped form of a Document. A single paragraph is carried
// flat in Units; several paragraphs get one Container each.
type View struct {
	Units      []Unit      `json:"units,omitempty"`
	Containers []Container `json:"containers,omitempty"`
	Blocked    bool        `json:"blocked"`
	Truncated  bool        `json:"truncated"`
}

// Map converts doc using theme. It is deterministic and has no side
// effects.
func Map(doc render.Document, theme Theme) View {
	v := View{Blocked: doc.Blocked, Truncated: doc.Truncated}
	if !doc.Wrapped() {
		for _, b := range doc.Blocks {
			v.Units = mapBlock(b, theme)
		}
		return v
	}

	v.Containers = make([]Container, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		v.Containers = append(v.Containers, Container{Units: mapBlock(b, theme)})
	}
	return v
}

func mapBlock(b markup.Block, theme Theme) []Unit {
	units := make([]Unit, 0, len(b))
	for _, n := range b {
		units = append(units, MapNode(n, theme))
	}
	return units
}

// MapNode converts a single node.
func MapNode(n markup.Node, theme Theme) Unit {
	u := Unit{Kind: n.Kind, Text: n.Text}
	switch n.Kind {
	case markup.KindBold:
		u.Style.Bold = true
	case markup.KindItalic, markup.KindEmphasis:
		u.Style.Italic = true
	case markup.KindUnderline:
		u.Style.Underline = true
	case markup.KindCode:
		u.Style = theme.Code
	case markup.KindColorSpan:
		u.Style.Color = theme.Color(n.Color)
	case markup.KindLink:
		u.Style = theme.Link
		u.Title = n.URL
	case markup.KindBlocked:
		u.Style = theme.Blocked
		u.Text = BlockedText
	}
	return u
}
