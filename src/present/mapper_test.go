package present

import (
	"reflect"
	"testing"

	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/markup"
	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/render"
	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/sanitizer"
)

func TestMap_SingleBlockIsFlat(t *testing.T) {
	v := Map(render.Default().Render("single line"), DarkTheme())
	if len(v.Containers) != 0 {
		t.Errorf("containers = %d, want 0", len(v.Containers))
	}
	want := []Unit{{Kind: markup.KindPlainText, Text: "single line"}}
	if !reflect.DeepEqual(v.Units, want) {
		t.Errorf("units = %+v, want %+v", v.Units, want)
	}
}

func TestMap_ParagraphsGetContainers(t *testing.T) {
	v := Map(render.Default().Render("a\n\nb\n\nc"), DarkTheme())
	if len(v.Units) != 0 {
		t.Errorf("units = %d, want 0", len(v.Units))
	}
	if len(v.Containers) != 3 {
		t.Fatalf("containers = %d, want 3", len(v.Containers))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got := v.Containers[i].Units[0].Text; got != want {
			t.Errorf("container %d = %q, want %q", i, got, want)
		}
	}
}

func TestMapNode(t *testing.T) {
	theme := LightTheme()

	tests := []struct {
		name string
		node markup.Node
		want Unit
	}{
		{"bold", markup.Node{Kind: markup.KindBold, Text: "b"},
			Unit{Kind: markup.KindBold, Text: "b", Style: Style{Bold: true}}},
		{"emphasis", markup.Node{Kind: markup.KindEmphasis, Text: "e"},
			Unit{Kind: markup.KindEmphasis, Text: "e", Style: Style{Italic: true}}},
		{"code", markup.Node{Kind: markup.KindCode, Text: "c"},
			Unit{Kind: markup.KindCode, Text: "c", Style: theme.Code}},
		{"known color", markup.Node{Kind: markup.KindColorSpan, Text: "r", Color: sanitizer.ColorRed},
			Unit{Kind: markup.KindColorSpan, Text: "r", Style: Style{Color: "#cf222e"}}},
		{"default color", markup.Node{Kind: markup.KindColorSpan, Text: "d", Color: sanitizer.ColorDefault},
			Unit{Kind: markup.KindColorSpan, Text: "d", Style: Style{Color: theme.Foreground}}},
		{"link", markup.Node{Kind: markup.KindLink, Text: "x", URL: "https://example.com"},
			Unit{Kind: markup.KindLink, Text: "x", Style: theme.Link, Title: "https://example.com"}},
		{"blocked", markup.Blocked(),
			Unit{Kind: markup.KindBlocked, Text: BlockedText, Style: theme.Blocked}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapNode(tt.node, theme); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MapNode = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMap_Blocked(t *testing.T) {
	theme := DarkTheme()
	v := Map(render.Default().Render("<script>alert(1)</script>"), theme)
	if !v.Blocked {
		t.Error("Blocked = false, want true")
	}
	want := []Unit{{Kind: markup.KindBlocked, Text: BlockedText, Style: theme.Blocked}}
	if !reflect.DeepEqual(v.Units, want) {
		t.Errorf("units = %+v, want %+v", v.Units, want)
	}
}
