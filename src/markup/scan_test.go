package markup

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/sanitizer"
)

func plain(s string) Node { return Node{Kind: KindPlainText, Text: s} }

func TestScan_Patterns(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Block
	}{
		{"bold", "**hi**", Block{{Kind: KindBold, Text: "hi"}}},
		{"italic", "*hi*", Block{{Kind: KindItalic, Text: "hi"}}},
		{"underline", "__hi__", Block{{Kind: KindUnderline, Text: "hi"}}},
		{"emphasis", "_hi_", Block{{Kind: KindEmphasis, Text: "hi"}}},
		{"code", "`x := 1`", Block{{Kind: KindCode, Text: "x := 1"}}},
		{"surrounded", "a **b** c", Block{plain("a "), {Kind: KindBold, Text: "b"}, plain(" c")}},
		{"adjacent spans", "**a**__b__", Block{{Kind: KindBold, Text: "a"}, {Kind: KindUnderline, Text: "b"}}},
		{"flat nesting", "**a *b* c**", Block{{Kind: KindBold, Text: "a *b* c"}}},
		{"payload escaped", "`<b>&</b>`", Block{{Kind: KindCode, Text: "&lt;b&gt;&amp;&lt;/b&gt;"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scan(tt.input)
			if err != nil {
				t.Fatalf("Scan(%q) error = %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Scan(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestScan_LiteralText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"snake case", "use snake_case_name here", "use snake_case_name here"},
		{"intraword double underscore", "foo__bar__baz", "foo__bar__baz"},
		{"arithmetic", "2 * 3 * 4", "2 * 3 * 4"},
		{"unterminated bold", "**bold", "**bold"},
		{"unterminated code", "`open", "`open"},
		{"span across newline", "*a\nb*", "*a\nb*"},
		{"escaping", `a < b & "c" it's`, "a &lt; b &amp; &#34;c&#34; it&#39;s"},
		{"stray whitelisted closer", "a </b> b", "a &lt;/b&gt; b"},
		{"opener without closer", "<b>never closed", "&lt;b&gt;never closed"},
		{"heart", "i <3 go", "i &lt;3 go"},
		{"comparison without closing bracket", "if x<y then z", "if x&lt;y then z"},
		{"generic bracket at end", "x<y", "x&lt;y"},
		{"rejected link", "[x](javascript:alert(1))", "[x](javascript:alert(1))"},
		{"empty link text", "[](https://a.example)", "[](https://a.example)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scan(tt.input)
			if err != nil {
				t.Fatalf("Scan(%q) error = %v", tt.input, err)
			}
			want := Block{plain(tt.want)}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Scan(%q) = %+v, want %+v", tt.input, got, want)
			}
		})
	}
}

func TestScan_SnakeCaseEmphasis(t *testing.T) {
	got, err := Scan("_snake_case_")
	if err != nil {
		t.Fatalf("Scan error = %v", err)
	}
	want := Block{{Kind: KindEmphasis, Text: "snake_case"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan = %+v, want %+v", got, want)
	}
}

func TestScan_WhitelistedTags(t *testing.T) {
	tests := []struct {
		input string
		want  Node
	}{
		{"<b>x</b>", Node{Kind: KindBold, Text: "x"}},
		{"<STRONG>x</strong>", Node{Kind: KindBold, Text: "x"}},
		{"<i>x</i>", Node{Kind: KindItalic, Text: "x"}},
		{"<em>x</em>", Node{Kind: KindItalic, Text: "x"}},
		{"<u>x</u>", Node{Kind: KindUnderline, Text: "x"}},
		{"<code>x</code>", Node{Kind: KindCode, Text: "x"}},
		{`<span class="color-red">x</span>`, Node{Kind: KindColorSpan, Text: "x", Color: sanitizer.ColorRed}},
		{`<span class="color-grey">x</span>`, Node{Kind: KindColorSpan, Text: "x", Color: sanitizer.ColorGray}},
		{`<span class="color-banana">x</span>`, Node{Kind: KindColorSpan, Text: "x", Color: sanitizer.ColorDefault}},
		{`<span class="big">x</span>`, plain("x")},
		{"<span>x</span>", plain("x")},
	}

	for _, tt := range tests {
		got, err := Scan(tt.input)
		if err != nil {
			t.Fatalf("Scan(%q) error = %v", tt.input, err)
		}
		if want := (Block{tt.want}); !reflect.DeepEqual(got, want) {
			t.Errorf("Scan(%q) = %+v, want %+v", tt.input, got, want)
		}
	}
}

func TestScan_VoidTags(t *testing.T) {
	tests := []struct {
		input string
		want  Block
	}{
		{"a<br>b", Block{plain("a"), {Kind: KindLineBreak}, plain("b")}},
		{"a<br/>b", Block{plain("a"), {Kind: KindLineBreak}, plain("b")}},
		{"a<BR />b", Block{plain("a"), {Kind: KindLineBreak}, plain("b")}},
		{"a<hr>b", Block{plain("ab")}},
	}

	for _, tt := range tests {
		got, err := Scan(tt.input)
		if err != nil {
			t.Fatalf("Scan(%q) error = %v", tt.input, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Scan(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestScan_DisallowedTags(t *testing.T) {
	tests := []struct {
		input string
		tag   string
	}{
		{"<div>x</div>", "div"},
		{"see <img src=x> here", "img"},
		{"</script>", "/script"},
		{"<!-- hidden -->", "!-"},
		{"a <iframe src=x> b", "iframe"},
		{"<svg/onload=x>", "svg"},
		{"text <object data=x></object>", "object"},
		{"<b>x</b> then <form>", "form"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Scan(tt.input)
			var dt *DisallowedTagError
			if !errors.As(err, &dt) {
				t.Fatalf("Scan(%q) error = %v, want *DisallowedTagError", tt.input, err)
			}
			if dt.Tag != tt.tag {
				t.Errorf("Tag = %q, want %q", dt.Tag, tt.tag)
			}
		})
	}
}

func TestScan_PayloadBracketsStayLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Block
	}{
		{"code generic", "use `Vec<String>` here", Block{
			plain("use "), {Kind: KindCode, Text: "Vec&lt;String&gt;"}, plain(" here"),
		}},
		{"code tag generic", "<code>map<string>int</code>", Block{
			{Kind: KindCode, Text: "map&lt;string&gt;int"},
		}},
		{"bold", "**<iframe>**", Block{{Kind: KindBold, Text: "&lt;iframe&gt;"}}},
		{"whitelisted tag payload", "<b><svg></b>", Block{{Kind: KindBold, Text: "&lt;svg&gt;"}}},
		{"link text", "[<object>](https://a.example)", Block{
			{Kind: KindLink, Text: "&lt;object&gt;", URL: "https://a.example"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scan(tt.input)
			if err != nil {
				t.Fatalf("Scan(%q) error = %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Scan(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestScan_Links(t *testing.T) {
	tests := []struct {
		input string
		want  Node
	}{
		{"[site](https://example.com)", Node{Kind: KindLink, Text: "site", URL: "https://example.com"}},
		{"[mail me](mailto:a@example.com)", Node{Kind: KindLink, Text: "mail me", URL: "mailto:a@example.com"}},
		{"[doc](/docs/intro)", Node{Kind: KindLink, Text: "doc", URL: "/docs/intro"}},
		{"[wiki](https://e.example/a_(b))", Node{Kind: KindLink, Text: "wiki", URL: "https://e.example/a_(b)"}},
		{"[q](https://a.example/?a=1&b=2)", Node{Kind: KindLink, Text: "q", URL: "https://a.example/?a=1&amp;b=2"}},
	}

	for _, tt := range tests {
		got, err := Scan(tt.input)
		if err != nil {
			t.Fatalf("Scan(%q) error = %v", tt.input, err)
		}
		if want := (Block{tt.want}); !reflect.DeepEqual(got, want) {
			t.Errorf("Scan(%q) = %+v, want %+v", tt.input, got, want)
		}
	}
}

func TestScan_DropsInvalidPayload(t *testing.T) {
	got, err := Scan("ok **a\x00b** ok")
	if err != nil {
		t.Fatalf("Scan error = %v", err)
	}
	want := Block{plain("ok  ok")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan = %+v, want %+v", got, want)
	}
}

func TestScan_LargeInputTerminates(t *testing.T) {
	long := strings.Repeat("a", 100_000)
	got, err := Scan(long)
	if err != nil {
		t.Fatalf("Scan error = %v", err)
	}
	if len(got) != 1 || len(got[0].Text) != len(long) {
		t.Errorf("Scan(long) produced %d nodes, want a single plain node", len(got))
	}

	markers := strings.Repeat("*_`[", 25_000)
	if _, err := Scan(markers); err != nil {
		t.Errorf("Scan(markers) error = %v", err)
	}
}

func TestScan_Empty(t *testing.T) {
	got, err := Scan("")
	if err != nil || len(got) != 0 {
		t.Errorf("Scan(\"\") = %v, %v, want empty block", got, err)
	}
}
