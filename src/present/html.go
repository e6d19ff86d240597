package present

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/markup"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once

	classNames = regexp.MustCompile(`^md-[a-z]+(?: md-[a-z]+(?:-[a-z]+)*)?$`)
	cssValue   = regexp.MustCompile(`^(?:#[0-9a-fA-F]{3,8}|[a-z]+(?:[- ][a-z]+)*|\d+px (?:solid|dotted|dashed) #[0-9a-fA-F]{3,8})$`)
)

// htmlPolicy allows exactly the elements, classes and style properties
// HTML emits. Anything else in the fragment is stripped.
func htmlPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("div", "span", "strong", "em", "u", "code", "br")
		p.AllowAttrs("class").Matching(classNames).OnElements("div", "span", "strong", "em", "u", "code")
		p.AllowAttrs("title").OnElements("span")
		p.AllowStyles(
			"color", "background-color", "border",
			"font-family", "font-weight", "font-style", "text-decoration",
		).Matching(cssValue).OnElements("span", "strong", "em", "u", "code")
		policy = p
	})
	return policy
}

// HTML serializes v as an HTML fragment. Links become inert spans whose
// URL is only a title. The fragment passes through a bluemonday
// allowlist before it is returned.
func HTML(v View) string {
	var b strings.Builder
	if len(v.Containers) == 0 {
		writeUnits(&b, v.Units)
	}
	for _, c := range v.Containers {
		b.WriteString(`<div class="md-paragraph">`)
		writeUnits(&b, c.Units)
		b.WriteString(`</div>`)
	}
	return htmlPolicy().Sanitize(b.String())
}

func writeUnits(b *strings.Builder, units []Unit) {
	for _, u := range units {
		writeUnit(b, u)
	}
}

func writeUnit(b *strings.Builder, u Unit) {
	text := strings.ReplaceAll(u.Text, "\n", "<br>")

	var tag, class string
	switch u.Kind {
	case markup.KindPlainText:
		b.WriteString(text)
		return
	case markup.KindLineBreak:
		b.WriteString("<br>")
		return
	case markup.KindBold:
		tag, class = "strong", "md-bold"
	case markup.KindItalic:
		tag, class = "em", "md-italic"
	case markup.KindEmphasis:
		tag, class = "em", "md-emphasis"
	case markup.KindUnderline:
		tag, class = "u", "md-underline"
	case markup.KindCode:
		tag, class, text = "code", "md-code", u.Text
	case markup.KindColorSpan:
		tag, class = "span", "md-color"
	case markup.KindLink:
		tag, class = "span", "md-link"
	case markup.KindBlocked:
		tag, class = "span", "md-blocked"
	default:
		return
	}

	b.WriteString("<" + tag + ` class="` + class + `"`)
	if css := styleAttr(u.Style); css != "" {
		b.WriteString(` style="` + css + `"`)
	}
	if u.Title != "" {
		b.WriteString(` title="` + u.Title + `"`)
	}
	b.WriteString(">" + text + "</" + tag + ">")
}

// styleAttr renders s as CSS declarations. Values that would not pass
// the policy are skipped here so the element keeps its other styles.
func styleAttr(s Style) string {
	var decls []string
	add := func(prop, val string) {
		if val != "" && cssValue.MatchString(val) {
			decls = append(decls, prop+":"+val)
		}
	}
	add("color", s.Color)
	add("background-color", s.Background)
	add("border", s.Border)
	if s.Monospace {
		add("font-family", "monospace")
	}
	if s.Bold {
		add("font-weight", "bold")
	}
	if s.Italic {
		add("font-style", "italic")
	}
	if s.Underline {
		add("text-decoration", "underline")
	}
	return strings.Join(decls, ";")
}
