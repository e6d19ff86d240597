package markup

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/sanitizer"
)

// maxTagLen bounds the length of an opening tag including its attributes.
const maxTagLen = 256

type angleKind int

const (
	angleNone angleKind = iota // a literal '<' such as "a < b" or "<3"
	angleOpen
	angleClose
	angleDisallowed
)

type angle struct {
	kind angleKind
	name string
}

// classifyAngle inspects the '<' at src[i]. Anything that reads as the
// start of a tag, comment, doctype or processing instruction, is closed
// by a '>' within maxTagLen, and is not a whitelisted tag, is disallowed.
// Without that '>' the bracket is literal text, as in "if x<y then".
func classifyAngle(src string, i int) angle {
	j := i + 1
	if j >= len(src) || !closedTag(src, i) {
		return angle{}
	}

	switch c := src[j]; {
	case c == '!' || c == '?':
		if j+1 < len(src) && (isASCIILetter(src[j+1]) || src[j+1] == '-' || src[j+1] == '[') {
			return angle{kind: angleDisallowed, name: src[j : j+2]}
		}
	case c == '/':
		if j+1 < len(src) && isASCIILetter(src[j+1]) {
			name := readName(src, j+1)
			if sanitizer.IsAllowedTag(name) {
				return angle{kind: angleClose, name: name}
			}
			return angle{kind: angleDisallowed, name: "/" + name}
		}
	case isASCIILetter(c):
		name := readName(src, j)
		if sanitizer.IsAllowedTag(name) {
			return angle{kind: angleOpen, name: name}
		}
		return angle{kind: angleDisallowed, name: name}
	}
	return angle{}
}

// closedTag reports whether the '<' at src[i] is followed by a '>'
// within maxTagLen bytes with no other '<' in between.
func closedTag(src string, i int) bool {
	rest := src[i+1 : min(len(src), i+maxTagLen)]
	gt := strings.IndexByte(rest, '>')
	return gt >= 0 && strings.IndexByte(rest[:gt], '<') < 0
}

// readName reads a tag name starting at src[i], lowercased and capped.
func readName(src string, i int) string {
	end := i
	for end < len(src) && end-i < 64 {
		c := src[end]
		if c == ' ' || c == '\t' || c == '\n' || c == '/' || c == '>' || c == '<' {
			break
		}
		end++
	}
	return strings.ToLower(src[i:end])
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// matchTag matches a whitelisted paired tag with its payload, or a
// <br>/<hr>. A whitelisted tag with no closer in reach stays text; a
// disallowed one fails the whole segment. The payload is taken as
// literal text, so "<code>map<string>int</code>" is one Code node.
func matchTag(s *scanner) (match, bool, error) {
	src, pos := s.src, s.pos
	if src[pos] != '<' {
		return match{}, false, nil
	}

	a := classifyAngle(src, pos)
	switch a.kind {
	case angleDisallowed:
		return match{}, false, &DisallowedTagError{Tag: a.name, Offset: pos}
	case angleOpen:
	default:
		return match{}, false, nil
	}

	gt := strings.IndexByte(src[pos:min(len(src), pos+maxTagLen)], '>')
	if gt < 0 || strings.IndexByte(src[pos+1:pos+gt], '<') >= 0 {
		return match{}, false, nil
	}
	end := pos + gt + 1

	name, attrs, selfClosing, ok := parseTag(src[pos:end])
	if !ok || name != a.name {
		return match{}, false, nil
	}
	decision := sanitizer.SanitizeTag(name, attrs)
	if !decision.Allowed {
		return match{}, false, &DisallowedTagError{Tag: name, Offset: pos}
	}

	if sanitizer.IsVoidTag(name) {
		if name == "br" {
			return match{end: end, node: Node{Kind: KindLineBreak}, emit: true}, true, nil
		}
		// <hr> has no inline representation and is consumed silently.
		return match{end: end}, true, nil
	}
	if selfClosing {
		return match{}, false, nil
	}

	closer := "</" + name + ">"
	ci := indexFold(src[end:min(len(src), end+MaxSpan)], closer)
	if ci < 0 {
		return match{}, false, nil
	}
	payload := src[end : end+ci]
	return match{
		end:  end + ci + len(closer),
		node: tagNode(name, decision.Attrs, payload),
		emit: payload != "",
	}, true, nil
}

// parseTag tokenizes a single opening tag.
func parseTag(raw string) (name string, attrs map[string]string, selfClosing, ok bool) {
	z := html.NewTokenizer(strings.NewReader(raw))
	tt := z.Next()
	if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
		return "", nil, false, false
	}
	tok := z.Token()
	attrs = make(map[string]string, len(tok.Attr))
	for _, at := range tok.Attr {
		attrs[at.Key] = at.Val
	}
	return tok.Data, attrs, tt == html.SelfClosingTagToken, true
}

func tagNode(name string, attrs map[string]string, payload string) Node {
	switch name {
	case "b", "strong":
		return Node{Kind: KindBold, Text: payload}
	case "i", "em":
		return Node{Kind: KindItalic, Text: payload}
	case "u":
		return Node{Kind: KindUnderline, Text: payload}
	case "code":
		return Node{Kind: KindCode, Text: payload}
	case "span":
		if key, ok := sanitizer.ColorFromClass(attrs["class"]); ok {
			return Node{Kind: KindColorSpan, Text: payload, Color: key}
		}
	}
	return Node{Kind: KindPlainText, Text: payload}
}

// indexFold is strings.Index with ASCII case folding. sub must be ASCII
// and start with '<'.
func indexFold(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); {
		k := strings.IndexByte(s[i:], sub[0])
		if k < 0 {
			return -1
		}
		i += k
		if i+len(sub) <= len(s) && strings.EqualFold(s[i:i+len(sub)], sub) {
			return i
		}
		i++
	}
	return -1
}
