package markup

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/sanitizer"
)

const (
	// MaxSpan bounds, in bytes, how far the scanner looks for the end of
	// a span. A marker whose closer lies further away is plain text.
	MaxSpan = 4096

	// markerStarts holds every byte that can open a pattern.
	markerStarts = "*_`<["
)

// DisallowedTagError reports an angle-bracket construct outside the tag
// whitelist found at the scan position. Brackets inside a captured
// payload are literal text and never raise it. Callers reject the whole
// input when they see it, not just the offending tag.
type DisallowedTagError struct {
	Tag    string
	Offset int
}

func (e *DisallowedTagError) Error() string {
	return fmt.Sprintf("disallowed tag %q at offset %d", e.Tag, e.Offset)
}

// Scan converts one segment into inline nodes. The caller must already
// have run the Safety Gate over the input this segment came from.
//
// At each position the patterns are tried in fixed priority order:
// **bold**, *italic*, __underline__, _emphasis_, `code`, whitelisted
// tags, [text](url). When none matches, text up to the next byte that
// could open a pattern becomes plain text. Every iteration consumes at
// least one byte, so Scan terminates on any input.
func Scan(segment string) (Block, error) {
	s := scanner{src: segment}
	for s.pos < len(s.src) {
		if err := s.step(); err != nil {
			return nil, err
		}
	}
	return s.out, nil
}

type scanner struct {
	src string
	pos int
	out Block
}

// match is a span recognized at the scan position.
type match struct {
	end  int  // offset just past the span
	node Node // raw, unescaped payload
	emit bool // false for constructs that produce no node
}

type matcher func(s *scanner) (match, bool, error)

var matchers = []matcher{
	delimited(delimSpec{delim: "**", kind: KindBold, flanking: true}),
	delimited(delimSpec{delim: "*", kind: KindItalic, flanking: true, single: true}),
	delimited(delimSpec{delim: "__", kind: KindUnderline, flanking: true, intraword: true}),
	delimited(delimSpec{delim: "_", kind: KindEmphasis, flanking: true, intraword: true, single: true}),
	delimited(delimSpec{delim: "`", kind: KindCode}),
	matchTag,
	matchLink,
}

func (s *scanner) step() error {
	for _, m := range matchers {
		mt, ok, err := m(s)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if mt.emit {
			s.emit(mt.node)
		}
		s.pos = mt.end
		return nil
	}

	end := len(s.src)
	if next := strings.IndexAny(s.src[s.pos+1:], markerStarts); next >= 0 {
		end = s.pos + 1 + next
	}
	s.emit(Node{Kind: KindPlainText, Text: s.src[s.pos:end]})
	s.pos = end
	return nil
}

// emit escapes and validates the payload, dropping the node when it
// does not validate. Adjacent plain text is coalesced.
func (s *scanner) emit(n Node) {
	n.Text = sanitizer.Escape(n.Text)
	n.URL = sanitizer.Escape(n.URL)
	if !sanitizer.IsValid(n.Text) || !sanitizer.IsValid(n.URL) {
		return
	}
	if n.Kind == KindPlainText {
		if n.Text == "" {
			return
		}
		if last := len(s.out) - 1; last >= 0 && s.out[last].Kind == KindPlainText {
			s.out[last].Text += n.Text
			return
		}
	}
	s.out = append(s.out, n)
}

// delimSpec describes a markdown span closed by the same delimiter.
type delimSpec struct {
	delim string
	kind  Kind
	// flanking forbids whitespace just inside either delimiter.
	flanking bool
	// intraword rejects a delimiter with word characters on both sides.
	intraword bool
	// single rejects a delimiter that touches another copy of its byte,
	// so "*" never matches half of "**".
	single bool
}

func delimited(rule delimSpec) matcher {
	d := rule.delim[0]
	return func(s *scanner) (match, bool, error) {
		src, pos := s.src, s.pos
		if !strings.HasPrefix(src[pos:], rule.delim) {
			return match{}, false, nil
		}
		start := pos + len(rule.delim)
		if start >= len(src) || src[start] == d {
			return match{}, false, nil
		}
		if rule.single && pos > 0 && src[pos-1] == d {
			return match{}, false, nil
		}
		if rule.flanking && isSpace(src[start]) {
			return match{}, false, nil
		}
		if rule.intraword && wordBefore(src, pos) && wordAfter(src, start) {
			return match{}, false, nil
		}

		limit := lineLimit(src, start)
		for from := start + 1; from < limit; {
			i := strings.Index(src[from:limit], rule.delim)
			if i < 0 {
				break
			}
			k := from + i
			from = k + 1

			after := k + len(rule.delim)
			if rule.flanking && isSpace(src[k-1]) {
				continue
			}
			if rule.single && (src[k-1] == d || (after < len(src) && src[after] == d)) {
				continue
			}
			if rule.intraword && wordBefore(src, k) && wordAfter(src, after) {
				continue
			}

			return match{end: after, node: Node{Kind: rule.kind, Text: src[start:k]}, emit: true}, true, nil
		}
		return match{}, false, nil
	}
}

// matchLink matches [text](url). A URL that fails sanitization leaves
// the span unmatched so it is consumed as plain text instead.
func matchLink(s *scanner) (match, bool, error) {
	src, pos := s.src, s.pos
	if src[pos] != '[' {
		return match{}, false, nil
	}

	limit := lineLimit(src, pos+1)
	rb := strings.IndexByte(src[pos+1:limit], ']')
	if rb <= 0 {
		return match{}, false, nil
	}
	rb += pos + 1
	if rb+1 >= limit || src[rb+1] != '(' {
		return match{}, false, nil
	}

	// One level of balanced parentheses is allowed inside the URL.
	end, depth := -1, 0
	for k := rb + 2; k < limit && end < 0; k++ {
		switch src[k] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				end = k
			} else {
				depth--
			}
		case ' ', '\t':
			return match{}, false, nil
		}
	}
	if end <= rb+2 {
		return match{}, false, nil
	}

	u, ok := sanitizer.SanitizeURL(src[rb+2 : end])
	if !ok {
		return match{}, false, nil
	}
	return match{end: end + 1, node: Node{Kind: KindLink, Text: src[pos+1 : rb], URL: u}, emit: true}, true, nil
}

// lineLimit returns the search limit for a span whose payload starts at
// start: the end of the line or MaxSpan bytes, whichever comes first.
func lineLimit(src string, start int) int {
	limit := min(len(src), start+MaxSpan)
	if nl := strings.IndexByte(src[start:limit], '\n'); nl >= 0 {
		limit = start + nl
	}
	return limit
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func wordBefore(src string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(src[:i])
	return isWordRune(r)
}

func wordAfter(src string, i int) bool {
	if i >= len(src) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(src[i:])
	return isWordRune(r)
}
