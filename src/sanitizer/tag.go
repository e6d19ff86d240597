package sanitizer

import (
	"regexp"
	"strings"
)

// ColorKey names an entry in a theme's color table.
type ColorKey string

// The enumerated named colors a color span may carry. ColorDefault is
// what an unrecognized name degrades to.
const (
	ColorDefault ColorKey = "default"
	ColorRed     ColorKey = "red"
	ColorGreen   ColorKey = "green"
	ColorBlue    ColorKey = "blue"
	ColorYellow  ColorKey = "yellow"
	ColorCyan    ColorKey = "cyan"
	ColorMagenta ColorKey = "magenta"
	ColorOrange  ColorKey = "orange"
	ColorPurple  ColorKey = "purple"
	ColorGray    ColorKey = "gray"
	ColorAccent  ColorKey = "accent"
	ColorSuccess ColorKey = "success"
	ColorWarning ColorKey = "warning"
	ColorError   ColorKey = "error"
)

// namedColors maps every accepted color name, aliases included, to its key.
var namedColors = map[string]ColorKey{
	"red":     ColorRed,
	"green":   ColorGreen,
	"blue":    ColorBlue,
	"yellow":  ColorYellow,
	"cyan":    ColorCyan,
	"magenta": ColorMagenta,
	"orange":  ColorOrange,
	"purple":  ColorPurple,
	"gray":    ColorGray,
	"grey":    ColorGray,
	"accent":  ColorAccent,
	"success": ColorSuccess,
	"warning": ColorWarning,
	"error":   ColorError,
}

// ColorKeys lists the canonical keys in a stable order.
func ColorKeys() []ColorKey {
	return []ColorKey{
		ColorRed, ColorGreen, ColorBlue, ColorYellow, ColorCyan, ColorMagenta,
		ColorOrange, ColorPurple, ColorGray, ColorAccent, ColorSuccess,
		ColorWarning, ColorError,
	}
}

// LookupColor resolves a color name (case-insensitive, aliases
// accepted). Unknown names yield ColorDefault and false.
func LookupColor(name string) (ColorKey, bool) {
	key, ok := namedColors[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ColorDefault, false
	}
	return key, true
}

// colorClass is the only class value a span may carry.
var colorClass = regexp.MustCompile(`^color-([a-z0-9_-]+)$`)

// ColorFromClass parses a "color-NAME" class value. ok is false when the
// value does not have that shape; an unrecognized NAME is still ok and
// resolves to ColorDefault.
func ColorFromClass(class string) (key ColorKey, ok bool) {
	m := colorClass.FindStringSubmatch(strings.ToLower(strings.TrimSpace(class)))
	if m == nil {
		return ColorDefault, false
	}
	key, _ = LookupColor(m[1])
	return key, true
}

// tagRule describes one whitelisted tag.
type tagRule struct {
	void  bool                         // never paired with a closing tag
	attrs map[string]func(string) bool // honored attributes and their value check
}

var allowedTags = map[string]tagRule{
	"b":      {},
	"strong": {},
	"i":      {},
	"em":     {},
	"u":      {},
	"code":   {},
	"span": {attrs: map[string]func(string) bool{
		"class": func(v string) bool { _, ok := ColorFromClass(v); return ok },
	}},
	"br": {void: true},
	"hr": {void: true},
}

// IsAllowedTag reports whether name (case-insensitive) is whitelisted.
func IsAllowedTag(name string) bool {
	_, ok := allowedTags[strings.ToLower(name)]
	return ok
}

// IsVoidTag reports whether name is a whitelisted tag that never takes a
// closing tag.
func IsVoidTag(name string) bool {
	rule, ok := allowedTags[strings.ToLower(name)]
	return ok && rule.void
}

// TagDecision is the outcome of SanitizeTag.
type TagDecision struct {
	Allowed bool
	Attrs   map[string]string
}

// SanitizeTag checks name against the whitelist and filters attrs down
// to the honored attribute/value shapes. Dropped attributes are not an
// error. A disallowed tag is reported with Allowed false; deciding the
// blast radius is up to the caller.
func SanitizeTag(name string, attrs map[string]string) TagDecision {
	rule, ok := allowedTags[strings.ToLower(name)]
	if !ok {
		return TagDecision{}
	}

	kept := make(map[string]string, len(rule.attrs))
	for k, v := range attrs {
		check, honored := rule.attrs[strings.ToLower(k)]
		if !honored || !check(v) {
			continue
		}
		kept[strings.ToLower(k)] = v
	}
	return TagDecision{Allowed: true, Attrs: kept}
}
