package sanitizer

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

var (
	// dangerousSchemes matches script-capable schemes and data:text/html
	// URIs inside an angle-bracket region or assigned to a URL-bearing
	// attribute anywhere.
	dangerousSchemes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<[^>]*((java|vb|live)script\s*:|data\s*:\s*text/html)`),
		regexp.MustCompile(`(?i)(href|src|data|action|formaction|srcdoc|background|poster|xlink:href)\s*=\s*["'\x60]?\s*((java|vb|live)script\s*:|data\s*:\s*text/html)`),
	}

	// schemePrefix matches a leading URI scheme.
	schemePrefix = regexp.MustCompile(`^([a-z][a-z0-9+.\-]*):`)

	// allowedSchemes is the closed set of navigable schemes.
	allowedSchemes = map[string]struct{}{
		"http":   {},
		"https":  {},
		"mailto": {},
	}
)

// SchemeScanner detects dangerous URI schemes in markup context.
// A bare "javascript:" or "data:" URI in prose or in a markdown link
// target is left to SanitizeURL, which rejects the link without blocking
// the whole input.
type SchemeScanner struct{}

func (SchemeScanner) Name() string { return "scheme" }

func (SchemeScanner) Scan(content string) ScanResult {
	for _, re := range dangerousSchemes {
		if match := re.FindString(content); match != "" {
			return ScanResult{
				Verdict:     VerdictBlock,
				Content:     content,
				Threats:     []string{fmt.Sprintf("dangerous URI scheme detected: %q", strings.TrimSpace(match))},
				ScannerName: "scheme",
			}
		}
	}

	return ScanResult{
		Verdict:     VerdictPass,
		Content:     content,
		ScannerName: "scheme",
	}
}

// SanitizeURL returns the trimmed URL and true when raw may be kept as a
// link title. Only http, https and mailto are accepted when a scheme is
// present; scheme-less relative URLs are accepted. Whitespace, control
// characters, quote and angle characters, unparsable URLs and schemes
// hidden behind entity or percent encoding are rejected. The check is
// purely lexical.
func SanitizeURL(raw string) (string, bool) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", false
	}
	for _, r := range u {
		if !unicode.IsGraphic(r) || unicode.IsSpace(r) || strings.ContainsRune("<>\"'`\\", r) {
			return "", false
		}
	}

	parsed, err := url.Parse(u)
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "" {
		if _, ok := allowedSchemes[strings.ToLower(parsed.Scheme)]; !ok {
			return "", false
		}
	}

	// The decoded form must not reveal a scheme the literal form hides.
	if m := schemePrefix.FindStringSubmatch(decodeURL(u)); m != nil {
		if _, ok := allowedSchemes[m[1]]; !ok {
			return "", false
		}
	}

	return u, true
}

// decodeURL undoes entity and percent encoding, strips whitespace and
// control characters, and lower-cases the result.
func decodeURL(u string) string {
	decoded := html.UnescapeString(u)
	if p, err := url.PathUnescape(decoded); err == nil {
		decoded = p
	}
	decoded = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, decoded)
	return strings.ToLower(decoded)
}
