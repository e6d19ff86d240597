// Package present maps rendered nodes onto a theme's style table and
// serializes the result for a consuming renderer. It performs no
// validation: every safety decision has been made by the time a
// Document reaches it.
package present

import (
	"fmt"
	"maps"
	"sort"

	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/sanitizer"
)

// Style holds the presentation attributes of one unit. Zero fields
// inherit from the surrounding text.
type Style struct {
	Color      string `json:"color,omitempty"`
	Background string `json:"background,omitempty"`
	Border     string `json:"border,omitempty"`
	Bold       bool   `json:"bold,omitempty"`
	Italic     bool   `json:"italic,omitempty"`
	Underline  bool   `json:"underline,omitempty"`
	Monospace  bool   `json:"monospace,omitempty"`
}

// Theme is a color table plus the fixed styles for code, links and the
// blocked marker.
type Theme struct {
	Name       string
	Foreground string
	Colors     map[sanitizer.ColorKey]string
	Code       Style
	Link       Style
	Blocked    Style
}

// Color resolves key against the table, falling back to the foreground.
func (t Theme) Color(key sanitizer.ColorKey) string {
	if c, ok := t.Colors[key]; ok && c != "" {
		return c
	}
	return t.Foreground
}

// WithColors returns a copy of t with the named colors replaced. Names
// go through sanitizer.LookupColor, so "grey" overrides gray.
func (t Theme) WithColors(overrides map[string]string) (Theme, error) {
	out := t
	out.Colors = maps.Clone(t.Colors)
	if out.Colors == nil {
		out.Colors = make(map[sanitizer.ColorKey]string, len(overrides))
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == string(sanitizer.ColorDefault) {
			out.Foreground = overrides[name]
			continue
		}
		key, ok := sanitizer.LookupColor(name)
		if !ok {
			return Theme{}, fmt.Errorf("unknown color %q", name)
		}
		out.Colors[key] = overrides[name]
	}
	return out, nil
}

// DarkTheme returns a fresh copy of the built-in dark theme.
func DarkTheme() Theme {
	return Theme{
		Name:       "dark",
		Foreground: "#e6e6e6",
		Colors: map[sanitizer.ColorKey]string{
			sanitizer.ColorRed:     "#ff5555",
			sanitizer.ColorGreen:   "#50fa7b",
			sanitizer.ColorBlue:    "#6ca0ff",
			sanitizer.ColorYellow:  "#f1fa8c",
			sanitizer.ColorCyan:    "#8be9fd",
			sanitizer.ColorMagenta: "#ff79c6",
			sanitizer.ColorOrange:  "#ffb86c",
			sanitizer.ColorPurple:  "#bd93f9",
			sanitizer.ColorGray:    "#9aa0a6",
			sanitizer.ColorAccent:  "#8be9fd",
			sanitizer.ColorSuccess: "#50fa7b",
			sanitizer.ColorWarning: "#ffb86c",
			sanitizer.ColorError:   "#ff5555",
		},
		Code:    Style{Color: "#f8f8f2", Background: "#282a36", Border: "1px solid #44475a", Monospace: true},
		Link:    Style{Color: "#8be9fd", Underline: true},
		Blocked: Style{Color: "#ff5555", Bold: true},
	}
}

// LightTheme returns a fresh copy of the built-in light theme.
func LightTheme() Theme {
	return Theme{
		Name:       "light",
		Foreground: "#1f2328",
		Colors: map[sanitizer.ColorKey]string{
			sanitizer.ColorRed:     "#cf222e",
			sanitizer.ColorGreen:   "#1a7f37",
			sanitizer.ColorBlue:    "#0969da",
			sanitizer.ColorYellow:  "#9a6700",
			sanitizer.ColorCyan:    "#1b7c83",
			sanitizer.ColorMagenta: "#bf3989",
			sanitizer.ColorOrange:  "#bc4c00",
			sanitizer.ColorPurple:  "#8250df",
			sanitizer.ColorGray:    "#6e7781",
			sanitizer.ColorAccent:  "#0969da",
			sanitizer.ColorSuccess: "#1a7f37",
			sanitizer.ColorWarning: "#9a6700",
			sanitizer.ColorError:   "#cf222e",
		},
		Code:    Style{Color: "#24292f", Background: "#f6f8fa", Border: "1px solid #d0d7de", Monospace: true},
		Link:    Style{Color: "#0969da", Underline: true},
		Blocked: Style{Color: "#cf222e", Bold: true},
	}
}

// ThemeByName returns a built-in theme.
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case "", "dark":
		return DarkTheme(), true
	case "light":
		return LightTheme(), true
	}
	return Theme{}, false
}

// ThemeNames lists the built-in themes.
func ThemeNames() []string {
	return []string{"dark", "light"}
}
