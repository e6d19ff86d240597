package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"regexp"
	"strings"

	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/present"
	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/render"
	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/sanitizer"
)

var (
	// validName matches theme names usable on the command line and in
	// tool arguments.
	validName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

	// colorValue is a hex color or a bare CSS color keyword.
	colorValue = regexp.MustCompile(`^(?:#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|[a-z]+)$`)
)

// Config is the top-level service configuration loaded from JSON.
type Config struct {
	Server ServerConfig           `json:"server"`
	Render RenderConfig           `json:"render"`
	Themes map[string]ThemeConfig `json:"themes,omitempty"`
}

// ServerConfig controls how MCP clients connect.
type ServerConfig struct {
	Transport string     `json:"transport"` // "stdio" or "http"
	HTTP      HTTPConfig `json:"http"`
}

// HTTPConfig holds HTTP listener settings.
type HTTPConfig struct {
	Addr        string `json:"addr"`        // e.g. ":8080"
	Path        string `json:"path"`        // e.g. "/mcp"
	MetricsPath string `json:"metricsPath"` // "-" disables the scrape endpoint
}

// RenderConfig holds the global render settings.
type RenderConfig struct {
	MaxInputChars       *int              `json:"maxInputChars,omitempty"`
	TruncationMarker    *string           `json:"truncationMarker,omitempty"`
	Theme               string            `json:"theme,omitempty"`
	Colors              map[string]string `json:"colors,omitempty"`
	CustomBlockPatterns []string          `json:"customBlockPatterns,omitempty"`
}

// ThemeConfig defines a named theme. Base selects the built-in theme it
// starts from; non-nil fields override the global render settings.
type ThemeConfig struct {
	Base                string            `json:"base,omitempty"`
	Colors              map[string]string `json:"colors,omitempty"`
	MaxInputChars       *int              `json:"maxInputChars,omitempty"`
	TruncationMarker    *string           `json:"truncationMarker,omitempty"`
	CustomBlockPatterns []string          `json:"customBlockPatterns,omitempty"`
}

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	DefaultHTTPAddr    = ":8080"
	DefaultHTTPPath    = "/mcp"
	DefaultMetricsPath = "/metrics"
	DefaultTheme       = "dark"

	metricsDisabled = "-"
)

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

// Load reads and parses a JSON config file, applies defaults, and
// validates. An empty path yields Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = TransportStdio
	}
	if cfg.Server.HTTP.Addr == "" {
		cfg.Server.HTTP.Addr = DefaultHTTPAddr
	}
	if cfg.Server.HTTP.Path == "" {
		cfg.Server.HTTP.Path = DefaultHTTPPath
	}
	if cfg.Server.HTTP.MetricsPath == "" {
		cfg.Server.HTTP.MetricsPath = DefaultMetricsPath
	}

	if cfg.Render.MaxInputChars == nil {
		cfg.Render.MaxInputChars = intPtr(sanitizer.DefaultMaxChars)
	}
	if cfg.Render.TruncationMarker == nil {
		cfg.Render.TruncationMarker = stringPtr(sanitizer.DefaultTruncationMarker)
	}
	if cfg.Render.Theme == "" {
		cfg.Render.Theme = DefaultTheme
	}
}

func validate(cfg Config) error {
	if cfg.Server.Transport != TransportStdio && cfg.Server.Transport != TransportHTTP {
		return fmt.Errorf("server transport must be %q or %q, got %q",
			TransportStdio, TransportHTTP, cfg.Server.Transport)
	}
	if !strings.HasPrefix(cfg.Server.HTTP.Path, "/") {
		return fmt.Errorf("server.http.path %q must start with /", cfg.Server.HTTP.Path)
	}
	if mp := cfg.Server.HTTP.MetricsPath; mp != metricsDisabled {
		if !strings.HasPrefix(mp, "/") {
			return fmt.Errorf("server.http.metricsPath %q must start with / or be %q", mp, metricsDisabled)
		}
		if mp == cfg.Server.HTTP.Path {
			return fmt.Errorf("server.http.metricsPath must differ from server.http.path")
		}
	}

	if err := validateRender("render", cfg.Render.MaxInputChars, cfg.Render.Colors, cfg.Render.CustomBlockPatterns); err != nil {
		return err
	}

	for name, tc := range cfg.Themes {
		if !validName.MatchString(name) {
			return fmt.Errorf("themes: name %q must match %s", name, validName.String())
		}
		if tc.Base != "" {
			if _, ok := present.ThemeByName(tc.Base); !ok {
				return fmt.Errorf("themes.%s: unknown base theme %q", name, tc.Base)
			}
		}
		if err := validateRender("themes."+name, tc.MaxInputChars, tc.Colors, tc.CustomBlockPatterns); err != nil {
			return err
		}
	}

	if !cfg.HasTheme(cfg.Render.Theme) {
		return fmt.Errorf("render.theme: unknown theme %q", cfg.Render.Theme)
	}

	return nil
}

func validateRender(area string, maxChars *int, colors map[string]string, patterns []string) error {
	if maxChars != nil && *maxChars <= 0 {
		return fmt.Errorf("%s.maxInputChars must be positive, got %d", area, *maxChars)
	}

	for name, value := range colors {
		if _, ok := sanitizer.LookupColor(name); !ok && name != string(sanitizer.ColorDefault) {
			return fmt.Errorf("%s.colors: unknown color %q", area, name)
		}
		if !colorValue.MatchString(value) {
			return fmt.Errorf("%s.colors.%s: invalid color value %q", area, name, value)
		}
	}

	// Validate custom block patterns are valid regexes.
	for i, pattern := range patterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("%s.customBlockPatterns[%d]: invalid regex %q: %w", area, i, pattern, err)
		}
	}
	return nil
}

// HasTheme reports whether name is a configured or built-in theme.
func (c Config) HasTheme(name string) bool {
	if _, ok := c.Themes[name]; ok {
		return true
	}
	_, ok := present.ThemeByName(name)
	return ok
}

// Profile is everything one render call needs: the engine settings and
// the theme to map onto.
type Profile struct {
	Name   string
	Render RenderConfig
	Theme  present.Theme
}

// Resolve builds the profile for the named theme. An empty name selects
// render.theme.
func (c Config) Resolve(name string) (Profile, error) {
	if name == "" {
		name = c.Render.Theme
	}
	if !c.HasTheme(name) {
		return Profile{}, fmt.Errorf("unknown theme %q", name)
	}

	var override *ThemeConfig
	base := name
	if tc, ok := c.Themes[name]; ok {
		override = &tc
		if _, builtIn := present.ThemeByName(name); !builtIn {
			base = tc.Base
		}
	}

	merged := Merge(&c.Render, override)
	theme, _ := present.ThemeByName(base)
	theme, err := theme.WithColors(merged.Colors)
	if err != nil {
		return Profile{}, fmt.Errorf("theme %s: %w", name, err)
	}
	theme.Name = name

	return Profile{Name: name, Render: merged, Theme: theme}, nil
}

// EngineOptions converts the settings for render.New.
func (r RenderConfig) EngineOptions() render.Options {
	opts := render.Options{CustomPatterns: r.CustomBlockPatterns}
	if r.MaxInputChars != nil {
		opts.MaxChars = *r.MaxInputChars
	}
	if r.TruncationMarker != nil {
		opts.Marker = *r.TruncationMarker
	}
	return opts
}

// Merge returns a RenderConfig with per-theme overrides applied on top
// of the global settings. Nil fields in the override use the global
// value. Colors are merged key by key, and custom block patterns are
// appended so a theme can never drop a global pattern.
func Merge(global *RenderConfig, override *ThemeConfig) RenderConfig {
	if override == nil {
		return *global
	}

	merged := *global

	if override.MaxInputChars != nil {
		merged.MaxInputChars = override.MaxInputChars
	}
	if override.TruncationMarker != nil {
		merged.TruncationMarker = override.TruncationMarker
	}
	if len(override.Colors) > 0 {
		merged.Colors = maps.Clone(global.Colors)
		if merged.Colors == nil {
			merged.Colors = make(map[string]string, len(override.Colors))
		}
		maps.Copy(merged.Colors, override.Colors)
	}
	if len(override.CustomBlockPatterns) > 0 {
		merged.CustomBlockPatterns = append(append([]string(nil), global.CustomBlockPatterns...), override.CustomBlockPatterns...)
	}

	return merged
}

// MetricsEnabled reports whether the HTTP transport mounts the scrape
// endpoint.
func (h HTTPConfig) MetricsEnabled() bool {
	return h.MetricsPath != metricsDisabled
}

func intPtr(i int) *int          { return &i }
func stringPtr(s string) *string { return &s }
