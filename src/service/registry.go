// Package service exposes the render engine as MCP tools and wires the
// server, metrics and configuration together.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/config"
	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/metrics"
	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/present"
	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/render"
	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/sanitizer"
)

const (
	FormatJSON = "json"
	FormatHTML = "html"

	ToolRender = "render_markup"
	ToolCheck  = "check_markup"
)

// Registry holds one engine per theme profile and serves render and
// check calls against them.
type Registry struct {
	profiles map[string]config.Profile
	engines  map[string]*render.Engine
	fallback string
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewRegistry resolves every built-in and configured theme and builds
// its engine up front, so a bad custom pattern fails at startup.
func NewRegistry(cfg config.Config, rec metrics.Recorder, logger *slog.Logger) (*Registry, error) {
	if rec == nil {
		rec = metrics.Nop{}
	}
	r := &Registry{
		profiles: make(map[string]config.Profile),
		engines:  make(map[string]*render.Engine),
		fallback: cfg.Render.Theme,
		metrics:  rec,
		logger:   logger.With("area", "registry"),
	}

	names := present.ThemeNames()
	for name := range cfg.Themes {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	for _, name := range names {
		profile, err := cfg.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("resolving theme %s: %w", name, err)
		}
		engine, err := BuildEngine(profile)
		if err != nil {
			return nil, fmt.Errorf("building engine for %s: %w", name, err)
		}
		r.profiles[name] = profile
		r.engines[name] = engine
	}

	r.logger.Info("registry ready", "themes", names, "default", r.fallback)
	return r, nil
}

// BuildEngine constructs a render.Engine from a resolved profile.
func BuildEngine(p config.Profile) (*render.Engine, error) {
	return render.New(p.Render.EngineOptions())
}

// Themes lists the theme names the registry can render with.
func (r *Registry) Themes() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Output is the result of one Render call.
type Output struct {
	RenderID string            `json:"renderId"`
	Theme    string            `json:"theme"`
	View     present.View      `json:"view"`
	HTML     string            `json:"html,omitempty"`
	Verdict  sanitizer.Verdict `json:"verdict"`
	Threats  []string          `json:"threats,omitempty"`
}

// Render renders text with the named theme ("" selects the default)
// and records the outcome. format selects whether HTML is produced in
// addition to the view.
func (r *Registry) Render(ctx context.Context, text, theme, format string) (Output, error) {
	if theme == "" {
		theme = r.fallback
	}
	profile, ok := r.profiles[theme]
	if !ok {
		return Output{}, fmt.Errorf("unknown theme %q", theme)
	}
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatHTML {
		return Output{}, fmt.Errorf("format must be %q or %q, got %q", FormatJSON, FormatHTML, format)
	}

	id := uuid.NewString()
	start := time.Now()
	doc := r.engines[theme].Render(text)
	out := Output{
		RenderID: id,
		Theme:    theme,
		View:     present.Map(doc, profile.Theme),
		Verdict:  doc.Verdict,
		Threats:  doc.Threats,
	}
	if format == FormatHTML {
		out.HTML = present.HTML(out.View)
	}
	r.record(ctx, id, doc, time.Since(start))
	return out, nil
}

// Check runs the full pipeline with the default theme and reports only
// the verdict.
func (r *Registry) Check(ctx context.Context, text string) CheckOutput {
	id := uuid.NewString()
	start := time.Now()
	doc := r.engines[r.fallback].Render(text)
	r.record(ctx, id, doc, time.Since(start))
	return CheckOutput{
		RenderID:  id,
		Verdict:   doc.Verdict,
		Blocked:   doc.Blocked,
		Truncated: doc.Truncated,
		Threats:   doc.Threats,
	}
}

// CheckOutput is the result of one Check call.
type CheckOutput struct {
	RenderID  string            `json:"renderId"`
	Verdict   sanitizer.Verdict `json:"verdict"`
	Blocked   bool              `json:"blocked"`
	Truncated bool              `json:"truncated"`
	Threats   []string          `json:"threats,omitempty"`
}

func (r *Registry) record(ctx context.Context, id string, doc render.Document, elapsed time.Duration) {
	outcome := metrics.OutcomeRendered
	if doc.Blocked {
		outcome = metrics.OutcomeBlocked
	}
	r.metrics.RecordRender(outcome, elapsed)
	r.metrics.RecordThreats(countThreats(doc.Threats))
	if doc.Truncated {
		r.metrics.RecordTruncation()
	}

	if doc.Blocked {
		r.logger.WarnContext(ctx, "blocked content",
			"render_id", id,
			"threats", doc.Threats,
		)
		return
	}
	r.logger.InfoContext(ctx, "rendered content",
		"render_id", id,
		"blocks", len(doc.Blocks),
		"truncated", doc.Truncated,
		"elapsed", elapsed,
	)
}

// countThreats skips the truncation notice, which RecordTruncation
// already covers.
func countThreats(threats []string) int {
	n := 0
	for _, t := range threats {
		if t != sanitizer.TruncationNotice {
			n++
		}
	}
	return n
}

// Register adds the render and check tools to srv.
func (r *Registry) Register(srv *mcp.Server) {
	srv.AddTool(&mcp.Tool{
		Name:        ToolRender,
		Title:       "Render markup",
		Description: "Sanitize untrusted inline markup and return a styled view as JSON, or an HTML fragment.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":   map[string]any{"type": "string", "description": "untrusted input"},
				"theme":  map[string]any{"type": "string", "enum": r.Themes()},
				"format": map[string]any{"type": "string", "enum": []string{FormatJSON, FormatHTML}},
			},
			"required": []string{"text"},
		},
	}, r.renderHandler)

	srv.AddTool(&mcp.Tool{
		Name:        ToolCheck,
		Title:       "Check markup",
		Description: "Report whether untrusted inline markup would be blocked, and why.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string", "description": "untrusted input"},
			},
			"required": []string{"text"},
		},
	}, r.checkHandler)
}

type renderArgs struct {
	Text   string `json:"text"`
	Theme  string `json:"theme,omitempty"`
	Format string `json:"format,omitempty"`
}

type checkArgs struct {
	Text string `json:"text"`
}

func (r *Registry) renderHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args renderArgs
	if err := decodeArgs(req, &args); err != nil {
		return toolError(err), nil
	}

	out, err := r.Render(ctx, args.Text, args.Theme, args.Format)
	if err != nil {
		return toolError(err), nil
	}
	if args.Format == FormatHTML {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: out.HTML}},
		}, nil
	}
	return jsonResult(out)
}

func (r *Registry) checkHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args checkArgs
	if err := decodeArgs(req, &args); err != nil {
		return toolError(err), nil
	}
	return jsonResult(r.Check(ctx, args.Text))
}

func decodeArgs(req *mcp.CallToolRequest, v any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}
}
