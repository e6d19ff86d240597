// Package cli implements the easy-markup-guard command line.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/config"
	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/service"
	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/transport"
)

// ExitCodeBlocked is returned by check when the input would be blocked.
const ExitCodeBlocked = 2

// exitError carries a process exit code without an error message.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// areaError prefixes an error with the area that produced it, matching
// the "<area>: <err>" lines main prints.
type areaError struct {
	area string
	err  error
}

func (e *areaError) Error() string { return e.area + ": " + e.err.Error() }
func (e *areaError) Unwrap() error { return e.err }

type options struct {
	configPath string
	theme      string
	format     string
}

// NewRootCmd builds the command tree. log receives structured logs; the
// command output itself goes to the command's out writer.
func NewRootCmd(log *slog.Logger) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "easy-markup-guard",
		Short: "Sanitize and render untrusted inline markup.",
		Long: `easy-markup-guard takes untrusted text in a small markdown and tag
dialect and turns it into safe, styled display units. Anything that looks
like script injection is replaced by a fixed blocked marker.

It runs as an MCP server (serve) or as a one-shot filter over stdin
(render, check).`,
		Version:       transport.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (defaults apply when empty)")

	root.AddCommand(
		newServeCmd(opts, log),
		newRenderCmd(opts, log),
		newCheckCmd(opts, log),
	)
	return root
}

func newServeCmd(opts *options, log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return &areaError{"config", err}
			}
			if err := service.New(cfg, log).Run(cmd.Context()); err != nil {
				return &areaError{"service", err}
			}
			return nil
		},
	}
}

func newRenderCmd(opts *options, log *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render stdin and print the view as JSON or HTML.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, text, err := setup(cmd, opts, log)
			if err != nil {
				return err
			}

			out, err := reg.Render(cmd.Context(), text, opts.theme, opts.format)
			if err != nil {
				return &areaError{"render", err}
			}
			if opts.format == service.FormatHTML {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), out.HTML)
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out.View)
		},
	}
	cmd.Flags().StringVar(&opts.theme, "theme", "", "theme name (defaults to render.theme)")
	cmd.Flags().StringVar(&opts.format, "format", service.FormatJSON, "output format: json or html")
	return cmd
}

func newCheckCmd(opts *options, log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether stdin would be blocked. Exits 2 when it would.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, text, err := setup(cmd, opts, log)
			if err != nil {
				return err
			}

			out := reg.Check(cmd.Context(), text)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "verdict: %s\n", out.Verdict)
			if out.Truncated {
				fmt.Fprintln(w, "truncated: true")
			}
			for _, threat := range out.Threats {
				fmt.Fprintf(w, "threat: %s\n", threat)
			}
			if out.Blocked {
				return &exitError{code: ExitCodeBlocked}
			}
			return nil
		},
	}
}

func setup(cmd *cobra.Command, opts *options, log *slog.Logger) (*service.Registry, string, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, "", &areaError{"config", err}
	}
	reg, err := service.NewRegistry(cfg, nil, log)
	if err != nil {
		return nil, "", &areaError{"registry", err}
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, "", &areaError{"stdin", err}
	}
	return reg, string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Execute runs the command tree against os.Args and exits on failure.
func Execute(log *slog.Logger) {
	if err := NewRootCmd(log).Execute(); err != nil {
		os.Exit(exitCode(err, os.Stderr))
	}
}

// exitCode reports err on stderr, unless it only carries an exit code,
// and returns the code to exit with.
func exitCode(err error, stderr io.Writer) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintln(stderr, err)
	return 1
}
