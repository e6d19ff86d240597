// Package transport exposes the MCP server over stdio or streamable
// HTTP.
package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/config"
)

// Server wraps the MCP server that faces clients. Tools are registered
// on the underlying MCP before calling Run.
type Server struct {
	MCP    *mcp.Server
	cfg    config.ServerConfig
	extra  map[string]http.Handler
	logger *slog.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithHandler mounts h at path next to the MCP endpoint. It only takes
// effect on the HTTP transport.
func WithHandler(path string, h http.Handler) Option {
	return func(s *Server) {
		s.extra[path] = h
	}
}

// NewServer creates an MCP server configured for the given transport.
func NewServer(cfg config.ServerConfig, logger *slog.Logger, opts ...Option) *Server {
	srv := mcp.NewServer(
		&mcp.Implementation{
			Name:    "easy-markup-guard",
			Version: Version,
		},
		&mcp.ServerOptions{Logger: logger},
	)
	s := &Server{
		MCP:    srv,
		cfg:    cfg,
		extra:  make(map[string]http.Handler),
		logger: logger.With("area", "transport"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run starts the server on the configured transport and blocks until
// ctx is cancelled or the transport closes.
func (s *Server) Run(ctx context.Context) error {
	switch s.cfg.Transport {
	case config.TransportStdio:
		return s.runStdio(ctx)
	case config.TransportHTTP:
		return s.runHTTP(ctx)
	default:
		return fmt.Errorf("unsupported transport: %s", s.cfg.Transport)
	}
}

func (s *Server) runStdio(ctx context.Context) error {
	s.logger.Info("starting stdio transport")
	return s.MCP.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the HTTP mux: the streamable MCP endpoint plus any
// extra handlers.
func (s *Server) Handler() http.Handler {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return s.MCP },
		&mcp.StreamableHTTPOptions{Logger: s.logger},
	)

	mux := http.NewServeMux()
	mux.Handle(s.cfg.HTTP.Path, handler)
	for path, h := range s.extra {
		mux.Handle(path, h)
	}
	return mux
}

func (s *Server) runHTTP(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.HTTP.Addr, err)
	}
	s.logger.Info("starting HTTP transport", "addr", ln.Addr(), "path", s.cfg.HTTP.Path)

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP transport")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
