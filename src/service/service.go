package service

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/config"
	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/metrics"
	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/transport"
)

// Service is the top-level orchestrator. It wires config, the MCP
// server, the tool registry and metrics together.
type Service struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
}

// New creates a Service from the given config and logger.
func New(cfg config.Config, logger *slog.Logger) *Service {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Service{cfg: cfg, logger: logger, registry: reg}
}

// Setup builds the registry and the server without starting it.
func (s *Service) Setup() (*transport.Server, *Registry, error) {
	reg, err := NewRegistry(s.cfg, metrics.NewCollector(s.registry), s.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("registry: %w", err)
	}

	var opts []transport.Option
	if s.cfg.Server.Transport == config.TransportHTTP && s.cfg.Server.HTTP.MetricsEnabled() {
		opts = append(opts, transport.WithHandler(s.cfg.Server.HTTP.MetricsPath, metrics.Handler(s.registry)))
	}
	srv := transport.NewServer(s.cfg.Server, s.logger, opts...)
	reg.Register(srv.MCP)
	return srv, reg, nil
}

// Run starts the service and blocks until SIGINT/SIGTERM or ctx
// cancellation.
func (s *Service) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.logger.Info("starting markup guard")

	srv, _, err := s.Setup()
	if err != nil {
		return err
	}

	s.logger.Info("server ready", "transport", s.cfg.Server.Transport)
	return srv.Run(ctx)
}
