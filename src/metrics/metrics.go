// Package metrics collects and exposes Prometheus metrics for the
// render service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeRendered = "rendered"
	OutcomeBlocked  = "blocked"
)

// Recorder is what the service layer reports to.
type Recorder interface {
	RecordRender(outcome string, duration time.Duration)
	RecordTruncation()
	RecordThreats(count int)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	renders     *prometheus.CounterVec
	truncations prometheus.Counter
	threats     prometheus.Counter
	latency     prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "markup_guard_renders_total",
			Help: "Render calls by outcome.",
		}, []string{"outcome"}),
		truncations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "markup_guard_truncations_total",
			Help: "Inputs cut at the length limit.",
		}),
		threats: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "markup_guard_threats_total",
			Help: "Threats reported by the safety gate and the scanner.",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "markup_guard_render_duration_seconds",
			Help:    "Time spent rendering one input.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}

	reg.MustRegister(c.renders, c.truncations, c.threats, c.latency)
	return c
}

func (c *Collector) RecordRender(outcome string, duration time.Duration) {
	c.renders.WithLabelValues(outcome).Inc()
	c.latency.Observe(duration.Seconds())
}

func (c *Collector) RecordTruncation() {
	c.truncations.Inc()
}

func (c *Collector) RecordThreats(count int) {
	if count > 0 {
		c.threats.Add(float64(count))
	}
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. It is used when metrics are disabled.
type Nop struct{}

func (Nop) RecordRender(string, time.Duration) {}
func (Nop) RecordTruncation()                  {}
func (Nop) RecordThreats(int)                  {}
