// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all slotframe Prometheus metrics. It implements
// observability.ComposeHooks, observability.CacheHooks and
// observability.HTTPHooks.
type Metrics struct {
	// Compose metrics
	ComposeTotal    *prometheus.CounterVec
	ComposeDuration prometheus.Histogram
	ComposeIssues   prometheus.Counter
	Resolves        *prometheus.CounterVec
	ResolvedRegions prometheus.Histogram

	// Render metrics
	RenderTotal    *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec

	// Cache metrics
	CacheOps   *prometheus.CounterVec
	CacheBytes *prometheus.CounterVec

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
}

var durationBuckets = []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}

// New registers the metrics with reg. A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		ComposeTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slotframe_compose_total",
				Help: "Total number of page compositions",
			},
			[]string{"status"},
		),
		ComposeDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "slotframe_compose_duration_seconds",
				Help:    "Page composition duration in seconds",
				Buckets: durationBuckets,
			},
		),
		ComposeIssues: f.NewCounter(
			prometheus.CounterOpts{
				Name: "slotframe_compose_issues_total",
				Help: "Total number of authoring issues found while composing",
			},
		),
		Resolves: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slotframe_layout_resolves_total",
				Help: "Total number of layout resolutions by variant",
			},
			[]string{"variant", "status"},
		),
		ResolvedRegions: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "slotframe_layout_regions",
				Help:    "Number of enabled regions per resolved layout",
				Buckets: prometheus.LinearBuckets(0, 1, 9),
			},
		),

		RenderTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slotframe_render_total",
				Help: "Total number of render runs",
			},
			[]string{"status"},
		),
		RenderDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slotframe_render_duration_seconds",
				Help:    "Render duration in seconds",
				Buckets: durationBuckets,
			},
			[]string{"formats"},
		),

		CacheOps: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slotframe_cache_operations_total",
				Help: "Total number of cache operations",
			},
			[]string{"key_type", "op"},
		),
		CacheBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slotframe_cache_written_bytes_total",
				Help: "Total bytes written to the cache",
			},
			[]string{"key_type"},
		),

		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slotframe_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slotframe_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: durationBuckets,
			},
			[]string{"method", "route"},
		),
		InFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "slotframe_http_requests_in_flight",
				Help: "Number of HTTP requests being served",
			},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnComposeStart implements observability.ComposeHooks.
func (m *Metrics) OnComposeStart(context.Context, string) {}

// OnComposeComplete implements observability.ComposeHooks.
func (m *Metrics) OnComposeComplete(_ context.Context, _ string, _, issues int, d time.Duration, err error) {
	m.ComposeTotal.WithLabelValues(status(err)).Inc()
	m.ComposeDuration.Observe(d.Seconds())
	m.ComposeIssues.Add(float64(issues))
}

// OnResolve implements observability.ComposeHooks.
func (m *Metrics) OnResolve(_ context.Context, variant string, regions int, err error) {
	if err != nil {
		// Unknown ids are unbounded; keep them out of the label space.
		m.Resolves.WithLabelValues("unknown", "error").Inc()
		return
	}
	m.Resolves.WithLabelValues(variant, "ok").Inc()
	m.ResolvedRegions.Observe(float64(regions))
}

// OnRenderStart implements observability.ComposeHooks.
func (m *Metrics) OnRenderStart(context.Context, []string) {}

// OnRenderComplete implements observability.ComposeHooks.
func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	m.RenderTotal.WithLabelValues(status(err)).Inc()
	m.RenderDuration.WithLabelValues(formatLabel(formats)).Observe(d.Seconds())
}

func formatLabel(formats []string) string {
	switch len(formats) {
	case 0:
		return "none"
	case 1:
		return formats[0]
	default:
		return "multi"
	}
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheOps.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheOps.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheOps.WithLabelValues(keyType, "set").Inc()
	m.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (m *Metrics) OnRequest(context.Context, string, string) {
	m.InFlight.Inc()
}

// OnResponse implements observability.HTTPHooks.
func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.InFlight.Dec()
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
