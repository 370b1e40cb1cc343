// Package metrics exposes Prometheus instrumentation for lyrics lookups.
// All methods are safe to call on a nil *Collector, which records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fault kinds reported by sources.
const (
	KindNotFound = "not_found"
	KindFetch    = "fetch"
	KindParse    = "parse"
)

// Collector owns a private registry so independent instances never collide.
type Collector struct {
	registry *prometheus.Registry

	fetchLatency *prometheus.HistogramVec
	candidates   *prometheus.CounterVec
	faults       *prometheus.CounterVec
	skipped      *prometheus.CounterVec
	requests     *prometheus.CounterVec
	selected     *prometheus.CounterVec
}

// New creates a Collector with process and Go runtime collectors registered.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		fetchLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bestlyrics_source_fetch_duration_seconds",
				Help:    "Time spent fetching candidates from one source.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		candidates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bestlyrics_source_candidates_total",
				Help: "Candidates returned by a source (stage=raw) and surviving cleaning (stage=kept).",
			},
			[]string{"source", "stage"},
		),
		faults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bestlyrics_source_faults_total",
				Help: "Failed source fetches by kind.",
			},
			[]string{"source", "kind"},
		),
		skipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bestlyrics_source_skipped_total",
				Help: "Fetches skipped because the source is not configured.",
			},
			[]string{"source"},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bestlyrics_requests_total",
				Help: "Lyrics lookups by outcome.",
			},
			[]string{"outcome"},
		),
		selected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bestlyrics_selected_total",
				Help: "Times a source supplied the winning candidate.",
			},
			[]string{"source"},
		),
	}
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveFetch(source string, d time.Duration, raw, kept int) {
	if c == nil {
		return
	}
	c.fetchLatency.WithLabelValues(source).Observe(d.Seconds())
	c.candidates.WithLabelValues(source, "raw").Add(float64(raw))
	c.candidates.WithLabelValues(source, "kept").Add(float64(kept))
}

func (c *Collector) Fault(source, kind string) {
	if c == nil {
		return
	}
	c.faults.WithLabelValues(source, kind).Inc()
}

func (c *Collector) Skipped(source string) {
	if c == nil {
		return
	}
	c.skipped.WithLabelValues(source).Inc()
}

// Request records a finished lookup. outcome is "found", "empty", "invalid" or "cancelled".
func (c *Collector) Request(outcome string) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(outcome).Inc()
}

func (c *Collector) Selected(source string) {
	if c == nil {
		return
	}
	c.selected.WithLabelValues(source).Inc()
}
