// Package metrics exposes Prometheus instrumentation for scrapes and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Scrape outcomes used as the "outcome" label.
const (
	OutcomeSuccess         = "success"
	OutcomeNavigationError = "navigation_error"
	OutcomeLoadTimeout     = "load_timeout"
	OutcomeError           = "error"
)

// Recorder owns a registry and the collectors registered on it.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	scrapes      *prometheus.CounterVec
	scrapeDur    prometheus.Histogram
	extracted    prometheus.Gauge
	relevant     prometheus.Gauge
	clicks       prometheus.Counter
	lastSuccess  prometheus.Gauge
	httpRequests *prometheus.CounterVec
}

// New creates a Recorder with its own registry, including Go runtime and process collectors.
func New() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.scrapes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ai_events",
		Name:      "scrapes_total",
		Help:      "Number of listing scrapes by outcome",
	}, []string{"outcome"})
	r.scrapeDur = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ai_events",
		Name:      "scrape_duration_seconds",
		Help:      "Time spent loading, extracting and filtering the listing",
		Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
	})
	r.extracted = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ai_events",
		Name:      "extracted_events",
		Help:      "Events extracted by the most recent successful scrape",
	})
	r.relevant = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ai_events",
		Name:      "relevant_events",
		Help:      "Events matching the keyword set in the most recent successful scrape",
	})
	r.clicks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ai_events",
		Name:      "load_more_clicks_total",
		Help:      "Number of load more activations across all scrapes",
	})
	r.lastSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ai_events",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful scrape",
	})
	r.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ai_events",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code",
	}, []string{"path", "status"})

	r.registry.MustRegister(
		r.scrapes, r.scrapeDur, r.extracted, r.relevant,
		r.clicks, r.lastSuccess, r.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Scrape describes one completed invocation of the pipeline.
type Scrape struct {
	Outcome   string
	Duration  time.Duration
	Clicks    int
	Extracted int
	Relevant  int
}

// ObserveScrape records one scrape. Event gauges only move on success.
func (r *Recorder) ObserveScrape(s Scrape) {
	if r == nil {
		return
	}

	r.scrapes.WithLabelValues(s.Outcome).Inc()
	r.scrapeDur.Observe(s.Duration.Seconds())
	r.clicks.Add(float64(s.Clicks))

	if s.Outcome == OutcomeSuccess {
		r.extracted.Set(float64(s.Extracted))
		r.relevant.Set(float64(s.Relevant))
		r.lastSuccess.SetToCurrentTime()
	}
}

// ObserveRequest counts one HTTP request.
func (r *Recorder) ObserveRequest(path string, status int) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(path, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}
