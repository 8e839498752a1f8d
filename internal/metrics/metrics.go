package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/flexprice/billingrecon/internal/domain/discrepancy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "billingrecon"

// Metrics holds all Prometheus collectors of the engine. Each instance owns its
// registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Reconciliation metrics
	DetectionRuns         *prometheus.CounterVec
	DetectionDuration     prometheus.Histogram
	DiscrepanciesDetected *prometheus.CounterVec

	// Proration metrics
	ProrationsTotal *prometheus.CounterVec

	// Storage metrics
	SnapshotDuration *prometheus.HistogramVec
	CacheHits        *prometheus.CounterVec
	CacheMisses      *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		DetectionRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "detection_runs_total",
				Help:      "Discrepancy detection runs per customer",
			},
			[]string{"result"}, // success | error
		),
		DetectionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "detection_duration_seconds",
				Help:      "Time spent loading and checking one customer's history",
				Buckets:   prometheus.DefBuckets,
			},
		),
		DiscrepanciesDetected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "discrepancies_detected_total",
				Help:      "Discrepancies reported by kind",
			},
			[]string{"kind"},
		),
		ProrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "prorations_total",
				Help:      "Proration calculations by change type and result",
			},
			[]string{"change_type", "result"},
		),
		SnapshotDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_snapshot_duration_seconds",
				Help:      "Duration of read-only snapshot transactions",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"result"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Cache hits by cache name",
			},
			[]string{"cache"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Cache misses by cache name",
			},
			[]string{"cache"},
		),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DetectionRuns,
		m.DetectionDuration,
		m.DiscrepanciesDetected,
		m.ProrationsTotal,
		m.SnapshotDuration,
		m.CacheHits,
		m.CacheMisses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// NewDefaultMetrics is the fx constructor
func NewDefaultMetrics() *Metrics {
	return NewMetrics(Namespace)
}

// Registry exposes the underlying registry for scraping and tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDetection counts one customer's detection run and the discrepancies it produced
func (m *Metrics) RecordDetection(found []discrepancy.Discrepancy, duration time.Duration, err error) {
	m.DetectionDuration.Observe(duration.Seconds())
	if err != nil {
		m.DetectionRuns.WithLabelValues("error").Inc()
		return
	}
	m.DetectionRuns.WithLabelValues("success").Inc()
	for kind, count := range discrepancy.CountByKind(found) {
		m.DiscrepanciesDetected.WithLabelValues(string(kind)).Add(float64(count))
	}
}

func (m *Metrics) RecordProration(changeType string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	if changeType == "" {
		changeType = "unknown"
	}
	m.ProrationsTotal.WithLabelValues(changeType, result).Inc()
}

func (m *Metrics) RecordSnapshot(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.SnapshotDuration.WithLabelValues(result).Observe(duration.Seconds())
}

func (m *Metrics) RecordCacheLookup(cache string, hit bool) {
	if hit {
		m.CacheHits.WithLabelValues(cache).Inc()
		return
	}
	m.CacheMisses.WithLabelValues(cache).Inc()
}
