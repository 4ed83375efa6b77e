package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements every hook interface on top of Prometheus collectors.
type Metrics struct {
	reg prometheus.Gatherer

	traversals        *prometheus.CounterVec
	traversalDuration *prometheus.HistogramVec
	traversalVertices prometheus.Histogram
	walkLength        prometheus.Histogram

	contigs        *prometheus.CounterVec
	contigDuration prometheus.Histogram
	calls          *prometheus.CounterVec
	alignments     *prometheus.CounterVec
	alignDuration  *prometheus.HistogramVec

	cacheOps   *prometheus.CounterVec
	cacheBytes prometheus.Counter

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the cortexwalk collectors with reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		traversals: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cortexwalk_traversals_total",
			Help: "Depth-first traversals by stopping rule, direction and outcome.",
		}, []string{"rule", "direction", "outcome"}),
		traversalDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cortexwalk_traversal_duration_seconds",
			Help:    "Depth-first traversal latency.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"rule"}),
		traversalVertices: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cortexwalk_traversal_vertices",
			Help:    "Vertices in found traversal subgraphs.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		walkLength: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cortexwalk_walk_length",
			Help:    "Length of linear walks in k-mers.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		contigs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cortexwalk_contigs_total",
			Help: "Contigs processed by the caller.",
		}, []string{"outcome"}),
		contigDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cortexwalk_contig_duration_seconds",
			Help:    "Per-contig processing latency.",
			Buckets: prometheus.DefBuckets,
		}),
		calls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cortexwalk_calls_total",
			Help: "Emitted calls by variant type.",
		}, []string{"type"}),
		alignments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cortexwalk_alignments_total",
			Help: "Aligner invocations by reference and outcome.",
		}, []string{"reference", "outcome"}),
		alignDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cortexwalk_alignment_duration_seconds",
			Help:    "Aligner latency by reference.",
			Buckets: prometheus.DefBuckets,
		}, []string{"reference"}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cortexwalk_cache_operations_total",
			Help: "Cache hits, misses and writes by key type.",
		}, []string{"key_type", "op"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "cortexwalk_cache_written_bytes_total",
			Help: "Bytes written to the cache.",
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cortexwalk_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cortexwalk_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Install registers m as the global hooks of every category.
func (m *Metrics) Install() {
	SetTraversalHooks(m)
	SetCallerHooks(m)
	SetCacheHooks(m)
	SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func outcome(ok bool) string {
	if ok {
		return "found"
	}
	return "not_found"
}

func errOutcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnTraversal(rule, direction string, vertices int, found bool, d time.Duration) {
	m.traversals.WithLabelValues(rule, direction, outcome(found)).Inc()
	m.traversalDuration.WithLabelValues(rule).Observe(d.Seconds())
	if found {
		m.traversalVertices.Observe(float64(vertices))
	}
}

func (m *Metrics) OnWalk(length int, _ time.Duration) {
	m.walkLength.Observe(float64(length))
}

func (m *Metrics) OnContigStart(context.Context, int, int) {}

func (m *Metrics) OnContigComplete(_ context.Context, _, _ int, d time.Duration, err error) {
	m.contigs.WithLabelValues(errOutcome(err)).Inc()
	m.contigDuration.Observe(d.Seconds())
}

func (m *Metrics) OnCall(_ context.Context, variantType string) {
	m.calls.WithLabelValues(variantType).Inc()
}

func (m *Metrics) OnAlign(_ context.Context, reference string, _ int, d time.Duration, err error) {
	m.alignments.WithLabelValues(reference, errOutcome(err)).Inc()
	m.alignDuration.WithLabelValues(reference).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
