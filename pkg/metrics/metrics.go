// Package metrics provides Prometheus metrics for the movie acquisition pipeline.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	CacheSearch = "search"
	CacheDaily  = "daily"

	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultStore = "store"

	UpstreamNetzkino = "netzkino"
	UpstreamTMDB     = "tmdb"

	StatusOK    = "ok"
	StatusError = "error"
)

// Pipeline holds the counters exported by the acquisition pipeline.
// All methods are safe to call on a nil *Pipeline.
type Pipeline struct {
	CacheLookups       *prometheus.CounterVec // lookups by cache and result (hit, store, miss)
	UpstreamRequests   *prometheus.CounterVec // upstream calls by upstream and status
	CandidatesRejected *prometheus.CounterVec // dropped posts by reason
	DailyAttempts      prometheus.Histogram   // content API attempts per daily fetch
}

// NewPipeline creates the pipeline metrics and registers them on registry.
func NewPipeline(registry *prometheus.Registry) (*Pipeline, error) {
	m := &Pipeline{
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kino_cache_lookups_total",
				Help: "Total number of cache lookups by cache and result",
			},
			[]string{"cache", "result"},
		),
		UpstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kino_upstream_requests_total",
				Help: "Total number of upstream API requests by upstream and status",
			},
			[]string{"upstream", "status"},
		),
		CandidatesRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kino_candidates_rejected_total",
				Help: "Total number of upstream posts dropped during normalization by reason",
			},
			[]string{"reason"},
		),
		DailyAttempts: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kino_daily_fetch_attempts",
				Help:    "Number of content API attempts used by a daily batch fetch",
				Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			},
		),
	}

	collectors := []prometheus.Collector{m.CacheLookups, m.UpstreamRequests, m.CandidatesRejected, m.DailyAttempts}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register pipeline metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Pipeline) CacheLookup(cache, result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(cache, result).Inc()
}

func (m *Pipeline) Upstream(upstream string, err error) {
	if m == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	m.UpstreamRequests.WithLabelValues(upstream, status).Inc()
}

func (m *Pipeline) Rejected(reason string) {
	if m == nil {
		return
	}
	m.CandidatesRejected.WithLabelValues(reason).Inc()
}

func (m *Pipeline) ObserveDailyAttempts(n int) {
	if m == nil {
		return
	}
	m.DailyAttempts.Observe(float64(n))
}
