package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds client side Prometheus collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CacheFetchErrors   prometheus.Counter
	CacheInvalidations prometheus.Counter
	CacheRollbacks     prometheus.Counter
	Renewals           *prometheus.CounterVec
	Requests           *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// New creates and registers all metrics with registerer.
// Pass prometheus.DefaultRegisterer to expose them on the default registry.
func New(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "learnsphere_cache_hits_total",
			Help: "Reads served from a fresh cache entry without a network call",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "learnsphere_cache_misses_total",
			Help: "Reads that required a fetch because the entry was missing or stale",
		}),
		CacheFetchErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "learnsphere_cache_fetch_errors_total",
			Help: "Cache fetches that failed",
		}),
		CacheInvalidations: factory.NewCounter(prometheus.CounterOpts{
			Name: "learnsphere_cache_invalidations_total",
			Help: "Cache entries marked stale",
		}),
		CacheRollbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "learnsphere_cache_rollbacks_total",
			Help: "Optimistic patches restored after a failed mutation",
		}),
		Renewals: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "learnsphere_credential_renewals_total",
			Help: "Credential renewal attempts by outcome",
		}, []string{"outcome"}),
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "learnsphere_requests_total",
			Help: "API requests by method and status class",
		}, []string{"method", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "learnsphere_request_duration_seconds",
			Help:    "API request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// IncCacheHit increments the cache hit counter
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// IncCacheMiss increments the cache miss counter
func (m *Metrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

// IncCacheFetchError increments the failed fetch counter
func (m *Metrics) IncCacheFetchError() {
	if m == nil {
		return
	}
	m.CacheFetchErrors.Inc()
}

// AddCacheInvalidations adds n invalidated entries
func (m *Metrics) AddCacheInvalidations(n int) {
	if m == nil || n == 0 {
		return
	}
	m.CacheInvalidations.Add(float64(n))
}

// IncCacheRollback increments the optimistic rollback counter
func (m *Metrics) IncCacheRollback() {
	if m == nil {
		return
	}
	m.CacheRollbacks.Inc()
}

// ObserveRenewal records a renewal attempt, outcome is "success" or "failure"
func (m *Metrics) ObserveRenewal(outcome string) {
	if m == nil {
		return
	}
	m.Renewals.WithLabelValues(outcome).Inc()
}

// ObserveRequest records a completed request
func (m *Metrics) ObserveRequest(method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, status).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(seconds)
}
