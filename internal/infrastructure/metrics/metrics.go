// Package metrics holds the Prometheus collectors of the converter.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for cache lookups
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics groups the converter's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	CacheLookups     *prometheus.CounterVec
	ProviderRequests *prometheus.CounterVec
	ProviderLatency  prometheus.Histogram
	Conversions      *prometheus.CounterVec
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_rate_cache_lookups_total",
				Help: "Rate cache lookups by result",
			},
			[]string{"result"},
		),
		ProviderRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_provider_requests_total",
				Help: "Requests sent to the exchange rate provider by outcome",
			},
			[]string{"outcome"},
		),
		ProviderLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fx_provider_request_duration_seconds",
				Help:    "Latency of exchange rate provider requests",
				Buckets: prometheus.DefBuckets,
			},
		),
		Conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_conversions_total",
				Help: "Conversions by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveCacheLookup counts a cache lookup by result
func (m *Metrics) ObserveCacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveProviderRequest counts a provider call and records its latency since started
func (m *Metrics) ObserveProviderRequest(outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(outcome).Inc()
	m.ProviderLatency.Observe(time.Since(started).Seconds())
}

// ObserveConversion counts a conversion by result
func (m *Metrics) ObserveConversion(result string) {
	if m == nil {
		return
	}
	m.Conversions.WithLabelValues(result).Inc()
}
