package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's prometheus collectors. A fresh set per
// instance keeps tests isolated from the default registry.
type Metrics struct {
	Registry *prometheus.Registry

	SummaryFetches    *prometheus.CounterVec
	ListingFailures   prometheus.Counter
	AggregateRefresh  prometheus.Counter
	AggregateCacheHit prometheus.Counter
	ChatRequests      *prometheus.CounterVec
	FetchDuration     prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		SummaryFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptopulse_summary_fetches_total",
			Help: "Per-channel-per-day summary fetches by result.",
		}, []string{"result"}),
		ListingFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "cryptopulse_listing_failures_total",
			Help: "Directory listing calls that failed.",
		}),
		AggregateRefresh: factory.NewCounter(prometheus.CounterOpts{
			Name: "cryptopulse_aggregate_refreshes_total",
			Help: "Full aggregation rebuilds after cache expiry or clear.",
		}),
		AggregateCacheHit: factory.NewCounter(prometheus.CounterOpts{
			Name: "cryptopulse_aggregate_cache_hits_total",
			Help: "Aggregation calls served from the in-memory cache.",
		}),
		ChatRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptopulse_chat_requests_total",
			Help: "Chat proxy calls by outcome.",
		}, []string{"outcome"}),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cryptopulse_summary_fetch_duration_seconds",
			Help:    "Latency of single summary document fetches.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Fetch result label values.
const (
	FetchResultOK       = "ok"
	FetchResultNotFound = "not_found"
	FetchResultError    = "error"
)

// Chat outcome label values.
const (
	ChatOutcomeOK          = "ok"
	ChatOutcomeRateLimited = "rate_limited"
	ChatOutcomePayment     = "payment_required"
	ChatOutcomeError       = "error"
)
