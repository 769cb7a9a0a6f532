package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RedirectsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_redirects_total",
		Help: "Number of redirects served.",
	})

	RedirectMemoHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_redirect_memo_hits_total",
		Help: "Redirect resolutions answered from the alias memo cache.",
	})

	RedirectMemoMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_redirect_memo_misses_total",
		Help: "Redirect resolutions that fell through to the store.",
	})

	ClicksRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_clicks_recorded_total",
		Help: "Click events written to the click log.",
	})

	ClicksDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_clicks_dropped_total",
		Help: "Click events lost because the write failed.",
	})

	AnalyticsCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shortlink_analytics_cache_hits_total",
		Help: "Analytics responses served from cache, by query kind.",
	}, []string{"kind"})

	AnalyticsCacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shortlink_analytics_cache_misses_total",
		Help: "Analytics responses recomputed from the store, by query kind.",
	}, []string{"kind"})
)
