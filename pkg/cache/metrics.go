package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks fresh cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "camara_cache_hits_total",
			Help: "Total number of response cache hits",
		},
	)

	// CacheMisses tracks cache misses, expired entries included
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "camara_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	// CacheEvictions tracks removed entries by reason
	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "camara_cache_evictions_total",
			Help: "Total number of expired cache entries removed",
		},
		[]string{"reason"}, // "lazy", "sweep"
	)

	// CacheEntries tracks the number of entries currently stored
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "camara_cache_entries",
			Help: "Current number of response cache entries",
		},
	)
)
