package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(cacheHitsTotal, cacheMissesTotal)
}

var (
	cacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Read-through cache hits per cache name.",
		},
		[]string{"cache"},
	)

	cacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Read-through cache misses per cache name.",
		},
		[]string{"cache"},
	)
)

func IncCacheHit(cache string)  { cacheHitsTotal.WithLabelValues(norm(cache)).Inc() }
func IncCacheMiss(cache string) { cacheMissesTotal.WithLabelValues(norm(cache)).Inc() }
