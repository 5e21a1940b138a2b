package forecaster

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits counts GetForecast calls answered from the cache.
	// Labels: target
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "climatecast",
		Subsystem: "forecast",
		Name:      "cache_hits_total",
		Help:      "Total forecast requests served from cache",
	}, []string{"target"})

	// cacheMisses counts GetForecast calls that found no cached table, including callers that
	// joined an in-flight computation.
	// Labels: target
	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "climatecast",
		Subsystem: "forecast",
		Name:      "cache_misses_total",
		Help:      "Total forecast requests that missed the cache",
	}, []string{"target"})

	// computeDuration measures table assembly time.
	// Labels: target, status (success, load_error, prediction_error)
	computeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "climatecast",
		Subsystem: "forecast",
		Name:      "compute_duration_seconds",
		Help:      "Forecast table assembly latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"target", "status"})
)
