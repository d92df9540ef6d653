package main

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates search statistics on a private registry. A nil
// *Metrics ignores every call.
type Metrics struct {
	registry *prometheus.Registry

	searches    prometheus.Counter
	nodes       prometheus.Counter
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	evictions   prometheus.Counter
	pruned      *prometheus.CounterVec
	duration    prometheus.Histogram
	geodes      *prometheus.GaugeVec
}

// NewMetrics registers the search metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	opts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{Namespace: "geode", Subsystem: "search", Name: name, Help: help}
	}
	return &Metrics{
		registry:    reg,
		searches:    f.NewCounter(opts("blueprints_total", "Blueprint searches completed")),
		nodes:       f.NewCounter(opts("nodes_total", "Search states expanded")),
		cacheHits:   f.NewCounter(opts("cache_hits_total", "Memo cache hits")),
		cacheMisses: f.NewCounter(opts("cache_misses_total", "Memo cache misses")),
		evictions:   f.NewCounter(opts("cache_evictions_total", "Memo entries evicted for capacity")),
		pruned: f.NewCounterVec(
			opts("pruned_total", "Branches rejected by the pruning policy"),
			[]string{"reason"},
		),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "geode",
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Wall time of one blueprint search",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
		geodes: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "geode",
			Subsystem: "search",
			Name:      "max_geodes",
			Help:      "Best geode count per blueprint and horizon",
		}, []string{"blueprint", "minutes"}),
	}
}

// Observe records one finished search.
func (m *Metrics) Observe(r Result) {
	if m == nil {
		return
	}
	m.searches.Inc()
	m.nodes.Add(float64(r.Stats.Nodes))
	m.cacheHits.Add(float64(r.Stats.CacheHits))
	m.cacheMisses.Add(float64(r.Stats.CacheMisses))
	m.evictions.Add(float64(r.Stats.Evictions))
	for reason := PrunedHorizon; reason < numPruneReasons; reason++ {
		m.pruned.WithLabelValues(reason.String()).Add(float64(r.Stats.Pruned[reason]))
	}
	m.duration.Observe(r.Elapsed.Seconds())
	m.geodes.WithLabelValues(strconv.Itoa(r.BlueprintID), strconv.Itoa(r.Minutes)).Set(float64(r.Geodes))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile writes the metrics in the node exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
