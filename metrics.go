// FILE: lixenwraith/conftree/metrics.go
package conftree

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "conftree"

// cacheMetrics holds the Prometheus collectors of one Cache.
// A zero value records nothing.
type cacheMetrics struct {
	hits       prometheus.Counter
	misses     prometheus.Counter
	parses     *prometheus.CounterVec
	duplicates prometheus.Counter
	reloads    *prometheus.CounterVec
	documents  prometheus.Gauge
}

// newCacheMetrics creates and registers the cache collectors. A nil registerer
// disables metrics.
func newCacheMetrics(reg prometheus.Registerer) (*cacheMetrics, error) {
	if reg == nil {
		return &cacheMetrics{}, nil
	}

	m := &cacheMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_hits_total",
			Help:      "Total number of loads served from the cache",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_misses_total",
			Help:      "Total number of loads that required a parse",
		}),
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "parses_total",
			Help:      "Total number of parses by result",
		}, []string{"result"}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "duplicate_sections_total",
			Help:      "Total number of duplicate sections skipped while parsing",
		}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reloads_total",
			Help:      "Total number of document replacements by result",
		}, []string{"result"}),
		documents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "documents",
			Help:      "Current number of cached documents",
		}),
	}

	var err error
	m.hits = register(reg, m.hits, &err)
	m.misses = register(reg, m.misses, &err)
	m.parses = register(reg, m.parses, &err)
	m.duplicates = register(reg, m.duplicates, &err)
	m.reloads = register(reg, m.reloads, &err)
	m.documents = register(reg, m.documents, &err)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg. When an identical collector is already registered,
// the existing one is reused so several caches can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C, errp *error) C {
	if *errp != nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		*errp = err
	}
	return c
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *cacheMetrics) recordHit() {
	if m.hits == nil {
		return
	}
	m.hits.Inc()
}

func (m *cacheMetrics) recordMiss() {
	if m.misses == nil {
		return
	}
	m.misses.Inc()
}

func (m *cacheMetrics) recordParse(err error, duplicates int) {
	if m.parses == nil {
		return
	}
	m.parses.WithLabelValues(result(err)).Inc()
	m.duplicates.Add(float64(duplicates))
}

func (m *cacheMetrics) recordReload(err error) {
	if m.reloads == nil {
		return
	}
	m.reloads.WithLabelValues(result(err)).Inc()
}

func (m *cacheMetrics) setDocuments(n int) {
	if m.documents == nil {
		return
	}
	m.documents.Set(float64(n))
}
