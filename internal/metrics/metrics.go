// Package metrics exposes Prometheus collectors for the store, the
// persistence layer and the reconciliation engine. A nil *Collector is valid
// and records nothing, so components can run without metrics wired.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gymdesk"

// Collector groups every metric the process exports on its own registry.
type Collector struct {
	registry *prometheus.Registry

	mutations       *prometheus.CounterVec
	persistWrites   prometheus.Counter
	persistFailures prometheus.Counter
	syncFetches     *prometheus.CounterVec
	syncDuration    prometheus.Histogram
}

// New creates a Collector with all metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Store mutations by entity and action.",
		}, []string{"entity", "action"}),
		persistWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persist",
			Name:      "writes_total",
			Help:      "Snapshots written to local storage.",
		}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persist",
			Name:      "failures_total",
			Help:      "Snapshot writes that failed.",
		}),
		syncFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "fetch_total",
			Help:      "Remote snapshot fetches by entity and outcome.",
		}, []string{"entity", "outcome"}),
		syncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Duration of a full refresh.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	c.registry.MustRegister(
		c.mutations,
		c.persistWrites,
		c.persistFailures,
		c.syncFetches,
		c.syncDuration,
		collectors.NewGoCollector(),
	)
	return c
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry (used by tests).
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Mutation counts one store mutation.
func (c *Collector) Mutation(entity, action string) {
	if c == nil {
		return
	}
	c.mutations.WithLabelValues(entity, action).Inc()
}

// PersistWrite counts one snapshot write attempt.
func (c *Collector) PersistWrite(err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.persistFailures.Inc()
		return
	}
	c.persistWrites.Inc()
}

// SyncFetch counts one remote fetch for entity. Outcome is one of
// "merged", "empty", "error" or "skipped".
func (c *Collector) SyncFetch(entity, outcome string) {
	if c == nil {
		return
	}
	c.syncFetches.WithLabelValues(entity, outcome).Inc()
}

// SyncDuration records how long a refresh took.
func (c *Collector) SyncDuration(d time.Duration) {
	if c == nil {
		return
	}
	c.syncDuration.Observe(d.Seconds())
}
