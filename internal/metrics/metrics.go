// Package metrics exposes get_stats() as Prometheus gauges. It is pure
// observability wrapping over internal/ioengine's record counts — never a
// source of truth, and never consulted by any engine decision.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dreamware/graphdb/internal/store"
)

// Stats is anything that can report the current record count per store,
// satisfied by *ioengine.Engine and *engine.GraphEngine alike.
type Stats interface {
	Stats() map[store.Kind]int
}

// Collector is a prometheus.Collector over a Stats source, registering
// one gauge labelled by store kind.
type Collector struct {
	stats Stats
	desc  *prometheus.Desc
}

// NewCollector wraps stats for registration with a prometheus.Registerer.
func NewCollector(stats Stats) *Collector {
	return &Collector{
		stats: stats,
		desc: prometheus.NewDesc(
			"graphdb_store_records",
			"Number of physical records in a store file, including tombstones.",
			[]string{"store"},
			nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector, emitting one gauge sample per
// store kind on every scrape — there is no cached snapshot to go stale.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for kind, count := range c.stats.Stats() {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(count), kind.String())
	}
}

// Register attaches a Collector for stats to reg.
func Register(reg prometheus.Registerer, stats Stats) error {
	return reg.Register(NewCollector(stats))
}
