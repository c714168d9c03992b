// Package promcollector exports squarelist metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc, err := promcollector.New(reg, "orders")
//	sq, _ := squarelist.New[int](squarelist.WithMetricsCollector(mc))
//
// Several lists may share one Collector; their operations are aggregated.
package promcollector

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/squarelist"
)

// Collector implements squarelist.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency *prometheus.HistogramVec
	removed   prometheus.Counter
	lookups   *prometheus.CounterVec
	relayouts *prometheus.CounterVec
	capacity  prometheus.Gauge
	recycles  *prometheus.CounterVec
}

var _ squarelist.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg under namespace.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "squarelist_operation_latency_seconds",
			Help:      "Latency of square list operations",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
		}, []string{"op", "status"}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "squarelist_removed_values_total",
			Help:      "Values removed by delete operations",
		}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "squarelist_lookups_total",
			Help:      "Contains calls by result",
		}, []string{"result"}),
		relayouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "squarelist_relayouts_total",
			Help:      "Backing store reallocations by kind",
		}, []string{"kind"}),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "squarelist_capacity_cells",
			Help:      "Capacity after the most recent relayout",
		}),
		recycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "squarelist_column_requests_total",
			Help:      "Column slot requests by whether a parked column was reused",
		}, []string{"result"}),
	}

	for _, m := range []prometheus.Collector{c.opLatency, c.removed, c.lookups, c.relayouts, c.capacity, c.recycles} {
		if err := reg.Register(m); err != nil {
			return nil, fmt.Errorf("promcollector: register: %w", err)
		}
	}
	return c, nil
}

// MustNew is like New but panics if registration fails.
func MustNew(reg prometheus.Registerer, namespace string) *Collector {
	c, err := New(reg, namespace)
	if err != nil {
		panic(err)
	}
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func hitOrMiss(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// RecordInsert implements squarelist.MetricsCollector.
func (c *Collector) RecordInsert(d time.Duration, err error) {
	c.opLatency.WithLabelValues("insert", status(err)).Observe(d.Seconds())
}

// RecordDelete implements squarelist.MetricsCollector.
func (c *Collector) RecordDelete(removed int, d time.Duration) {
	c.opLatency.WithLabelValues("delete", status(nil)).Observe(d.Seconds())
	c.removed.Add(float64(removed))
}

// RecordLookup implements squarelist.MetricsCollector.
func (c *Collector) RecordLookup(found bool, d time.Duration) {
	c.opLatency.WithLabelValues("lookup", status(nil)).Observe(d.Seconds())
	c.lookups.WithLabelValues(hitOrMiss(found)).Inc()
}

// RecordRelayout implements squarelist.MetricsCollector.
func (c *Collector) RecordRelayout(kind squarelist.RelayoutKind, _, newCapacity int, d time.Duration) {
	c.opLatency.WithLabelValues(kind.String(), status(nil)).Observe(d.Seconds())
	c.relayouts.WithLabelValues(kind.String()).Inc()
	c.capacity.Set(float64(newCapacity))
}

// RecordRecycle implements squarelist.MetricsCollector.
func (c *Collector) RecordRecycle(hit bool) {
	c.recycles.WithLabelValues(hitOrMiss(hit)).Inc()
}
