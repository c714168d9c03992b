package squarelist

import (
	"sync/atomic"
	"time"
)

// RelayoutKind tells why the backing store was reallocated.
type RelayoutKind uint8

const (
	// RelayoutEnlarge grows maxDepth by one because an insert ran out of capacity.
	RelayoutEnlarge RelayoutKind = iota + 1
	// RelayoutShrink re-packs the values on an explicit ShrinkWithSlackOf call.
	RelayoutShrink
)

func (k RelayoutKind) String() string {
	switch k {
	case RelayoutEnlarge:
		return "enlarge"
	case RelayoutShrink:
		return "shrink"
	default:
		return "unknown"
	}
}

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see the
// promcollector package for a Prometheus implementation.
//
// Collectors may be called concurrently by different goroutines.
// RecordRecycle runs while the list is locked and must stay cheap.
type MetricsCollector interface {
	// RecordInsert is called after each insert operation.
	// duration is the total time taken, err is nil if successful.
	RecordInsert(duration time.Duration, err error)

	// RecordDelete is called after Delete, DeleteAll, DeleteBelow and DeleteWhere.
	// removed is the number of values removed (possibly 0).
	RecordDelete(removed int, duration time.Duration)

	// RecordLookup is called after each Contains.
	RecordLookup(found bool, duration time.Duration)

	// RecordRelayout is called after the backing store is reallocated.
	RecordRelayout(kind RelayoutKind, oldCapacity, newCapacity int, duration time.Duration)

	// RecordRecycle is called whenever a column is needed at a specific slot.
	// hit reports whether a parked column was reused.
	RecordRecycle(hit bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, error)                    {}
func (NoopMetricsCollector) RecordDelete(int, time.Duration)                      {}
func (NoopMetricsCollector) RecordLookup(bool, time.Duration)                     {}
func (NoopMetricsCollector) RecordRelayout(RelayoutKind, int, int, time.Duration) {}
func (NoopMetricsCollector) RecordRecycle(bool)                                   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount        atomic.Int64
	InsertErrors       atomic.Int64
	InsertTotalNanos   atomic.Int64
	DeleteCount        atomic.Int64
	DeleteRemoved      atomic.Int64
	DeleteTotalNanos   atomic.Int64
	LookupCount        atomic.Int64
	LookupHits         atomic.Int64
	LookupTotalNanos   atomic.Int64
	EnlargeCount       atomic.Int64
	ShrinkCount        atomic.Int64
	RelayoutTotalNanos atomic.Int64
	RecycleHits        atomic.Int64
	RecycleMisses      atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(removed int, duration time.Duration) {
	b.DeleteCount.Add(1)
	b.DeleteRemoved.Add(int64(removed))
	b.DeleteTotalNanos.Add(duration.Nanoseconds())
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(found bool, duration time.Duration) {
	b.LookupCount.Add(1)
	b.LookupTotalNanos.Add(duration.Nanoseconds())
	if found {
		b.LookupHits.Add(1)
	}
}

// RecordRelayout implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelayout(kind RelayoutKind, _, _ int, duration time.Duration) {
	switch kind {
	case RelayoutEnlarge:
		b.EnlargeCount.Add(1)
	case RelayoutShrink:
		b.ShrinkCount.Add(1)
	}
	b.RelayoutTotalNanos.Add(duration.Nanoseconds())
}

// RecordRecycle implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRecycle(hit bool) {
	if hit {
		b.RecycleHits.Add(1)
	} else {
		b.RecycleMisses.Add(1)
	}
}

// GetStats returns a snapshot of the collected metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:    b.InsertCount.Load(),
		InsertErrors:   b.InsertErrors.Load(),
		InsertAvgNanos: avgNanos(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		DeleteCount:    b.DeleteCount.Load(),
		DeleteRemoved:  b.DeleteRemoved.Load(),
		DeleteAvgNanos: avgNanos(b.DeleteTotalNanos.Load(), b.DeleteCount.Load()),
		LookupCount:    b.LookupCount.Load(),
		LookupHits:     b.LookupHits.Load(),
		LookupAvgNanos: avgNanos(b.LookupTotalNanos.Load(), b.LookupCount.Load()),
		EnlargeCount:   b.EnlargeCount.Load(),
		ShrinkCount:    b.ShrinkCount.Load(),
		RelayoutNanos:  b.RelayoutTotalNanos.Load(),
		RecycleHits:    b.RecycleHits.Load(),
		RecycleMisses:  b.RecycleMisses.Load(),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount    int64
	InsertErrors   int64
	InsertAvgNanos int64
	DeleteCount    int64
	DeleteRemoved  int64
	DeleteAvgNanos int64
	LookupCount    int64
	LookupHits     int64
	LookupAvgNanos int64
	EnlargeCount   int64
	ShrinkCount    int64
	RelayoutNanos  int64
	RecycleHits    int64
	RecycleMisses  int64
}
