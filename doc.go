// Package squarelist provides an in-memory sorted multiset with O(√n) insert,
// delete and lookup, O(1) Min and Max, and ordered iteration.
//
// A SquareList keeps all values in one flat backing store of
// maxDepth × (maxDepth+1) cells, where maxDepth ≈ √n. The store is cut into
// slots of maxDepth cells; each slot in use holds a sorted column, and the
// columns are ordered among themselves. A lookup is a binary search over the
// columns' last values followed by a binary search inside one column. An
// insert shifts cells inside one column, or, when that column is full, along a
// run of full neighbours into the nearest one with room.
//
// # Quick Start
//
//	sq, _ := squarelist.New[int]()
//	_ = sq.Insert(42)
//	_ = sq.Insert(7)
//	_ = sq.Insert(42)
//
//	sq.Contains(7)   // true
//	sq.Count(42)     // 2
//	sq.Min()         // 7
//
//	for v := range sq.All() {
//	    fmt.Println(v) // 7, 42, 42
//	}
//
// Bulk loading a sorted source fills whole columns without any shifting:
//
//	sq, err := squarelist.FromSorted(len(ids), slices.Values(ids))
//
// # Sliding Windows
//
// DeleteBelow drops every column below a watermark in O(1) per column, which
// makes the list a good fit for time-ordered windows:
//
//	sq.DeleteBelow(now - window)
//
// # Capacity
//
// The store grows by one maxDepth step whenever an insert would exceed it, and
// never shrinks on its own. After heavy deletion, ShrinkWithSlackOf re-packs
// the values into the smallest fitting layout:
//
//	sq.ShrinkWithSlackOf(0) // tightest layout
//	sq.ShrinkWithSlackOf(2) // leave two spare cells per column
//
// Emptied columns are parked by slot and reused when a value lands next to
// their slot again, so delete/insert churn does not grow the store.
//
// # Observability
//
// Relayouts and bulk loads are logged through a slog-based Logger
// (WithLogger, WithLogLevel). Operation counts and latencies go to a
// MetricsCollector (WithMetricsCollector); see the promcollector package for
// Prometheus. WithMemoryLimit and WithResourceController put the backing
// stores under a byte budget.
//
// # Thread Safety
//
// Mutations hold an exclusive lock for their whole duration; queries and
// iteration hold a shared lock. Do not mutate a list from inside a range loop
// over its All iterator.
package squarelist
