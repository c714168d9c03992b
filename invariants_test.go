package squarelist

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// verify checks the structural invariants of s that the public API cannot see.
func verify[T any](t testing.TB, s *SquareList[T]) {
	t.Helper()

	s.mu.RLock()
	defer s.mu.RUnlock()

	require.Len(t, s.store, capacityFor(s.maxDepth), "store size")

	seen := make(map[int]bool)
	total := 0
	for i, col := range s.columns {
		require.Falsef(t, col.isEmpty(), "live column %d is empty", col.id())
		require.Equal(t, s.maxDepth, col.width, "column width")
		require.LessOrEqual(t, col.depth, col.width, "column depth")
		require.Zero(t, col.first%col.width, "column is slot aligned")
		require.LessOrEqual(t, col.id(), s.maxDepth, "column id within store")
		require.Same(t, &s.store[0], &col.store[0], "column points into the current store")
		require.Truef(t, slices.IsSortedFunc(col.values(), s.cmp), "column %d is not sorted", col.id())

		if i > 0 {
			prev := s.columns[i-1]
			require.Less(t, prev.id(), col.id(), "ids ascend along the sequence")
			require.LessOrEqual(t, s.cmp(prev.lastValue(), col.firstValue()), 0, "columns ascend by value")
		}
		seen[col.id()] = true
		total += col.depth
	}
	require.Equal(t, s.size, total, "size matches column depths")

	for id, col := range s.free.byID {
		require.Equal(t, id, col.id(), "cache key matches slot")
		require.True(t, col.isEmpty(), "parked column is cleared")
		require.Falsef(t, seen[id], "slot %d is both live and parked", id)
		seen[id] = true
	}
	for id := range len(seen) {
		require.Truef(t, seen[id], "slot %d missing from the live and parked prefix", id)
	}
}
