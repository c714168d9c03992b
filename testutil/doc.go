// Package testutil provides testing utilities for squarelist.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random source for workload generation and a
// slice-backed reference multiset to check results against.
//
// # Random Workloads
//
//	rng := testutil.NewRNG(seed)
//	keys := rng.Ints(1000, 500)      // 1000 values in [0, 500), duplicates likely
//	hot := rng.ZipfInts(1000, 50, 1.2) // skewed toward small values
//
// # Reference Multiset
//
//	oracle := testutil.NewOracle[int]()
//	oracle.Insert(3)
//	oracle.DeleteBelow(2)
//	require.Equal(t, oracle.Values(), slices.Collect(sq.All()))
package testutil
