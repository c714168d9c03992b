// Package bench runs the squarelist performance workload against a set of
// ordered-multiset contenders and renders the timings.
//
// For each size in a geometric series the runner builds every contender from
// 1..size, then times spaced deletes, re-inserts, duplicate inserts, lookups,
// a DeleteBelow(size/2) cut, an optional shrink and repeated Min/Max reads.
// Sanity checks after the phases catch contenders that got the answers wrong.
package bench
