// Package resource implements a memory budget shared by one or more square lists.
//
// A Controller charges the bytes of every backing store a list allocates. Growth is
// fail-fast: when a reservation would exceed the limit the caller gets
// ErrMemoryLimitExceeded immediately and keeps its current store.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20, // 64MiB across all lists using rc
//	})
//
//	a, _ := squarelist.New[int](squarelist.WithResourceController(rc))
//	b, _ := squarelist.New[int](squarelist.WithResourceController(rc))
//
// A relayout holds the old and the new store at the same time, so Swap reserves the new
// size before it releases the old one.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional budgeting without nil checks everywhere.
package resource
