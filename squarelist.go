package squarelist

import (
	"cmp"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/squarelist/resource"
)

// SquareList is a sorted multiset of T.
//
// Values live in one backing store of maxDepth × (maxDepth+1) cells, cut into
// slots of maxDepth cells. Each live column is a sorted run inside one slot and
// the columns are kept in ascending order, so the whole list reads as a single
// sorted sequence. Operations binary-search the columns by their last value
// and then shift at most a column's worth of cells.
//
// All methods are safe for concurrent use. Mutations take an exclusive lock,
// queries a shared one.
type SquareList[T any] struct {
	mu sync.RWMutex

	cmp      func(a, b T) int
	store    []T
	maxDepth int
	size     int
	columns  []*column[T] // live, non-empty, ascending by id and by value
	free     *freeColumns[T]

	cellBytes int64
	rc        *resource.Controller
	metrics   MetricsCollector
	logger    *Logger
}

// New creates an empty SquareList ordered by cmp.Compare.
func New[T cmp.Ordered](optFns ...Option) (*SquareList[T], error) {
	return NewFunc(cmp.Compare[T], optFns...)
}

// NewFunc creates an empty SquareList ordered by compare, which must
// implement a total order returning a negative number, zero or a positive
// number as a is less than, equal to or greater than b.
func NewFunc[T any](compare func(a, b T) int, optFns ...Option) (*SquareList[T], error) {
	o := applyOptions(optFns)
	s := newSquareList(compare, o)
	if err := s.reserve(calcMaxDepth(o.capacity)); err != nil {
		return nil, fmt.Errorf("squarelist: new: %w", err)
	}
	return s, nil
}

// FromSorted creates a SquareList holding the values of src, which must be in
// ascending order and yield at most capacity values. The capacity argument
// takes precedence over WithCapacity.
//
// It fails with an error matching ErrNotAscending or ErrCapacityExceeded.
func FromSorted[T cmp.Ordered](capacity int, src iter.Seq[T], optFns ...Option) (*SquareList[T], error) {
	return FromSortedFunc(cmp.Compare[T], capacity, src, optFns...)
}

// FromSortedFunc is FromSorted for a custom ordering.
func FromSortedFunc[T any](compare func(a, b T) int, capacity int, src iter.Seq[T], optFns ...Option) (*SquareList[T], error) {
	// Arguments are authoritative.
	o := applyOptions(append(slices.Clip(optFns), WithCapacity(capacity)))
	capacity = o.capacity

	s := newSquareList(compare, o)
	if err := s.reserve(calcMaxDepth(capacity)); err != nil {
		return nil, fmt.Errorf("squarelist: from sorted: %w", err)
	}

	err := s.load(capacity, src)
	s.logger.LogBulkLoad(s.size, capacity, err)
	if err != nil {
		s.rc.ReleaseMemory(s.storeBytes(len(s.store)))
		return nil, fmt.Errorf("squarelist: from sorted: %w", err)
	}
	return s, nil
}

// FromSortedSlice creates a SquareList sized for exactly the values of vals,
// which must be in ascending order.
func FromSortedSlice[T cmp.Ordered](vals []T, optFns ...Option) (*SquareList[T], error) {
	return FromSortedFunc(cmp.Compare[T], len(vals), slices.Values(vals), optFns...)
}

// FromSortedSliceFunc is FromSortedSlice for a custom ordering.
func FromSortedSliceFunc[T any](compare func(a, b T) int, vals []T, optFns ...Option) (*SquareList[T], error) {
	return FromSortedFunc(compare, len(vals), slices.Values(vals), optFns...)
}

func newSquareList[T any](compare func(a, b T) int, o options) *SquareList[T] {
	return &SquareList[T]{
		cmp:       compare,
		free:      newFreeColumns[T](),
		cellBytes: int64(reflect.TypeFor[T]().Size()),
		rc:        o.rc,
		metrics:   o.metricsCollector,
		logger:    o.logger,
	}
}

// reserve allocates the first store.
func (s *SquareList[T]) reserve(maxDepth int) error {
	store, err := s.allocate(maxDepth)
	if err != nil {
		return err
	}
	s.store, s.maxDepth = store, maxDepth
	return nil
}

// load streams src into successive full columns.
func (s *SquareList[T]) load(capacity int, src iter.Seq[T]) error {
	var (
		prev T
		col  *column[T]
	)
	for v := range src {
		if s.size > 0 && s.cmp(v, prev) < 0 {
			return &OrderError{Index: s.size}
		}
		if s.size+1 > capacity {
			return &CapacityError{Capacity: capacity}
		}
		if col == nil || col.isFull() {
			col = newColumn(s.store, s.cmp, s.maxDepth, len(s.columns)*s.maxDepth)
			s.columns = append(s.columns, col)
		}
		col.insertAsLast(v)
		prev = v
		s.size++
	}
	return nil
}

// Size returns the number of values, duplicates counted individually.
func (s *SquareList[T]) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Capacity returns the number of cells in the backing store.
func (s *SquareList[T]) Capacity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.store)
}

// Ratio returns the load factor Size × 100 / Capacity as an integer percentage.
func (s *SquareList[T]) Ratio() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.store) == 0 {
		return 0
	}
	return int(int64(s.size) * 100 / int64(len(s.store)))
}

// IsEmpty reports whether the list holds no values.
func (s *SquareList[T]) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size == 0
}

// Min returns the smallest value, or the zero value of T if the list is empty.
func (s *SquareList[T]) Min() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.columns) == 0 {
		var zero T
		return zero
	}
	return s.columns[0].firstValue()
}

// Max returns the largest value, or the zero value of T if the list is empty.
func (s *SquareList[T]) Max() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.columns) == 0 {
		var zero T
		return zero
	}
	return s.tail().lastValue()
}

// Contains reports whether v is in the list.
func (s *SquareList[T]) Contains(v T) bool {
	start := time.Now()
	s.mu.RLock()
	found := s.find(v) >= 0
	s.mu.RUnlock()
	s.metrics.RecordLookup(found, time.Since(start))
	return found
}

// Count returns the number of occurrences of v.
func (s *SquareList[T]) Count(v T) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for i := s.find(v); i >= 0 && i < len(s.columns); i++ {
		c := s.columns[i].count(v)
		if c == 0 {
			break
		}
		n += c
	}
	return n
}

// All returns an iterator over the values in ascending order.
//
// The list is read-locked while the loop runs; calling a mutating method on
// the same list from the loop body deadlocks.
func (s *SquareList[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		for _, col := range s.columns {
			for _, v := range col.values() {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// Values returns a sorted copy of all values.
func (s *SquareList[T]) Values() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, s.size)
	for _, col := range s.columns {
		out = append(out, col.values()...)
	}
	return out
}

func (s *SquareList[T]) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("SquareList(%d of %d as %d x %d)", s.size, len(s.store), s.maxDepth, len(s.columns))
}

func (s *SquareList[T]) tail() *column[T] { return s.columns[len(s.columns)-1] }

// columnAt returns an empty column for slot id, reusing a parked one if any.
func (s *SquareList[T]) columnAt(id int) *column[T] {
	if col, ok := s.free.recover(id); ok {
		s.metrics.RecordRecycle(true)
		return col
	}
	s.metrics.RecordRecycle(false)
	return newColumn(s.store, s.cmp, s.maxDepth, id*s.maxDepth)
}

// retire removes the column at sequence position i and parks it.
func (s *SquareList[T]) retire(i int) {
	col := s.columns[i]
	s.columns = slices.Delete(s.columns, i, i+1)
	s.free.add(col)
}

func (s *SquareList[T]) pruneTail() {
	for len(s.columns) > 0 && s.tail().isEmpty() {
		s.retire(len(s.columns) - 1)
	}
}
