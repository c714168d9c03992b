package squarelist

import (
	"fmt"
	"math"
	"time"
)

// ShrinkWithSlackOf re-packs the list into the smallest layout that holds
// Size values with slack spare cells per column: maxDepth becomes
// ⌈√Size⌉ + slack and every column is filled with ⌈√Size⌉ values.
// Nothing happens when the layout already has that maxDepth.
//
// Size, Min, Max and the iteration order never change. A negative slack
// fails with an error matching ErrNegativeSlack.
func (s *SquareList[T]) ShrinkWithSlackOf(slack int) error {
	if slack < 0 {
		return &SlackError{Slack: slack}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	perColumn := calcMaxDepth(s.size)
	maxDepth := perColumn + slack
	if maxDepth == s.maxDepth {
		s.logger.LogShrinkSkipped(maxDepth, slack)
		return nil
	}
	return s.relayout(RelayoutShrink, maxDepth, func(store []T) []*column[T] {
		return s.pack(store, maxDepth, perColumn)
	})
}

// enlarge grows maxDepth by one, keeping every column's values and order.
func (s *SquareList[T]) enlarge() error {
	maxDepth := s.maxDepth + 1
	return s.relayout(RelayoutEnlarge, maxDepth, func(store []T) []*column[T] {
		columns := make([]*column[T], 0, len(s.columns))
		for i, col := range s.columns {
			columns = append(columns, col.copyTo(store, maxDepth, i*maxDepth))
		}
		return columns
	})
}

// pack copies the values in order into columns of perColumn values each.
func (s *SquareList[T]) pack(store []T, maxDepth, perColumn int) []*column[T] {
	var (
		columns []*column[T]
		cur     *column[T]
	)
	for _, col := range s.columns {
		for _, v := range col.values() {
			if cur == nil || cur.depth == perColumn {
				cur = newColumn(store, s.cmp, maxDepth, len(columns)*maxDepth)
				columns = append(columns, cur)
			}
			cur.insertAsLast(v)
		}
	}
	return columns
}

// relayout swaps in a new store of maxDepth × (maxDepth+1) cells filled by
// fill. Parked columns point into the old store, so the free cache is dropped.
func (s *SquareList[T]) relayout(kind RelayoutKind, maxDepth int, fill func(store []T) []*column[T]) error {
	start := time.Now()
	oldCapacity := len(s.store)

	store, err := s.allocate(maxDepth)
	if err != nil {
		s.logger.LogRelayout(kind, oldCapacity, capacityFor(maxDepth), s.size, 0, err)
		return fmt.Errorf("squarelist: %s: %w", kind, err)
	}

	s.columns = fill(store)
	s.store = store
	s.maxDepth = maxDepth
	s.free.clear()

	duration := time.Since(start)
	s.metrics.RecordRelayout(kind, oldCapacity, len(store), duration)
	s.logger.LogRelayout(kind, oldCapacity, len(store), s.size, duration, nil)
	return nil
}

// allocate makes a store for maxDepth, charging it against the memory budget
// while the current store is still counted.
func (s *SquareList[T]) allocate(maxDepth int) ([]T, error) {
	n := capacityFor(maxDepth)
	if err := s.rc.Swap(s.storeBytes(len(s.store)), s.storeBytes(n)); err != nil {
		return nil, err
	}
	return make([]T, n), nil
}

func (s *SquareList[T]) storeBytes(cells int) int64 {
	return int64(cells) * s.cellBytes
}

func capacityFor(maxDepth int) int {
	return maxDepth * (maxDepth + 1)
}

// calcMaxDepth returns ⌈√n⌉, or 0 for n <= 0.
func calcMaxDepth(n int) int {
	if n <= 0 {
		return 0
	}
	d := int(math.Ceil(math.Sqrt(float64(n))))
	for d*d < n {
		d++
	}
	for d > 1 && (d-1)*(d-1) >= n {
		d--
	}
	return d
}
