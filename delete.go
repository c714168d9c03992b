package squarelist

import (
	"slices"
	"time"
)

// Delete removes one occurrence of v and reports whether it found one.
// Deleting an absent value is a no-op.
func (s *SquareList[T]) Delete(v T) bool {
	return s.deleteTimed(func() int { return s.delete(v, false) }) > 0
}

// DeleteAll removes every occurrence of v and returns how many were removed.
func (s *SquareList[T]) DeleteAll(v T) int {
	return s.deleteTimed(func() int { return s.delete(v, true) })
}

// DeleteBelow removes every value strictly less than v and returns how many
// were removed. Columns lying entirely below v are dropped whole, so trimming
// a sliding window costs O(1) per column plus one partial column.
func (s *SquareList[T]) DeleteBelow(v T) int {
	return s.deleteTimed(func() int { return s.deleteBelow(v) })
}

// DeleteWhere removes every value for which pred returns true and returns how
// many were removed. pred must not call back into the list.
func (s *SquareList[T]) DeleteWhere(pred func(T) bool) int {
	return s.deleteTimed(func() int { return s.deleteWhere(pred) })
}

func (s *SquareList[T]) deleteTimed(fn func() int) int {
	start := time.Now()
	s.mu.Lock()
	removed := fn()
	s.mu.Unlock()
	s.metrics.RecordDelete(removed, time.Since(start))
	return removed
}

func (s *SquareList[T]) delete(v T, all bool) int {
	removed := 0
	for {
		i := s.find(v)
		if i < 0 {
			break
		}
		col := s.columns[i]
		removed += col.remove(v, all)
		if col.isEmpty() {
			s.retire(i)
		}
		if !all {
			break
		}
	}
	s.size -= removed
	s.pruneTail()
	return removed
}

func (s *SquareList[T]) deleteBelow(v T) int {
	i := s.locate(v)
	if i < 0 {
		i = len(s.columns)
	}

	removed := 0
	for _, col := range s.columns[:i] {
		removed += col.depth
		s.free.add(col)
	}
	s.columns = slices.Delete(s.columns, 0, i)

	if len(s.columns) > 0 {
		head := s.columns[0]
		removed += head.removeBelow(v)
		if head.isEmpty() {
			s.retire(0)
		}
	}
	s.size -= removed
	return removed
}

func (s *SquareList[T]) deleteWhere(pred func(T) bool) int {
	removed := 0
	live := s.columns[:0]
	for _, col := range s.columns {
		removed += col.deleteWhere(pred)
		if col.isEmpty() {
			s.free.add(col)
			continue
		}
		live = append(live, col)
	}
	clear(s.columns[len(live):])
	s.columns = live
	s.size -= removed
	return removed
}
