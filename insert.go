package squarelist

import (
	"slices"
	"time"
)

// Insert adds v to the list. Duplicates are kept.
//
// Insert grows the backing store when it is full. The only possible error is
// resource.ErrMemoryLimitExceeded from a configured memory budget, in which
// case the list is left unchanged.
func (s *SquareList[T]) Insert(v T) error {
	start := time.Now()
	s.mu.Lock()
	err := s.insert(v)
	s.mu.Unlock()
	s.metrics.RecordInsert(time.Since(start), err)
	return err
}

func (s *SquareList[T]) insert(v T) error {
	if s.size+1 > len(s.store) {
		if err := s.enlarge(); err != nil {
			return err
		}
	}

	switch {
	case len(s.columns) == 0:
		col := s.columnAt(0)
		s.columns = append(s.columns, col)
		col.insert(v)
	case s.cmp(v, s.tail().lastValue()) <= 0:
		i := s.locate(v)
		if col := s.columns[i]; !col.isFull() {
			col.insert(v)
		} else {
			s.makeSpace(i, v)
		}
	default:
		s.appendMax(v)
	}

	s.size++
	s.pruneTail()
	return nil
}

// appendMax adds v, which is larger than every value in the list.
func (s *SquareList[T]) appendMax(v T) {
	tail := s.tail()
	if !tail.isFull() {
		tail.insertAsLast(v)
		return
	}
	if id := tail.id() + 1; id <= s.maxDepth {
		col := s.columnAt(id)
		col.insertAsLast(v)
		s.columns = append(s.columns, col)
		return
	}
	// No slot left after the tail; borrow room from the columns before it.
	s.makeSpace(len(s.columns)-1, v)
}

// neighbour is a candidate column with room next to a run of full columns.
// Either col is a live column, or id names a free slot to be placed at
// sequence position at.
type neighbour[T any] struct {
	col *column[T]
	id  int
	at  int
	ok  bool
}

// makeSpace inserts v into the full column at sequence position i.
func (s *SquareList[T]) makeSpace(i int, v T) {
	after, before := s.spaceAfter(i), s.spaceBefore(i)
	afterCol, beforeCol := s.materialise(after), s.materialise(before)

	s.columns[i].openSpaceAndInsert(v, afterCol, beforeCol)

	// Only one neighbour received a cell; the other goes back unused.
	s.settle(after, afterCol)
	s.settle(before, beforeCol)
}

// spaceAfter walks right over full columns in consecutive slots until it
// reaches one with room or a free slot.
func (s *SquareList[T]) spaceAfter(i int) neighbour[T] {
	id := s.columns[i].id()
	for j := i + 1; j < len(s.columns); j++ {
		col := s.columns[j]
		if col.id() != id+1 {
			return neighbour[T]{id: id + 1, at: j, ok: true}
		}
		if !col.isFull() {
			return neighbour[T]{col: col, ok: true}
		}
		id++
	}
	if id < s.maxDepth {
		return neighbour[T]{id: id + 1, at: len(s.columns), ok: true}
	}
	return neighbour[T]{}
}

// spaceBefore is spaceAfter walking left.
func (s *SquareList[T]) spaceBefore(i int) neighbour[T] {
	id := s.columns[i].id()
	for j := i - 1; j >= 0; j-- {
		col := s.columns[j]
		if col.id() != id-1 {
			return neighbour[T]{id: id - 1, at: j + 1, ok: true}
		}
		if !col.isFull() {
			return neighbour[T]{col: col, ok: true}
		}
		id--
	}
	if id > 0 {
		return neighbour[T]{id: id - 1, at: 0, ok: true}
	}
	return neighbour[T]{}
}

func (s *SquareList[T]) materialise(n neighbour[T]) *column[T] {
	switch {
	case !n.ok:
		return nil
	case n.col != nil:
		return n.col
	default:
		return s.columnAt(n.id)
	}
}

// settle links a materialised free-slot column into the sequence if it
// received a value, and parks it again otherwise.
func (s *SquareList[T]) settle(n neighbour[T], col *column[T]) {
	if col == nil || n.col != nil {
		return
	}
	if col.isEmpty() {
		s.free.add(col)
		return
	}
	s.columns = slices.Insert(s.columns, n.at, col)
}
