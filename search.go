package squarelist

import "slices"

// locate returns the sequence position of the leftmost column whose last
// value is not less than v, or -1 when every column ends below v.
func (s *SquareList[T]) locate(v T) int {
	i, _ := slices.BinarySearchFunc(s.columns, v, func(col *column[T], v T) int {
		return s.cmp(col.lastValue(), v)
	})
	if i == len(s.columns) {
		return -1
	}
	return i
}

// find returns the sequence position of the leftmost column holding v, or -1.
//
// A run of equal values may span several columns. Every column left of the
// first holder ends below v, so the leftmost column with last value >= v is
// the first holder whenever v is present.
func (s *SquareList[T]) find(v T) int {
	i := s.locate(v)
	if i < 0 || !s.columns[i].contains(v) {
		return -1
	}
	return i
}
