package testutil

import (
	"cmp"
	"slices"
)

// Oracle is a sorted-slice multiset with the same operations as a
// SquareList. Every operation is O(n); it exists to check results, not to
// be fast.
type Oracle[T cmp.Ordered] struct {
	vals []T
}

// NewOracle creates an empty Oracle.
func NewOracle[T cmp.Ordered]() *Oracle[T] {
	return &Oracle[T]{}
}

// Insert adds v after any equal values.
func (o *Oracle[T]) Insert(v T) {
	i := o.upper(v)
	o.vals = slices.Insert(o.vals, i, v)
}

// Delete removes one occurrence of v.
func (o *Oracle[T]) Delete(v T) bool {
	i, found := slices.BinarySearch(o.vals, v)
	if !found {
		return false
	}
	o.vals = slices.Delete(o.vals, i, i+1)
	return true
}

// DeleteAll removes every occurrence of v.
func (o *Oracle[T]) DeleteAll(v T) int {
	i, _ := slices.BinarySearch(o.vals, v)
	j := o.upper(v)
	o.vals = slices.Delete(o.vals, i, j)
	return j - i
}

// DeleteBelow removes every value strictly less than v.
func (o *Oracle[T]) DeleteBelow(v T) int {
	i, _ := slices.BinarySearch(o.vals, v)
	o.vals = slices.Delete(o.vals, 0, i)
	return i
}

// DeleteWhere removes every value for which pred returns true.
func (o *Oracle[T]) DeleteWhere(pred func(T) bool) int {
	n := len(o.vals)
	o.vals = slices.DeleteFunc(o.vals, pred)
	return n - len(o.vals)
}

// Contains reports whether v is present.
func (o *Oracle[T]) Contains(v T) bool {
	_, found := slices.BinarySearch(o.vals, v)
	return found
}

// Count returns the number of occurrences of v.
func (o *Oracle[T]) Count(v T) int {
	i, _ := slices.BinarySearch(o.vals, v)
	return o.upper(v) - i
}

// Min returns the smallest value, or the zero value when empty.
func (o *Oracle[T]) Min() T {
	if len(o.vals) == 0 {
		var zero T
		return zero
	}
	return o.vals[0]
}

// Max returns the largest value, or the zero value when empty.
func (o *Oracle[T]) Max() T {
	if len(o.vals) == 0 {
		var zero T
		return zero
	}
	return o.vals[len(o.vals)-1]
}

// Size returns the number of values.
func (o *Oracle[T]) Size() int { return len(o.vals) }

// Values returns a copy of the values in ascending order.
func (o *Oracle[T]) Values() []T { return slices.Clone(o.vals) }

// upper returns the index of the first value greater than v.
func (o *Oracle[T]) upper(v T) int {
	i, _ := slices.BinarySearchFunc(o.vals, v, func(e, t T) int {
		if cmp.Compare(e, t) <= 0 {
			return -1
		}
		return 1
	})
	return i
}
