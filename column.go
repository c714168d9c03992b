package squarelist

import (
	"fmt"
	"slices"
)

// column is a sorted run of cells inside the shared backing store.
//
// It owns store[first : first+width] and keeps its live values in
// store[first : first+depth] in non-decreasing order. Columns never hold
// their own memory: a relayout builds new columns over a new store.
type column[T any] struct {
	store []T
	cmp   func(a, b T) int
	width int
	first int
	depth int
}

func newColumn[T any](store []T, cmp func(a, b T) int, width, first int) *column[T] {
	return &column[T]{
		store: store,
		cmp:   cmp,
		width: width,
		first: first,
	}
}

// id is the slot ordinal of the column inside the store.
func (c *column[T]) id() int { return c.first / c.width }

func (c *column[T]) isEmpty() bool { return c.depth == 0 }

func (c *column[T]) isFull() bool { return c.depth >= c.width }

// lastIndex is the store index of the last live cell (first-1 when empty).
func (c *column[T]) lastIndex() int { return c.first + c.depth - 1 }

func (c *column[T]) firstValue() T { return c.store[c.first] }

func (c *column[T]) lastValue() T { return c.store[c.lastIndex()] }

func (c *column[T]) values() []T { return c.store[c.first : c.first+c.depth] }

func (c *column[T]) clear() { c.depth = 0 }

func (c *column[T]) inRange(v T) bool {
	return !c.isEmpty() && c.cmp(c.firstValue(), v) <= 0 && c.cmp(c.lastValue(), v) >= 0
}

// search returns the position of the leftmost value not less than v,
// relative to first, and whether that value equals v.
func (c *column[T]) search(v T) (int, bool) {
	return slices.BinarySearchFunc(c.values(), v, c.cmp)
}

func (c *column[T]) contains(v T) bool {
	if !c.inRange(v) {
		return false
	}
	_, found := c.search(v)
	return found
}

func (c *column[T]) count(v T) int {
	if !c.inRange(v) {
		return 0
	}
	pos, found := c.search(v)
	if !found {
		return 0
	}
	vals := c.values()
	n := 1
	for pos+n < len(vals) && c.cmp(vals[pos+n], v) == 0 {
		n++
	}
	return n
}

// insertionSlot returns the store index v belongs at, after any equal values.
// It scans inward from both ends at once; columns are about √n cells deep.
func (c *column[T]) insertionSlot(v T) int {
	up, down := c.first, c.lastIndex()
	for range c.depth {
		if c.cmp(c.store[up], v) > 0 {
			return up
		}
		if c.cmp(c.store[down], v) <= 0 {
			return down + 1
		}
		up++
		down--
	}
	return c.first
}

func (c *column[T]) insert(v T) {
	if c.isFull() {
		panic(fmt.Sprintf("squarelist: insert into full column %d", c.id()))
	}
	slot := c.insertionSlot(v)
	end := c.first + c.depth
	copy(c.store[slot+1:end+1], c.store[slot:end])
	c.store[slot] = v
	c.depth++
}

// insertAsLast appends v. The caller guarantees v is not less than lastValue.
func (c *column[T]) insertAsLast(v T) {
	if c.isFull() {
		panic(fmt.Sprintf("squarelist: append to full column %d", c.id()))
	}
	c.store[c.first+c.depth] = v
	c.depth++
}

// remove deletes one occurrence of v, or the whole run when all is set,
// and reports how many values were removed.
func (c *column[T]) remove(v T, all bool) int {
	if !c.inRange(v) {
		return 0
	}
	pos, found := c.search(v)
	if !found {
		return 0
	}
	n := 1
	if all {
		n = c.count(v)
	}
	c.removeRange(pos, pos+n)
	return n
}

// removeBelow deletes the prefix of values strictly less than v.
func (c *column[T]) removeBelow(v T) int {
	pos, _ := c.search(v)
	c.removeRange(0, pos)
	return pos
}

func (c *column[T]) deleteWhere(pred func(T) bool) int {
	vals := c.values()
	kept := slices.DeleteFunc(vals, pred)
	removed := len(vals) - len(kept)
	c.depth = len(kept)
	return removed
}

// removeRange deletes values[i:j], both relative to first.
func (c *column[T]) removeRange(i, j int) {
	if i < 0 || j > c.depth || i > j {
		panic(fmt.Sprintf("squarelist: remove [%d:%d] out of range for column %d of depth %d", i, j, c.id(), c.depth))
	}
	if i == j {
		return
	}
	end := c.first + c.depth
	copy(c.store[c.first+i:], c.store[c.first+j:end])
	clear(c.store[end-(j-i) : end])
	c.depth -= j - i
}

// openSpaceAndInsert inserts v into a full column by shifting one cell of
// the store toward a neighbour that has room.
//
// after and before must each be either nil or a column with free space whose
// slot is reachable through a run of full, physically adjacent columns. The
// neighbour with the shorter shift wins.
func (c *column[T]) openSpaceAndInsert(v T, after, before *column[T]) {
	if !c.isFull() {
		panic(fmt.Sprintf("squarelist: column %d has room, no need to open space", c.id()))
	}
	if after == nil && before == nil {
		panic(fmt.Sprintf("squarelist: no neighbour with room around column %d", c.id()))
	}

	slot := c.insertionSlot(v)
	if before == nil || (after != nil && after.lastIndex()-slot < slot-before.lastIndex()) {
		c.shiftTowardAfter(v, slot, after)
		return
	}
	c.shiftTowardBefore(v, slot, before)
}

// shiftTowardAfter moves store[slot : end of after] one cell right.
func (c *column[T]) shiftTowardAfter(v T, slot int, after *column[T]) {
	end := after.first + after.depth
	copy(c.store[slot+1:end+1], c.store[slot:end])
	c.store[slot] = v
	after.depth++
}

// shiftTowardBefore moves store[start of the slot following before : slot]
// one cell left, the leading cell landing at the end of before.
func (c *column[T]) shiftTowardBefore(v T, slot int, before *column[T]) {
	next := before.first + before.width
	before.depth++
	if slot == next {
		c.store[before.lastIndex()] = v
		return
	}
	c.store[before.lastIndex()] = c.store[next]
	copy(c.store[next:slot-1], c.store[next+1:slot])
	c.store[slot-1] = v
}

// copyTo relocates the live values into store at firstIndex.
func (c *column[T]) copyTo(store []T, width, firstIndex int) *column[T] {
	moved := newColumn(store, c.cmp, width, firstIndex)
	moved.depth = copy(store[firstIndex:firstIndex+width], c.values())
	return moved
}
