package squarelist

import "fmt"

// freeColumns parks emptied columns by slot id so a later insert can reuse
// the exact slot instead of growing the store. Entries refer to the current
// store only; every relayout clears the cache.
type freeColumns[T any] struct {
	byID map[int]*column[T]
}

func newFreeColumns[T any]() *freeColumns[T] {
	return &freeColumns[T]{byID: make(map[int]*column[T])}
}

func (f *freeColumns[T]) add(col *column[T]) {
	id := col.id()
	if _, ok := f.byID[id]; ok {
		panic(fmt.Sprintf("squarelist: column slot %d parked twice", id))
	}
	col.clear()
	f.byID[id] = col
}

func (f *freeColumns[T]) recover(id int) (*column[T], bool) {
	col, ok := f.byID[id]
	if ok {
		delete(f.byID, id)
	}
	return col, ok
}

func (f *freeColumns[T]) clear() { clear(f.byID) }
