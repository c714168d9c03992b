package bench

import (
	"fmt"

	gbtree "github.com/google/btree"
	tbtree "github.com/tidwall/btree"

	"github.com/hupe1980/squarelist"
)

// Contender names accepted by NewContender.
const (
	SquareList   = "squarelist"
	GoogleBTree  = "btree"
	TidwallBTree = "tidwall"
)

// Contenders lists every known contender name.
var Contenders = []string{SquareList, GoogleBTree, TidwallBTree}

// Set is the ordered multiset surface the workload drives.
type Set interface {
	Insert(v int) error
	Delete(v int) bool
	Contains(v int) bool
	DeleteBelow(v int) int
	Min() int
	Max() int
	Size() int
	// Head returns up to n smallest values in order.
	Head(n int) []int
	Close() error
}

// Shrinker is implemented by contenders that can give back unused capacity.
type Shrinker interface {
	ShrinkWithSlackOf(slack int) error
}

// NewContender builds the named contender holding 1..size. The options only
// apply to the squarelist contender.
func NewContender(name string, size int, optFns ...squarelist.Option) (Set, error) {
	switch name {
	case SquareList:
		sq, err := squarelist.FromSorted(size, ascending(size), optFns...)
		if err != nil {
			return nil, err
		}
		return &squareSet{sq}, nil
	case GoogleBTree:
		s := &googleSet{tree: gbtree.NewG(32, item.less)}
		fill(s, size)
		return s, nil
	case TidwallBTree:
		s := &tidwallSet{tree: tbtree.NewBTreeGOptions(item.less, tbtree.Options{NoLocks: true})}
		fill(s, size)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown contender %q (want one of %v)", name, Contenders)
	}
}

func ascending(size int) func(yield func(int) bool) {
	return func(yield func(int) bool) {
		for v := 1; v <= size; v++ {
			if !yield(v) {
				return
			}
		}
	}
}

func fill(s Set, size int) {
	for v := range ascending(size) {
		_ = s.Insert(v)
	}
}

type squareSet struct {
	*squarelist.SquareList[int]
}

func (s *squareSet) Head(n int) []int {
	out := make([]int, 0, n)
	for v := range s.All() {
		if len(out) == n {
			break
		}
		out = append(out, v)
	}
	return out
}

// item makes btree keys unique so equal values can coexist.
type item struct {
	v   int
	seq uint64
}

func (a item) less(b item) bool {
	if a.v != b.v {
		return a.v < b.v
	}
	return a.seq < b.seq
}

type googleSet struct {
	tree *gbtree.BTreeG[item]
	seq  uint64
}

func (s *googleSet) Insert(v int) error {
	s.seq++
	s.tree.ReplaceOrInsert(item{v: v, seq: s.seq})
	return nil
}

func (s *googleSet) first(v int) (item, bool) {
	var (
		found item
		ok    bool
	)
	s.tree.AscendGreaterOrEqual(item{v: v}, func(it item) bool {
		found, ok = it, it.v == v
		return false
	})
	return found, ok
}

func (s *googleSet) Delete(v int) bool {
	it, ok := s.first(v)
	if ok {
		s.tree.Delete(it)
	}
	return ok
}

func (s *googleSet) Contains(v int) bool {
	_, ok := s.first(v)
	return ok
}

func (s *googleSet) DeleteBelow(v int) int {
	n := 0
	for {
		it, ok := s.tree.Min()
		if !ok || it.v >= v {
			return n
		}
		s.tree.DeleteMin()
		n++
	}
}

func (s *googleSet) Min() int {
	it, _ := s.tree.Min()
	return it.v
}

func (s *googleSet) Max() int {
	it, _ := s.tree.Max()
	return it.v
}

func (s *googleSet) Size() int { return s.tree.Len() }

func (s *googleSet) Head(n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, 0, n)
	s.tree.Ascend(func(it item) bool {
		out = append(out, it.v)
		return len(out) < n
	})
	return out
}

func (s *googleSet) Close() error {
	s.tree.Clear(false)
	return nil
}

type tidwallSet struct {
	tree *tbtree.BTreeG[item]
	seq  uint64
}

func (s *tidwallSet) Insert(v int) error {
	s.seq++
	s.tree.Set(item{v: v, seq: s.seq})
	return nil
}

func (s *tidwallSet) first(v int) (item, bool) {
	var (
		found item
		ok    bool
	)
	s.tree.Ascend(item{v: v}, func(it item) bool {
		found, ok = it, it.v == v
		return false
	})
	return found, ok
}

func (s *tidwallSet) Delete(v int) bool {
	it, ok := s.first(v)
	if ok {
		s.tree.Delete(it)
	}
	return ok
}

func (s *tidwallSet) Contains(v int) bool {
	_, ok := s.first(v)
	return ok
}

func (s *tidwallSet) DeleteBelow(v int) int {
	n := 0
	for {
		it, ok := s.tree.Min()
		if !ok || it.v >= v {
			return n
		}
		s.tree.PopMin()
		n++
	}
}

func (s *tidwallSet) Min() int {
	it, _ := s.tree.Min()
	return it.v
}

func (s *tidwallSet) Max() int {
	it, _ := s.tree.Max()
	return it.v
}

func (s *tidwallSet) Size() int { return s.tree.Len() }

func (s *tidwallSet) Head(n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, 0, n)
	s.tree.Scan(func(it item) bool {
		out = append(out, it.v)
		return len(out) < n
	})
	return out
}

func (s *tidwallSet) Close() error {
	s.tree.Clear()
	return nil
}
