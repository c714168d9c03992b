package squarelist

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/squarelist/resource"
)

func newInts(t testing.TB, optFns ...Option) *SquareList[int] {
	t.Helper()
	s, err := New[int](optFns...)
	require.NoError(t, err)
	return s
}

func insertAll(t testing.TB, s *SquareList[int], vals ...int) {
	t.Helper()
	for _, v := range vals {
		require.NoError(t, s.Insert(v))
	}
	verify(t, s)
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for v := from; v <= to; v++ {
		out = append(out, v)
	}
	return out
}

func TestSquareList(t *testing.T) {
	t.Run("SingleValue", func(t *testing.T) {
		s := newInts(t)
		insertAll(t, s, 13)
		assert.Equal(t, 13, s.Min())
		assert.Equal(t, 13, s.Max())
		assert.Equal(t, 1, s.Size())

		assert.True(t, s.Delete(13))
		verify(t, s)
		assert.Zero(t, s.Size())
		assert.True(t, s.IsEmpty())
		assert.Zero(t, s.Min())
		assert.Zero(t, s.Max())
	})

	t.Run("Duplicates", func(t *testing.T) {
		s := newInts(t)
		insertAll(t, s, 13, 13, 13, 13, 13, 13, 13, 13, 13, 15)
		assert.Equal(t, 10, s.Size())
		assert.Equal(t, 13, s.Min())
		assert.Equal(t, 15, s.Max())
		assert.Equal(t, 9, s.Count(13))

		assert.True(t, s.Delete(13))
		verify(t, s)
		assert.Equal(t, 9, s.Size())
		assert.Equal(t, 13, s.Min())

		assert.Equal(t, 8, s.DeleteAll(13))
		verify(t, s)
		assert.Equal(t, 1, s.Size())
		assert.Equal(t, 15, s.Min())
		assert.Equal(t, 15, s.Max())
	})

	t.Run("GrowDeleteShrink", func(t *testing.T) {
		s := newInts(t, WithCapacity(9))
		assert.Equal(t, 12, s.Capacity())

		vals := append([]int{13, 100, 39, 23, 93}, seq(1, 12)...)
		vals = append(vals, seq(14, 22)...)
		insertAll(t, s, vals...)
		assert.Equal(t, 26, s.Size())
		assert.Equal(t, 30, s.Capacity())
		assert.Equal(t, 86, s.Ratio())

		for _, v := range append(seq(2, 13), 14, 15) {
			require.True(t, s.Delete(v), "delete %d", v)
		}
		verify(t, s)
		assert.Equal(t, 12, s.Size())
		assert.Equal(t, 30, s.Capacity())
		assert.Equal(t, 40, s.Ratio())

		require.NoError(t, s.ShrinkWithSlackOf(1))
		verify(t, s)
		assert.Equal(t, 30, s.Capacity())

		require.NoError(t, s.ShrinkWithSlackOf(0))
		verify(t, s)
		assert.Equal(t, 20, s.Capacity())
		assert.Equal(t, 60, s.Ratio())
		assert.Equal(t, 1, s.Min())
		assert.Equal(t, 100, s.Max())
		assert.Equal(t, []int{1, 16, 17, 18, 19, 20, 21, 22, 23, 39, 93, 100}, s.Values())
	})

	t.Run("BulkThenInsert", func(t *testing.T) {
		s, err := FromSorted(16, slices.Values(seq(1, 11)))
		require.NoError(t, err)
		verify(t, s)
		assert.Equal(t, seq(1, 11), slices.Collect(s.All()))

		insertAll(t, s, 13, 100, 39, 23, 93, 12, 14, 15, 16, 17, 18, 19, 20)
		assert.Equal(t, 24, s.Size())
		assert.Equal(t, 1, s.Min())
		assert.Equal(t, 100, s.Max())

		assert.True(t, s.Delete(100))
		verify(t, s)
		assert.Equal(t, 23, s.Size())
		assert.Equal(t, 93, s.Max())
	})

	t.Run("DeleteAbsent", func(t *testing.T) {
		s := newInts(t)
		assert.False(t, s.Delete(1))
		insertAll(t, s, 2, 4)
		assert.False(t, s.Delete(3))
		assert.Zero(t, s.DeleteAll(5))
		assert.Equal(t, 2, s.Size())
	})

	t.Run("String", func(t *testing.T) {
		s := newInts(t)
		insertAll(t, s, 1, 2, 3, 4, 5)
		assert.Equal(t, "SquareList(5 of 20 as 4 x 2)", s.String())
	})

	t.Run("CustomOrder", func(t *testing.T) {
		s, err := NewFunc(func(a, b string) int { return strings.Compare(b, a) })
		require.NoError(t, err)
		for _, v := range []string{"b", "d", "a", "c"} {
			require.NoError(t, s.Insert(v))
		}
		verify(t, s)
		assert.Equal(t, []string{"d", "c", "b", "a"}, s.Values())
		assert.Equal(t, "d", s.Min())
	})
}

func TestFromSorted(t *testing.T) {
	t.Run("NotAscending", func(t *testing.T) {
		_, err := FromSorted(16, slices.Values([]int{1, 2, 5, 4}))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotAscending)

		var oe *OrderError
		require.ErrorAs(t, err, &oe)
		assert.Equal(t, 3, oe.Index)
	})

	t.Run("CapacityExceeded", func(t *testing.T) {
		_, err := FromSorted(9, slices.Values(seq(1, 11)))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCapacityExceeded)

		var ce *CapacityError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, 9, ce.Capacity)
	})

	t.Run("Empty", func(t *testing.T) {
		s, err := FromSorted(0, slices.Values([]int(nil)))
		require.NoError(t, err)
		verify(t, s)
		assert.Zero(t, s.Capacity())
		assert.Zero(t, s.Ratio())

		insertAll(t, s, 3, 1, 2)
		assert.Equal(t, []int{1, 2, 3}, s.Values())
	})

	t.Run("CapacityArgumentWins", func(t *testing.T) {
		s, err := FromSorted(4, slices.Values([]int{1, 2}), WithCapacity(100))
		require.NoError(t, err)
		assert.Equal(t, 6, s.Capacity())
	})

	t.Run("ReleasesMemoryOnError", func(t *testing.T) {
		rc := resource.NewController(resource.Config{})
		_, err := FromSorted(9, slices.Values([]int{2, 1}), WithResourceController(rc))
		require.Error(t, err)
		assert.Zero(t, rc.MemoryUsage())
	})
}

func TestFromSortedSlice(t *testing.T) {
	t.Run("SizedBySource", func(t *testing.T) {
		s, err := FromSortedSlice(seq(1, 10))
		require.NoError(t, err)
		verify(t, s)
		assert.Equal(t, 10, s.Size())
		assert.Equal(t, 20, s.Capacity())
		assert.Equal(t, "SquareList(10 of 20 as 4 x 3)", s.String())

		insertAll(t, s, 0, 11)
		verify(t, s)
		assert.Equal(t, seq(0, 11), s.Values())
	})

	t.Run("Empty", func(t *testing.T) {
		s, err := FromSortedSlice([]int{})
		require.NoError(t, err)
		assert.True(t, s.IsEmpty())
		assert.Zero(t, s.Capacity())
	})

	t.Run("NotAscending", func(t *testing.T) {
		_, err := FromSortedSlice([]int{3, 1})
		assert.ErrorIs(t, err, ErrNotAscending)
	})

	t.Run("CustomOrder", func(t *testing.T) {
		desc := func(a, b string) int { return strings.Compare(b, a) }
		s, err := FromSortedSliceFunc(desc, []string{"c", "b", "a"})
		require.NoError(t, err)
		assert.Equal(t, "c", s.Min())
		assert.Equal(t, "a", s.Max())
	})
}

func TestDeleteBelow(t *testing.T) {
	t.Run("Partial", func(t *testing.T) {
		s, err := FromSorted(25, slices.Values(seq(1, 25)))
		require.NoError(t, err)

		assert.Equal(t, 12, s.DeleteBelow(13))
		verify(t, s)
		assert.Equal(t, seq(13, 25), s.Values())
	})

	t.Run("Everything", func(t *testing.T) {
		s, err := FromSorted(25, slices.Values(seq(1, 25)))
		require.NoError(t, err)

		assert.Equal(t, 25, s.DeleteBelow(100))
		verify(t, s)
		assert.True(t, s.IsEmpty())

		insertAll(t, s, 7, 3, 5)
		assert.Equal(t, []int{3, 5, 7}, s.Values())
	})

	t.Run("Nothing", func(t *testing.T) {
		s := newInts(t)
		assert.Zero(t, s.DeleteBelow(5))
		insertAll(t, s, 5, 6)
		assert.Zero(t, s.DeleteBelow(5))
		assert.Equal(t, 2, s.Size())
	})

	t.Run("KeepsEqual", func(t *testing.T) {
		s := newInts(t)
		insertAll(t, s, 4, 4, 4, 4, 4, 4, 4, 1, 2, 9)
		assert.Equal(t, 2, s.DeleteBelow(4))
		verify(t, s)
		assert.Equal(t, []int{4, 4, 4, 4, 4, 4, 4, 9}, s.Values())
	})
}

func TestDeleteWhere(t *testing.T) {
	s, err := FromSorted(100, slices.Values(seq(1, 100)))
	require.NoError(t, err)

	assert.Equal(t, 90, s.DeleteWhere(func(v int) bool { return v%10 != 0 }))
	verify(t, s)
	assert.Equal(t, []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, s.Values())

	// Cells freed by the delete are filled again without growing.
	capacity := s.Capacity()
	insertAll(t, s, seq(1, 9)...)
	insertAll(t, s, seq(91, 99)...)
	assert.Equal(t, capacity, s.Capacity())

	assert.Zero(t, s.DeleteWhere(func(int) bool { return false }))
	assert.Equal(t, 28, s.DeleteWhere(func(int) bool { return true }))
	verify(t, s)
	assert.True(t, s.IsEmpty())
}

func TestShrinkWithSlackOf(t *testing.T) {
	t.Run("NegativeSlack", func(t *testing.T) {
		s := newInts(t)
		err := s.ShrinkWithSlackOf(-1)
		require.ErrorIs(t, err, ErrNegativeSlack)

		var se *SlackError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, -1, se.Slack)
	})

	t.Run("Empty", func(t *testing.T) {
		s := newInts(t)
		require.NoError(t, s.ShrinkWithSlackOf(0))
		verify(t, s)
		assert.Zero(t, s.Capacity())

		insertAll(t, s, 1)
		assert.Equal(t, 2, s.Capacity())
	})

	t.Run("Slack", func(t *testing.T) {
		s := newInts(t, WithCapacity(400))
		insertAll(t, s, seq(1, 50)...)

		require.NoError(t, s.ShrinkWithSlackOf(2))
		verify(t, s)
		// ⌈√50⌉ = 8 values per column, 10 cells deep.
		assert.Equal(t, 110, s.Capacity())
		assert.Equal(t, seq(1, 50), s.Values())

		// Slack leaves room to insert into every column without shifting.
		insertAll(t, s, 0, 51, 25, 25)
		assert.Equal(t, 110, s.Capacity())
	})

	t.Run("MayGrow", func(t *testing.T) {
		s := newInts(t, WithCapacity(4))
		insertAll(t, s, 1, 2, 3, 4)
		require.NoError(t, s.ShrinkWithSlackOf(3))
		verify(t, s)
		assert.Equal(t, 30, s.Capacity())
	})
}

func TestMemoryLimit(t *testing.T) {
	t.Run("RejectsNew", func(t *testing.T) {
		_, err := New[int](WithCapacity(16), WithMemoryLimit(100))
		require.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	})

	t.Run("InsertLeavesListUnchanged", func(t *testing.T) {
		s := newInts(t, WithCapacity(16), WithMemoryLimit(300))
		insertAll(t, s, seq(1, 20)...)

		err := s.Insert(21)
		require.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
		verify(t, s)
		assert.Equal(t, 20, s.Size())
		assert.Equal(t, 20, s.Capacity())
		assert.Equal(t, seq(1, 20), s.Values())
	})

	t.Run("SharedController", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 400})
		a := newInts(t, WithCapacity(16), WithResourceController(rc))
		assert.Equal(t, int64(160), rc.MemoryUsage())

		b := newInts(t, WithCapacity(16), WithResourceController(rc))
		assert.Equal(t, int64(320), rc.MemoryUsage())

		insertAll(t, a, seq(1, 20)...)
		require.Error(t, a.Insert(21))

		require.NoError(t, b.ShrinkWithSlackOf(0))
		assert.Equal(t, int64(160), rc.MemoryUsage())
		require.NoError(t, a.Insert(21))
		assert.Equal(t, int64(240), rc.MemoryUsage())
		assert.Equal(t, int64(400), rc.PeakMemoryUsage())
	})
}

func TestConcurrentAccess(t *testing.T) {
	s := newInts(t)

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 250 {
				assert.NoError(t, s.Insert(w*1000+i))
				s.Contains(i)
				s.Min()
			}
		}()
	}
	wg.Wait()

	verify(t, s)
	assert.Equal(t, 1000, s.Size())
	assert.True(t, slices.IsSorted(s.Values()))
}

func TestAll_StopsEarly(t *testing.T) {
	s, err := FromSorted(100, slices.Values(seq(1, 100)))
	require.NoError(t, err)

	var got []int
	for v := range s.All() {
		if v > 3 {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 2, 3}, got)

	// The read lock is released after break.
	require.NoError(t, s.Insert(0))
}

func TestErrorsUnwrap(t *testing.T) {
	assert.True(t, errors.Is(&OrderError{Index: 1}, ErrNotAscending))
	assert.True(t, errors.Is(&CapacityError{Capacity: 1}, ErrCapacityExceeded))
	assert.True(t, errors.Is(&SlackError{Slack: -2}, ErrNegativeSlack))
	assert.Contains(t, (&OrderError{Index: 7}).Error(), "index 7")
}
