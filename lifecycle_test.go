package squarelist_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/squarelist"
	"github.com/hupe1980/squarelist/resource"
)

var _ io.Closer = (*squarelist.SquareList[int])(nil)

// TestCloseReleasesBudget verifies that closed lists give their bytes back to
// a shared controller, so long-running processes can recycle the budget.
func TestCloseReleasesBudget(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 12})

	for round := range 10 {
		sq, err := squarelist.New[int](squarelist.WithCapacity(400), squarelist.WithResourceController(rc))
		require.NoError(t, err, "round %d", round)

		for v := range 400 {
			require.NoError(t, sq.Insert(v))
		}
		assert.Positive(t, rc.MemoryUsage())

		require.NoError(t, sq.Close())
		assert.Zero(t, rc.MemoryUsage())
	}
}

func TestCloseThenReuse(t *testing.T) {
	sq, err := squarelist.New[int]()
	require.NoError(t, err)
	require.NoError(t, sq.Insert(3))

	require.NoError(t, sq.Close())
	assert.True(t, sq.IsEmpty())
	assert.Zero(t, sq.Capacity())
	assert.False(t, sq.Contains(3))

	require.NoError(t, sq.Insert(5))
	assert.Equal(t, []int{5}, sq.Values())

	var nilList *squarelist.SquareList[int]
	assert.NoError(t, nilList.Close())
}
