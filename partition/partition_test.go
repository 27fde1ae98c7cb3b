package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		totalRows  int
		workers    int
		boundaries []int
	}{
		{"EvenSplit", 8, 4, []int{0, 2, 4, 6, 8}},
		{"Remainder", 10, 3, []int{0, 4, 7, 10}},
		{"SingleWorker", 5, 1, []int{0, 5}},
		{"MoreWorkersThanRows", 2, 4, []int{0, 1, 2, 2, 2}},
		{"ZeroRows", 0, 3, []int{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.totalRows, tt.workers)
			require.NoError(t, err)
			assert.Equal(t, tt.boundaries, d.Boundaries())
			assert.Equal(t, tt.workers, d.WorkerCount())
			assert.Equal(t, tt.totalRows, d.TotalRows())
		})
	}
}

func TestNewErrors(t *testing.T) {
	_, err := New(10, 0)
	assert.ErrorIs(t, err, ErrInvalidWorkerCount)

	_, err = New(10, -1)
	assert.ErrorIs(t, err, ErrInvalidWorkerCount)

	_, err = New(-1, 2)
	assert.ErrorIs(t, err, ErrNegativeRows)
}

func TestProperties(t *testing.T) {
	// Boundaries start at 0, end at totalRows, are non-decreasing, and no
	// two block sizes differ by more than 1.
	for totalRows := 0; totalRows <= 40; totalRows++ {
		for workers := 1; workers <= 9; workers++ {
			d, err := New(totalRows, workers)
			require.NoError(t, err)

			b := d.Boundaries()
			require.Equal(t, 0, b[0])
			require.Equal(t, totalRows, b[workers])

			minSize, maxSize := totalRows, 0
			for k := 0; k < workers; k++ {
				size := d.Size(k)
				require.GreaterOrEqual(t, size, 0)
				if size < minSize {
					minSize = size
				}
				if size > maxSize {
					maxSize = size
				}
			}
			require.LessOrEqual(t, maxSize-minSize, 1,
				"rows=%d workers=%d", totalRows, workers)
		}
	}
}

func TestOwner(t *testing.T) {
	d, err := New(10, 3) // [0,4) [4,7) [7,10)
	require.NoError(t, err)

	tests := []struct {
		row   int
		owner int
	}{
		{0, 0}, {3, 0}, {4, 1}, {6, 1}, {7, 2}, {9, 2},
		// Clamped edge values.
		{-1, 0}, {10, 2}, {100, 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.owner, d.Owner(tt.row), "row %d", tt.row)
	}
}

func TestOwnerCoversEveryRow(t *testing.T) {
	d, err := New(17, 5)
	require.NoError(t, err)

	for row := 0; row < 17; row++ {
		owner := d.Owner(row)
		start, end := d.Range(owner)
		require.GreaterOrEqual(t, row, start)
		require.Less(t, row, end)
	}
}
