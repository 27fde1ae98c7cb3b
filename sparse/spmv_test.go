package sparse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulVec(t *testing.T) {
	tests := []struct {
		name     string
		rows     int
		cols     int
		entries  []Entry
		x        []float64
		expected []float64
	}{
		{
			name: "ScaledDiagonal",
			rows: 4, cols: 4,
			entries:  []Entry{{0, 0, 2}, {1, 1, 3}, {2, 2, 4}, {3, 3, 5}},
			x:        []float64{1, 1, 1, 1},
			expected: []float64{2, 3, 4, 5},
		},
		{
			name: "Dense2x3",
			rows: 2, cols: 3,
			entries:  []Entry{{0, 0, 1}, {0, 1, 2}, {0, 2, 3}, {1, 0, 4}, {1, 1, 5}, {1, 2, 6}},
			x:        []float64{1, 2, 3},
			expected: []float64{14, 32},
		},
		{
			name: "EmptyMatrix",
			rows: 3, cols: 3,
			entries:  nil,
			x:        []float64{1, 2, 3},
			expected: []float64{0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FromCOO(tt.rows, tt.cols, tt.entries)
			got := m.MulVec(tt.x)
			require.Len(t, got, tt.rows)
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i], got[i], 1e-12)
			}
		})
	}
}

func TestMulVecOutOfRangeColumn(t *testing.T) {
	// Hand-built block with a column index past the vector length; the
	// contribution must be silently ignored.
	m := &CSR{
		Rows:       1,
		Cols:       5,
		RowOffsets: []int{0, 2},
		ColIndices: []int{0, 4},
		Values:     []float64{2, 100},
	}
	got := m.MulVec([]float64{3, 1})
	assert.Equal(t, []float64{6}, got)
}

func TestMulVecParallel(t *testing.T) {
	const rows, cols = 257, 64

	entries := make([]Entry, 0, rows*3)
	x := make([]float64, cols)
	for i := range x {
		x[i] = float64(i%7) - 3
	}
	for r := 0; r < rows; r++ {
		entries = append(entries,
			Entry{r, r % cols, float64(r + 1)},
			Entry{r, (r * 3) % cols, 0.5},
			Entry{r, (r * 5) % cols, -2},
		)
	}

	m := FromCOO(rows, cols, entries)
	want := m.MulVec(x)

	for _, workers := range []int{0, 1, 2, 7} {
		got, err := m.MulVecParallel(context.Background(), x, workers)
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}
