package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/spargo/sparse"
)

func TestRNG(t *testing.T) {
	t.Run("deterministic after reset", func(t *testing.T) {
		rng := NewRNG(42)
		a := RandomVector(rng, 8)
		rng.Reset()
		b := RandomVector(rng, 8)
		assert.Equal(t, a, b)
	})

	t.Run("seed", func(t *testing.T) {
		rng := NewRNG(7)
		assert.Equal(t, int64(7), rng.Seed())
	})
}

func TestRandomEntries(t *testing.T) {
	rng := NewRNG(1)
	entries := RandomEntries(rng, 10, 5, 30)
	require.Len(t, entries, 30)

	for _, e := range entries {
		assert.GreaterOrEqual(t, e.Row, 0)
		assert.Less(t, e.Row, 10)
		assert.GreaterOrEqual(t, e.Col, 0)
		assert.Less(t, e.Col, 5)
		assert.Less(t, e.Val, 1.0)
		assert.GreaterOrEqual(t, e.Val, -1.0)
	}
}

func TestDenseSpMV(t *testing.T) {
	entries := []sparse.Entry{
		{Row: 0, Col: 0, Val: 2},
		{Row: 1, Col: 2, Val: 3},
		{Row: 1, Col: 2, Val: 1},
		{Row: 5, Col: 0, Val: 9}, // out of range, ignored
	}
	y := DenseSpMV(2, 3, entries, []float64{1, 0, 2})
	assert.Equal(t, []float64{2, 8}, y)
}
