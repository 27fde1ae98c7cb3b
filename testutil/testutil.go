package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/spargo/sparse"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// RandomEntries generates nnz coordinate entries with positions drawn
// uniformly from a rows x cols grid and values in [-1, 1). Positions
// may repeat; duplicates are expected to be summed downstream.
func RandomEntries(rng *RNG, rows, cols, nnz int) []sparse.Entry {
	entries := make([]sparse.Entry, nnz)
	for i := range entries {
		entries[i] = sparse.Entry{
			Row: rng.Intn(rows),
			Col: rng.Intn(cols),
			Val: 2*rng.Float64() - 1,
		}
	}
	return entries
}

// RandomVector generates a dense vector of length n with values in [-1, 1).
func RandomVector(rng *RNG, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = 2*rng.Float64() - 1
	}
	return x
}

// DenseSpMV computes y = A*x over the coordinate entries directly,
// without any sparse conversion. Entries outside the rows x cols grid
// are ignored, matching the sparse path.
func DenseSpMV(rows, cols int, entries []sparse.Entry, x []float64) []float64 {
	y := make([]float64, rows)
	for _, e := range entries {
		if e.Row < 0 || e.Row >= rows || e.Col < 0 || e.Col >= cols {
			continue
		}
		y[e.Row] += e.Val * x[e.Col]
	}
	return y
}
