// Package partition computes the contiguous row ownership used to spread
// a matrix across a fixed worker group.
//
// The distribution is computed once per run from the global row count and
// the group size, is identical on every rank, and is immutable. Every
// other component derives ownership facts from it.
package partition

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInvalidWorkerCount is returned when the worker count is < 1.
	ErrInvalidWorkerCount = errors.New("worker count must be at least 1")

	// ErrNegativeRows is returned when the total row count is negative.
	ErrNegativeRows = errors.New("total row count must not be negative")
)

// Distribution maps row indices to owning workers via contiguous blocks.
// Worker k owns rows [boundaries[k], boundaries[k+1]).
type Distribution struct {
	boundaries []int
}

// New computes the distribution of totalRows rows over workerCount
// workers. Block sizes differ by at most one; the first totalRows %
// workerCount workers get the larger block.
func New(totalRows, workerCount int) (Distribution, error) {
	if workerCount < 1 {
		return Distribution{}, fmt.Errorf("%w: %d", ErrInvalidWorkerCount, workerCount)
	}
	if totalRows < 0 {
		return Distribution{}, fmt.Errorf("%w: %d", ErrNegativeRows, totalRows)
	}

	base := totalRows / workerCount
	remainder := totalRows % workerCount

	boundaries := make([]int, workerCount+1)
	for k := 0; k < workerCount; k++ {
		extra := k
		if extra > remainder {
			extra = remainder
		}
		boundaries[k] = k*base + extra
	}
	boundaries[workerCount] = totalRows

	return Distribution{boundaries: boundaries}, nil
}

// WorkerCount returns the number of workers the rows are spread over.
func (d Distribution) WorkerCount() int {
	return len(d.boundaries) - 1
}

// TotalRows returns the global row count.
func (d Distribution) TotalRows() int {
	return d.boundaries[len(d.boundaries)-1]
}

// Range returns the half-open global row range [start, end) owned by
// worker k.
func (d Distribution) Range(k int) (start, end int) {
	return d.boundaries[k], d.boundaries[k+1]
}

// Size returns the number of rows owned by worker k.
func (d Distribution) Size(k int) int {
	return d.boundaries[k+1] - d.boundaries[k]
}

// Owner returns the worker owning the given global row: the largest
// boundary index b with boundaries[b] <= row, clamped into the valid
// worker range so boundary edge values stay in bounds.
func (d Distribution) Owner(row int) int {
	owner := sort.SearchInts(d.boundaries, row+1) - 1
	if owner < 0 {
		return 0
	}
	if max := d.WorkerCount() - 1; owner > max {
		return max
	}
	return owner
}

// Boundaries returns a copy of the boundary sequence, mainly for logging
// and tests.
func (d Distribution) Boundaries() []int {
	out := make([]int, len(d.boundaries))
	copy(out, d.boundaries)
	return out
}
