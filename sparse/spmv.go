package sparse

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MulVec computes y = A*x for the block and the full dense vector x and
// returns a fresh result slice of length m.Rows.
//
// Column indices outside [0, len(x)) contribute nothing. A correctly
// built block never produces one; the bound check is defensive.
func (m *CSR) MulVec(x []float64) []float64 {
	y := make([]float64, m.Rows)
	for r := 0; r < m.Rows; r++ {
		var sum float64
		for i := m.RowOffsets[r]; i < m.RowOffsets[r+1]; i++ {
			col := m.ColIndices[i]
			if col >= 0 && col < len(x) {
				sum += m.Values[i] * x[col]
			}
		}
		y[r] = sum
	}
	return y
}

// MulVecParallel is MulVec with the row loop split across up to
// maxWorkers goroutines. maxWorkers <= 0 means GOMAXPROCS.
//
// Each goroutine writes a disjoint segment of the result, so the output
// is bitwise identical to MulVec.
func (m *CSR) MulVecParallel(ctx context.Context, x []float64, maxWorkers int) ([]float64, error) {
	if maxWorkers <= 0 {
		maxWorkers = runtime.GOMAXPROCS(0)
	}
	if maxWorkers == 1 || m.Rows < 2*maxWorkers {
		return m.MulVec(x), nil
	}

	y := make([]float64, m.Rows)
	chunk := (m.Rows + maxWorkers - 1) / maxWorkers

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for start := 0; start < m.Rows; start += chunk {
		end := start + chunk
		if end > m.Rows {
			end = m.Rows
		}
		g.Go(func() error {
			for r := start; r < end; r++ {
				var sum float64
				for i := m.RowOffsets[r]; i < m.RowOffsets[r+1]; i++ {
					col := m.ColIndices[i]
					if col >= 0 && col < len(x) {
						sum += m.Values[i] * x[col]
					}
				}
				y[r] = sum
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return y, nil
}
