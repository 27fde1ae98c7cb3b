package sparse

import (
	"fmt"
	"sort"
)

// CSR is a matrix block in compressed sparse row format.
//
// Invariants:
//   - len(RowOffsets) == Rows+1, RowOffsets[0] == 0, non-decreasing
//   - RowOffsets[Rows] == len(ColIndices) == len(Values)
//   - within each row's slice column indices are strictly increasing
//     (duplicates have been merged)
type CSR struct {
	Rows       int
	Cols       int
	RowOffsets []int
	ColIndices []int
	Values     []float64
}

// NNZ returns the number of stored nonzeros.
func (m *CSR) NNZ() int {
	return len(m.Values)
}

// Validate checks the structural invariants of the block. It is intended
// for tests and debug assertions, not for hot paths.
func (m *CSR) Validate() error {
	if m.Rows < 0 || m.Cols < 0 {
		return fmt.Errorf("negative dimensions: %dx%d", m.Rows, m.Cols)
	}
	if len(m.RowOffsets) != m.Rows+1 {
		return fmt.Errorf("row offsets length %d, want %d", len(m.RowOffsets), m.Rows+1)
	}
	if m.RowOffsets[0] != 0 {
		return fmt.Errorf("row offsets must start at 0, got %d", m.RowOffsets[0])
	}
	if len(m.ColIndices) != len(m.Values) {
		return fmt.Errorf("column index count %d != value count %d", len(m.ColIndices), len(m.Values))
	}
	if m.RowOffsets[m.Rows] != len(m.Values) {
		return fmt.Errorf("final row offset %d != nnz %d", m.RowOffsets[m.Rows], len(m.Values))
	}
	for r := 0; r < m.Rows; r++ {
		start, end := m.RowOffsets[r], m.RowOffsets[r+1]
		if start > end {
			return fmt.Errorf("row %d: decreasing offsets [%d, %d)", r, start, end)
		}
		for i := start + 1; i < end; i++ {
			if m.ColIndices[i] <= m.ColIndices[i-1] {
				return fmt.Errorf("row %d: column indices not strictly increasing at %d", r, i)
			}
		}
	}
	return nil
}

// FromCOO converts a coordinate entry list into a CSR block spanning the
// whole matrix. Duplicate (row, column) entries are summed.
//
// The entries slice is sorted in place.
func FromCOO(rows, cols int, entries []Entry) *CSR {
	return FromCOORange(cols, entries, 0, rows)
}

// FromCOORange converts entries restricted to the row range [rowStart,
// rowEnd) into a CSR block whose row indices are local to the range.
// globalCols is the matrix's global column count. Entries whose row falls
// outside the range are skipped; they should not occur when the
// distribution is correct.
//
// The entries slice is sorted in place.
func FromCOORange(globalCols int, entries []Entry, rowStart, rowEnd int) *CSR {
	numRows := rowEnd - rowStart
	if numRows < 0 {
		numRows = 0
	}

	m := &CSR{
		Rows:       numRows,
		Cols:       globalCols,
		RowOffsets: make([]int, numRows+1),
	}
	if len(entries) == 0 {
		return m
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Row != entries[j].Row {
			return entries[i].Row < entries[j].Row
		}
		return entries[i].Col < entries[j].Col
	})

	// Single scan: consecutive entries sharing (row, column) are merged
	// into one stored value, counting emitted entries per local row.
	i := 0
	for i < len(entries) {
		local := entries[i].Row - rowStart
		if local < 0 || local >= numRows {
			i++
			continue
		}

		for i < len(entries) && entries[i].Row-rowStart == local {
			col := entries[i].Col
			acc := entries[i].Val
			i++
			for i < len(entries) && entries[i].Row-rowStart == local && entries[i].Col == col {
				acc += entries[i].Val
				i++
			}
			m.ColIndices = append(m.ColIndices, col)
			m.Values = append(m.Values, acc)
			m.RowOffsets[local+1]++
		}
	}

	// Per-row counts into cumulative offsets.
	for r := 1; r <= numRows; r++ {
		m.RowOffsets[r] += m.RowOffsets[r-1]
	}

	return m
}
