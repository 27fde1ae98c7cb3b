package mtx

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/spargo/sparse"
)

// ErrInvalid is returned when a stream is not a readable coordinate
// matrix (missing header or dimensions line).
var ErrInvalid = errors.New("mtx: invalid matrix file")

// Matrix is an ingested coordinate matrix: global dimensions plus the
// explicit nonzero entries, zero-based.
type Matrix struct {
	Rows    int
	Cols    int
	Entries []sparse.Entry
}

// IsVector reports whether the matrix is a row or column vector.
func (m *Matrix) IsVector() bool {
	return m.Rows == 1 || m.Cols == 1
}

// VectorLen returns the logical length when the matrix is a vector, or
// -1 otherwise. A 1x1 matrix counts as a column vector of length 1.
func (m *Matrix) VectorLen() int {
	switch {
	case m.Cols == 1:
		return m.Rows
	case m.Rows == 1:
		return m.Cols
	default:
		return -1
	}
}

// DenseVector materializes a vector matrix as a dense slice, summing
// duplicate entries. Entries outside the vector range are ignored.
// Returns nil when the matrix is not a vector.
func (m *Matrix) DenseVector() []float64 {
	n := m.VectorLen()
	if n < 0 {
		return nil
	}
	dense := make([]float64, n)
	for _, e := range m.Entries {
		idx := e.Row
		if m.Cols != 1 {
			idx = e.Col
		}
		if idx >= 0 && idx < n {
			dense[idx] += e.Val
		}
	}
	return dense
}

type header struct {
	pattern   bool
	symmetric bool
}

func parseHeader(line string) header {
	fields := strings.Fields(line)
	if len(fields) < 5 || fields[0] != "%%MatrixMarket" {
		return header{}
	}
	return header{
		pattern:   fields[3] == "pattern",
		symmetric: fields[4] == "symmetric" || fields[4] == "hermitian",
	}
}

// Read parses a coordinate matrix from r.
//
// The declared nonzero count drives the read loop: exactly that many
// well-formed entry lines are consumed. Symmetric mirroring adds extra
// entries beyond the declared count, and lines that fail to parse or
// carry negative indices are skipped without counting.
func Read(r io.Reader) (*Matrix, error) {
	sc := bufio.NewScanner(r)

	// Format declaration line.
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("mtx: read header: %w", err)
		}
		return nil, fmt.Errorf("%w: missing header line", ErrInvalid)
	}
	hdr := parseHeader(sc.Text())

	// Skip comments until the dimensions line.
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line[0] == '%' {
			continue
		}

		var rows, cols, declared int
		if _, err := fmt.Sscan(line, &rows, &cols, &declared); err != nil {
			continue
		}

		m := &Matrix{Rows: rows, Cols: cols}
		if declared > 0 {
			m.Entries = make([]sparse.Entry, 0, declared)
		}
		if err := readEntries(sc, declared, hdr, m); err != nil {
			return nil, err
		}
		return m, nil
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mtx: %w", err)
	}
	return nil, fmt.Errorf("%w: missing dimensions line", ErrInvalid)
}

func readEntries(sc *bufio.Scanner, declared int, hdr header, m *Matrix) error {
	for read := 0; read < declared; {
		if !sc.Scan() {
			break
		}
		line := sc.Text()
		if line == "" || line[0] == '%' {
			continue
		}

		var row, col int
		val := 1.0
		if hdr.pattern {
			if _, err := fmt.Sscan(line, &row, &col); err != nil {
				continue
			}
		} else {
			if _, err := fmt.Sscan(line, &row, &col, &val); err != nil {
				continue
			}
		}

		// Convert to zero-based indexing.
		row--
		col--
		if row < 0 || col < 0 {
			continue
		}

		m.Entries = append(m.Entries, sparse.Entry{Row: row, Col: col, Val: val})
		if hdr.symmetric && row != col {
			m.Entries = append(m.Entries, sparse.Entry{Row: col, Col: row, Val: val})
		}
		read++
	}
	return sc.Err()
}
