package mtx

import (
	"bufio"
	"fmt"
	"io"
	"math"
)

// DefaultZeroTolerance is the magnitude below which result values are
// treated as zero and omitted from written vectors.
const DefaultZeroTolerance = 1e-12

// CountNonZeros returns the number of values with magnitude above
// tolerance.
func CountNonZeros(values []float64, tolerance float64) int {
	count := 0
	for _, v := range values {
		if math.Abs(v) > tolerance {
			count++
		}
	}
	return count
}

// WriteVector writes a dense vector as an n x 1 coordinate matrix.
// Values with magnitude at or below tolerance are omitted; floating
// values are written with 12 significant digits.
func WriteVector(w io.Writer, values []float64, tolerance float64) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, "%%MatrixMarket matrix coordinate real general"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "%d 1 %d\n", len(values), CountNonZeros(values, tolerance)); err != nil {
		return err
	}

	for i, v := range values {
		if math.Abs(v) <= tolerance {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%d 1 %.12g\n", i+1, v); err != nil {
			return err
		}
	}

	return bw.Flush()
}
