package spargo

import (
	"errors"
	"fmt"
)

var (
	// ErrValidationFailed is the umbrella for operand validation errors.
	// Every rank returns an error matching it when the coordinator's
	// validation outcome broadcast reports failure.
	ErrValidationFailed = errors.New("validation failed")

	// ErrUsage indicates a malformed command line.
	ErrUsage = errors.New("usage error")
)

// ErrNotVector indicates the operand file is not a row or column vector.
type ErrNotVector struct {
	Rows int
	Cols int
}

func (e *ErrNotVector) Error() string {
	return fmt.Sprintf("operand is not a vector: %d x %d", e.Rows, e.Cols)
}

func (e *ErrNotVector) Unwrap() error { return ErrValidationFailed }

// ErrDimensionMismatch indicates the vector length does not match the
// matrix column count.
type ErrDimensionMismatch struct {
	MatrixCols int
	VectorLen  int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: matrix has %d columns, vector has length %d", e.MatrixCols, e.VectorLen)
}

func (e *ErrDimensionMismatch) Unwrap() error { return ErrValidationFailed }

// outcomeError rebuilds a validation error from a broadcast reason at
// a non-coordinator rank.
func outcomeError(reason string) error {
	if reason == "" {
		return ErrValidationFailed
	}
	return fmt.Errorf("%w: %s", ErrValidationFailed, reason)
}
