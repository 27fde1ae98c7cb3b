package mtx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/spargo/sparse"
)

func TestWriteVector(t *testing.T) {
	var buf bytes.Buffer
	err := WriteVector(&buf, []float64{2, 0, -3.5, 1e-15}, DefaultZeroTolerance)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "%%MatrixMarket matrix coordinate real general", lines[0])
	assert.Equal(t, "4 1 2", lines[1])
	assert.Equal(t, "1 1 2", lines[2])
	assert.Equal(t, "3 1 -3.5", lines[3])
}

func TestWriteVectorAllZero(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVector(&buf, []float64{0, 0}, DefaultZeroTolerance))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2 1 0", lines[1])
}

func TestCountNonZeros(t *testing.T) {
	assert.Equal(t, 2, CountNonZeros([]float64{1, 0, -2, 1e-13}, 1e-12))
	assert.Equal(t, 0, CountNonZeros(nil, 1e-12))
}

func TestWriteReadRoundTrip(t *testing.T) {
	// Writing then re-reading reproduces the nonzero pattern and the
	// dense values.
	in := []float64{0.5, 0, -1.25, 0, 3e-4}

	var buf bytes.Buffer
	require.NoError(t, WriteVector(&buf, in, DefaultZeroTolerance))

	m, err := Read(&buf)
	require.NoError(t, err)
	require.Equal(t, 5, m.Rows)
	require.Equal(t, 1, m.Cols)

	want := sparse.PatternOf([]sparse.Entry{
		{Row: 0, Col: 0, Val: 1}, {Row: 2, Col: 0, Val: 1}, {Row: 4, Col: 0, Val: 1},
	})
	assert.True(t, want.Equals(sparse.PatternOf(m.Entries)))

	dense := m.DenseVector()
	require.Len(t, dense, 5)
	for i := range in {
		assert.InDelta(t, in[i], dense[i], 1e-12)
	}
}
