package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohana-garden/soulkiln/matrix"
)

func mustDense(t *testing.T, rows, cols int, values ...float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(rows, cols)
	require.NoError(t, err)
	require.Len(t, values, rows*cols)
	for i, v := range values {
		require.NoError(t, m.Set(i/cols, i%cols, v))
	}
	return m
}

func TestNewDense_RejectsNonPositiveDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 3)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.NewDense(2, -1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestDense_AtSetBounds(t *testing.T) {
	m := mustDense(t, 2, 2, 1, 2, 3, 4)

	v, err := m.At(1, 0)
	require.NoError(t, err)
	require.Equal(t, 3.0, v)

	_, err = m.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrIndexOutOfBounds)
	require.ErrorIs(t, m.Set(0, 2, 9), matrix.ErrIndexOutOfBounds)
}

func TestDense_CloneIsIndependent(t *testing.T) {
	m := mustDense(t, 1, 3, 1, 2, 3)
	cp := m.Clone()
	require.NoError(t, cp.Set(0, 0, 99))

	orig, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, orig)
}

func TestAddSub_Elementwise(t *testing.T) {
	a := mustDense(t, 2, 2, 1, 2, 3, 4)
	b := mustDense(t, 2, 2, 10, 20, 30, 40)

	sum, err := matrix.Add(a, b)
	require.NoError(t, err)
	v, err := sum.At(1, 1)
	require.NoError(t, err)
	require.Equal(t, 44.0, v)

	diff, err := matrix.Sub(b, a)
	require.NoError(t, err)
	v, err = diff.At(0, 1)
	require.NoError(t, err)
	require.Equal(t, 18.0, v)
}

func TestAdd_DimensionMismatch(t *testing.T) {
	a := mustDense(t, 2, 2, 1, 2, 3, 4)
	b := mustDense(t, 1, 2, 1, 2)
	_, err := matrix.Add(a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestScale_ProducesFreshMatrix(t *testing.T) {
	a := mustDense(t, 1, 3, 1, 2, 3)
	scaled, err := matrix.Scale(a, 0.5)
	require.NoError(t, err)

	v, err := scaled.At(0, 2)
	require.NoError(t, err)
	require.Equal(t, 1.5, v)

	// Operand untouched.
	v, err = a.At(0, 2)
	require.NoError(t, err)
	require.Equal(t, 3.0, v)
}

func TestMatVec(t *testing.T) {
	m := mustDense(t, 2, 3,
		1, 0, 2,
		0, 1, 1)
	out, err := matrix.MatVec(m, []float64{3, 4, 5})
	require.NoError(t, err)
	require.Equal(t, []float64{13, 9}, out)

	_, err = matrix.MatVec(m, []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestNormalizeRowsL2(t *testing.T) {
	m := mustDense(t, 2, 2,
		3, 4,
		0, 0)
	normalized, norms, err := matrix.NormalizeRowsL2(m)
	require.NoError(t, err)
	require.InDelta(t, 5.0, norms[0], 1e-12)
	require.Equal(t, 0.0, norms[1])

	v, err := normalized.At(0, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.6, v, 1e-12)
	v, err = normalized.At(0, 1)
	require.NoError(t, err)
	require.InDelta(t, 0.8, v, 1e-12)

	// Degenerate row is left unchanged.
	v, err = normalized.At(1, 0)
	require.NoError(t, err)
	require.Equal(t, 0.0, v)
}
