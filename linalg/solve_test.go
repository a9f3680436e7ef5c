package linalg_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/krdhedge/linalg"
)

func mustRows(t *testing.T, rows [][]float64) *linalg.Dense {
	t.Helper()
	m, err := linalg.NewDenseFromRows(rows)
	require.NoError(t, err)
	return m
}

func TestSolve_Known3x3(t *testing.T) {
	t.Parallel()

	// 2x + y - z = 8; -3x - y + 2z = -11; -2x + y + 2z = -3  =>  (2, 3, -1)
	a := mustRows(t, [][]float64{
		{2, 1, -1},
		{-3, -1, 2},
		{-2, 1, 2},
	})
	y := []float64{8, -11, -3}

	x, err := linalg.Solve(a, y, linalg.DefaultTolerance)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 3, -1}, x, 1e-12)
}

func TestSolve_NeedsRowSwap(t *testing.T) {
	t.Parallel()

	// Zero in the (0,0) position forces a pivot swap.
	a := mustRows(t, [][]float64{
		{0, 1},
		{1, 0},
	})
	x, err := linalg.Solve(a, []float64{5, 7}, linalg.DefaultTolerance)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{7, 5}, x, 1e-15)
}

func TestSolve_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	a := mustRows(t, [][]float64{
		{4, 1},
		{1, 3},
	})
	before := a.Clone()
	y := []float64{1, 2}

	_, err := linalg.Solve(a, y, linalg.DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, before.String(), a.String())
	assert.Equal(t, []float64{1, 2}, y)
}

func TestSolve_Singular(t *testing.T) {
	t.Parallel()

	a := mustRows(t, [][]float64{
		{1, 2},
		{2, 4},
	})
	x, err := linalg.Solve(a, []float64{1, 2}, linalg.DefaultTolerance)
	require.Error(t, err)
	assert.Nil(t, x)
	assert.True(t, errors.Is(err, linalg.ErrSingular))
}

func TestSolve_PivotToleranceIsConfigurable(t *testing.T) {
	t.Parallel()

	a := mustRows(t, [][]float64{{1e-10}})

	x, err := linalg.Solve(a, []float64{1e-10}, linalg.DefaultTolerance)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, x[0], 1e-12)

	_, err = linalg.Solve(a, []float64{1e-10}, linalg.Tolerance{Pivot: 1e-8, Skip: 1e-18})
	assert.ErrorIs(t, err, linalg.ErrSingular)
}

func TestSolve_DimensionErrors(t *testing.T) {
	t.Parallel()

	rect := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	_, err := linalg.Solve(rect, []float64{1, 2}, linalg.DefaultTolerance)
	assert.ErrorIs(t, err, linalg.ErrDimensionMismatch)

	sq := mustRows(t, [][]float64{{1, 0}, {0, 1}})
	_, err = linalg.Solve(sq, []float64{1, 2, 3}, linalg.DefaultTolerance)
	assert.ErrorIs(t, err, linalg.ErrDimensionMismatch)

	_, err = linalg.Solve(nil, nil, linalg.DefaultTolerance)
	assert.ErrorIs(t, err, linalg.ErrBadShape)
}

func TestDense_Construction(t *testing.T) {
	t.Parallel()

	_, err := linalg.NewDense(0, 3)
	assert.ErrorIs(t, err, linalg.ErrBadShape)

	m, err := linalg.NewDenseFromColumns([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 2, m.Cols())
	assert.Equal(t, 5.0, m.At(1, 1))
	assert.Equal(t, []float64{4, 5, 6}, m.Col(1))
	assert.Equal(t, []float64{3, 6}, m.Row(2))

	_, err = linalg.NewDenseFromColumns([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, linalg.ErrDimensionMismatch)

	assert.ErrorIs(t, m.Set(3, 0, 1), linalg.ErrOutOfRange)
	_, err = m.Get(0, 2)
	assert.ErrorIs(t, err, linalg.ErrOutOfRange)
	require.NoError(t, m.Set(0, 0, 9))
	assert.Equal(t, 9.0, m.At(0, 0))
}

func TestMatVecAndNorm(t *testing.T) {
	t.Parallel()

	m := mustRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	y, err := linalg.MatVec(m, []float64{1, -1})
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -1, -1}, y)

	_, err = linalg.MatVec(m, []float64{1})
	assert.ErrorIs(t, err, linalg.ErrDimensionMismatch)

	assert.InDelta(t, 5.0, linalg.Norm2([]float64{3, 4}), 1e-15)
}
