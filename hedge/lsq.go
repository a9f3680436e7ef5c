// Package hedge finds hedge weights that minimise the mismatch between a
// target key-rate profile and a weighted combination of hedging instruments.
package hedge

import (
	"errors"
	"fmt"
	"math"

	"github.com/meenmo/krdhedge/config"
	"github.com/meenmo/krdhedge/linalg"
)

// NormalEquations builds (AᵀA + λI) and Aᵀb.
//
//	AtA[i,j] = Σ_r A[r,i]·A[r,j]    (i ≤ j, mirrored)
//	AtA[i,i] += λ
//	Atb[i]   = Σ_r A[r,i]·b[r]
//
// This squares the condition number of A, which is acceptable for a handful
// of hedging instruments; the ridge term keeps the system positive definite.
func NormalEquations(a *linalg.Dense, b []float64, ridgeLambda float64) (*linalg.Dense, []float64, error) {
	if a == nil {
		return nil, nil, fmt.Errorf("NormalEquations: nil design matrix: %w: %w", ErrPrecondition, linalg.ErrBadShape)
	}
	m, n := a.Rows(), a.Cols()
	if len(b) != m {
		return nil, nil, fmt.Errorf("NormalEquations: len(b)=%d, rows=%d: %w: %w",
			len(b), m, ErrPrecondition, linalg.ErrDimensionMismatch)
	}
	if math.IsNaN(ridgeLambda) || ridgeLambda < 0 {
		return nil, nil, fmt.Errorf("NormalEquations: ridge lambda %g must be >= 0: %w", ridgeLambda, ErrPrecondition)
	}

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
	}
	atb := make([]float64, n)

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sum := 0.0
			for r := 0; r < m; r++ {
				sum += a.At(r, i) * a.At(r, j)
			}
			rows[i][j] = sum
			rows[j][i] = sum
		}
		rows[i][i] += ridgeLambda

		s := 0.0
		for r := 0; r < m; r++ {
			s += a.At(r, i) * b[r]
		}
		atb[i] = s
	}

	ata, err := linalg.NewDenseFromRows(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("NormalEquations: %w: %w", ErrPrecondition, err)
	}
	return ata, atb, nil
}

// LeastSquares solves min_w ‖A·w − b‖² + λ‖w‖² with the default elimination
// thresholds. A is m×n (rows = keys, columns = hedging instruments).
func LeastSquares(a *linalg.Dense, b []float64, ridgeLambda float64) ([]float64, error) {
	return LeastSquaresWith(a, b, ridgeLambda, linalg.DefaultTolerance)
}

// LeastSquaresDefault is LeastSquares with config.DefaultRidgeLambda.
func LeastSquaresDefault(a *linalg.Dense, b []float64) ([]float64, error) {
	return LeastSquares(a, b, config.DefaultRidgeLambda)
}

// LeastSquaresWith is LeastSquares with explicit elimination thresholds.
func LeastSquaresWith(a *linalg.Dense, b []float64, ridgeLambda float64, tol linalg.Tolerance) ([]float64, error) {
	ata, atb, err := NormalEquations(a, b, ridgeLambda)
	if err != nil {
		return nil, err
	}
	w, err := linalg.Solve(ata, atb, tol)
	if err != nil {
		if errors.Is(err, linalg.ErrSingular) {
			return nil, fmt.Errorf("LeastSquares: ridge %g: %w: %w", ridgeLambda, ErrIllConditioned, err)
		}
		return nil, fmt.Errorf("LeastSquares: %w: %w", ErrPrecondition, err)
	}
	return w, nil
}

// Residual returns A·w − b.
func Residual(a *linalg.Dense, w, b []float64) ([]float64, error) {
	aw, err := linalg.MatVec(a, w)
	if err != nil {
		return nil, fmt.Errorf("Residual: %w: %w", ErrPrecondition, err)
	}
	if len(b) != len(aw) {
		return nil, fmt.Errorf("Residual: len(b)=%d, rows=%d: %w: %w",
			len(b), len(aw), ErrPrecondition, linalg.ErrDimensionMismatch)
	}
	for i := range aw {
		aw[i] -= b[i]
	}
	return aw, nil
}

// ResidualRatio is ‖residual‖ / max(1e-12, ‖target‖).
func ResidualRatio(residual, target []float64) float64 {
	return linalg.Norm2(residual) / math.Max(1e-12, linalg.Norm2(target))
}
