package linalg

import (
	"fmt"
	"math"
)

// Tolerance holds the two thresholds of the elimination.
type Tolerance struct {
	// Pivot is the smallest acceptable |pivot|. A column whose best candidate
	// is below it makes the system singular for the solver.
	Pivot float64
	// Skip is the |factor| under which a row is left untouched when
	// eliminating a column; such entries are already zero for practical purposes.
	Skip float64
}

// DefaultTolerance is tuned for normal equations built from per-bp
// sensitivities (entries around 1e-6..1e-2).
var DefaultTolerance = Tolerance{
	Pivot: 1e-15,
	Skip:  1e-18,
}

// Solve returns x with a·x = y using Gauss–Jordan elimination with partial
// pivoting on an owned n×(n+1) augmented copy. Neither a nor y is modified.
//
// Every pivot row is normalised and its column is cleared from all other rows,
// above and below, so once the last pivot is processed the augmented column
// already holds x and no back substitution is needed.
func Solve(a *Dense, y []float64, tol Tolerance) ([]float64, error) {
	if a == nil {
		return nil, linalgErrorf("Solve", ErrBadShape)
	}
	n := a.r
	if a.c != n {
		return nil, linalgErrorf("Solve", fmt.Errorf("%dx%d is not square: %w", a.r, a.c, ErrDimensionMismatch))
	}
	if len(y) != n {
		return nil, linalgErrorf("Solve", fmt.Errorf("len(y)=%d, rows=%d: %w", len(y), n, ErrDimensionMismatch))
	}

	aug, err := augment(a, y)
	if err != nil {
		return nil, linalgErrorf("Solve", err)
	}
	w := n + 1 // row stride of the augmented buffer

	for k := 0; k < n; k++ {
		piv := k
		maxAbs := math.Abs(aug.data[k*w+k])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(aug.data[i*w+k]); v > maxAbs {
				maxAbs = v
				piv = i
			}
		}
		if maxAbs < tol.Pivot {
			return nil, linalgErrorf("Solve",
				fmt.Errorf("pivot %.3g in column %d below %.3g: %w", maxAbs, k, tol.Pivot, ErrSingular))
		}

		if piv != k {
			for j := k; j <= n; j++ {
				aug.data[k*w+j], aug.data[piv*w+j] = aug.data[piv*w+j], aug.data[k*w+j]
			}
		}

		diag := aug.data[k*w+k]
		for j := k; j <= n; j++ {
			aug.data[k*w+j] /= diag
		}

		for i := 0; i < n; i++ {
			if i == k {
				continue
			}
			factor := aug.data[i*w+k]
			if math.Abs(factor) < tol.Skip {
				continue
			}
			for j := k; j <= n; j++ {
				aug.data[i*w+j] -= factor * aug.data[k*w+j]
			}
		}
	}

	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = aug.data[i*w+n]
	}
	return x, nil
}

// augment builds [a | y] in a fresh buffer.
func augment(a *Dense, y []float64) (*Dense, error) {
	n := a.r
	aug, err := NewDense(n, n+1)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		copy(aug.data[i*(n+1):i*(n+1)+n], a.data[i*n:(i+1)*n])
		aug.data[i*(n+1)+n] = y[i]
	}
	return aug, nil
}
