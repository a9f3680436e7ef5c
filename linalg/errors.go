package linalg

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when a requested shape is invalid (rows<=0 or cols<=0).
	ErrBadShape = errors.New("linalg: invalid shape")

	// ErrOutOfRange indicates a row or column index outside the matrix bounds.
	ErrOutOfRange = errors.New("linalg: index out of range")

	// ErrDimensionMismatch indicates incompatible operand dimensions,
	// e.g. a right-hand side whose length differs from the row count.
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")

	// ErrSingular is returned when the largest available pivot falls below
	// the pivot tolerance during elimination.
	ErrSingular = errors.New("linalg: matrix is singular or near-singular")
)

// linalgErrorf wraps err with an operation tag, keeping errors.Is intact.
func linalgErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
