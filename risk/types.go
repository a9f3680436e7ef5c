package risk

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyGrid is returned when a key grid has no maturities.
	ErrEmptyGrid = errors.New("risk: key grid is empty")

	// ErrInvalidGrid is returned for a key grid that is not strictly ascending,
	// or that contains a non-positive or non-finite maturity.
	ErrInvalidGrid = errors.New("risk: key grid must be positive, finite and strictly ascending")

	// ErrNonFinite is returned by CheckFinite when a value is NaN or ±Inf.
	ErrNonFinite = errors.New("risk: non-finite value")

	// ErrNilDiscount is returned when no discount function is supplied.
	ErrNilDiscount = errors.New("risk: nil discount function")
)

// bpPerUnit converts basis points to a decimal rate.
const bpPerUnit = 10000.0

// DiscountFunc maps a time in years to a discount factor.
type DiscountFunc func(t float64) float64

// Cashflow is a single payment at T years from settlement.
type Cashflow struct {
	T      float64
	Amount float64
}

// KeyGrid is a validated, strictly ascending set of key maturities in years.
// The zero value is an empty grid and is rejected by KeyRateDV01.
type KeyGrid struct {
	years []float64
}

// NewKeyGrid validates and copies years.
func NewKeyGrid(years []float64) (KeyGrid, error) {
	if len(years) == 0 {
		return KeyGrid{}, fmt.Errorf("NewKeyGrid: %w", ErrEmptyGrid)
	}
	for i, y := range years {
		if !(y > 0) || math.IsInf(y, 0) {
			return KeyGrid{}, fmt.Errorf("NewKeyGrid: key %d = %g: %w", i, y, ErrInvalidGrid)
		}
		if i > 0 && y <= years[i-1] {
			return KeyGrid{}, fmt.Errorf("NewKeyGrid: key %d = %g not above %g: %w", i, y, years[i-1], ErrInvalidGrid)
		}
	}
	out := make([]float64, len(years))
	copy(out, years)
	return KeyGrid{years: out}, nil
}

// Len returns the number of keys.
func (g KeyGrid) Len() int { return len(g.years) }

// At returns the k-th key maturity.
func (g KeyGrid) At(k int) float64 { return g.years[k] }

// Years returns a copy of the key maturities.
func (g KeyGrid) Years() []float64 {
	out := make([]float64, len(g.years))
	copy(out, g.years)
	return out
}

// CheckFinite returns ErrNonFinite if any element of v is NaN or ±Inf.
//
// The sensitivity code itself lets IEEE semantics propagate; this is the
// optional guard for callers who want a misbehaving curve to fail loudly.
func CheckFinite(name string, v []float64) error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%s[%d] = %g: %w", name, i, x, ErrNonFinite)
		}
	}
	return nil
}
