package bond

import (
	"fmt"
	"math"

	"github.com/meenmo/krdhedge/risk"
)

// YieldResult is the output of YieldToMaturity.
type YieldResult struct {
	// Yield is the annualised yield in percent, compounded Frequency times a year.
	Yield float64
	// Iterations is the number of Newton-Raphson steps taken.
	Iterations int
}

// YieldToMaturity solves for the periodically compounded yield y such that
//
//	price = Σ CF_k / (1 + y/f)^(f·t_k)
//
// where t_k are the cashflow times in years and f the compounding frequency.
// The solver uses Newton-Raphson with analytic first derivative.
func YieldToMaturity(price float64, cfs []risk.Cashflow, frequency int) (YieldResult, error) {
	if len(cfs) == 0 {
		return YieldResult{}, fmt.Errorf("YieldToMaturity: Cashflows are required")
	}
	if frequency <= 0 {
		return YieldResult{}, fmt.Errorf("YieldToMaturity: frequency must be positive")
	}
	if !(price > 0) {
		return YieldResult{}, fmt.Errorf("YieldToMaturity: price must be positive, got %g", price)
	}

	y, iterations, err := solveYield(price, cfs, float64(frequency))
	if err != nil {
		return YieldResult{}, err
	}
	return YieldResult{
		Yield:      y * 100.0, // decimal → percent
		Iterations: iterations,
	}, nil
}

// ---------------------------------------------------------------------------
// Newton-Raphson solver (unexported)
// ---------------------------------------------------------------------------

const (
	yieldTolerance = 1e-12
	yieldMaxIter   = 100
	yieldFloor     = -0.05
	yieldCeiling   = 0.50
)

// solveYield finds y such that priceAndDeriv(y) == target via Newton-Raphson.
func solveYield(target float64, cfs []risk.Cashflow, f float64) (float64, int, error) {
	// Initial guess: mid-range (2.5 %).
	y := 0.025
	y = clamp(y, yieldFloor, yieldCeiling)

	for iter := 0; iter < yieldMaxIter; iter++ {
		price, dPdy := priceAndDeriv(y, cfs, f)
		diff := price - target

		if math.Abs(diff) < yieldTolerance {
			return y, iter + 1, nil
		}
		if math.Abs(dPdy) < 1e-15 {
			return y, iter + 1, fmt.Errorf("YieldToMaturity: derivative too small at iter %d", iter)
		}

		y = clamp(y-diff/dPdy, yieldFloor, yieldCeiling)
	}

	return y, yieldMaxIter, fmt.Errorf("YieldToMaturity: did not converge after %d iterations", yieldMaxIter)
}

// priceAndDeriv returns (price, dPrice/dy).
//
//	price = Σ CF_k · (1 + y/f)^(−f·t_k)
//	dP/dy = Σ −t_k · CF_k · (1 + y/f)^(−f·t_k − 1)
func priceAndDeriv(y float64, cfs []risk.Cashflow, f float64) (float64, float64) {
	base := 1.0 + y/f
	var price, deriv float64
	for _, cf := range cfs {
		n := f * cf.T
		price += cf.Amount * math.Pow(base, -n)
		deriv += -cf.T * cf.Amount * math.Pow(base, -n-1)
	}
	return price, deriv
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
