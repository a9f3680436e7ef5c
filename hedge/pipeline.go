package hedge

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/meenmo/krdhedge/config"
	"github.com/meenmo/krdhedge/linalg"
	"github.com/meenmo/krdhedge/risk"
)

// notionalPlaces is the rounding of reported hedge notionals (cents).
const notionalPlaces = 2

// Position is an instrument reduced to what the pipeline needs.
//
// Cashflows are per unit of the instrument's quoted face (e.g. per 100), so
// key-rate vectors of target and hedgers are directly comparable and a weight
// of 1 means "same face amount as the target".
type Position struct {
	Name      string
	Notional  float64
	Cashflows []risk.Cashflow
}

// Leg is one solved hedge instrument.
type Leg struct {
	Name     string
	KeyRates []float64
	Weight   float64
	// Notional is Weight × target notional, rounded to cents.
	Notional decimal.Decimal
}

// Result is the output of Build.
type Result struct {
	Keys          []float64
	Target        []float64
	TargetDV01    float64
	Legs          []Leg
	Residual      []float64 // A·w − b, per key
	ResidualRatio float64   // ‖Residual‖ / ‖Target‖
}

// Weights returns the solved weight vector in leg order.
func (r Result) Weights() []float64 {
	w := make([]float64, len(r.Legs))
	for i, leg := range r.Legs {
		w[i] = leg.Weight
	}
	return w
}

// DesignMatrix stacks sensitivity vectors as columns: rows = keys, columns = instruments.
func DesignMatrix(vectors [][]float64) (*linalg.Dense, error) {
	a, err := linalg.NewDenseFromColumns(vectors)
	if err != nil {
		return nil, fmt.Errorf("DesignMatrix: %w: %w", ErrPrecondition, err)
	}
	return a, nil
}

// Build runs the whole hedge: key-rate vectors for the target and every hedger
// on cfg's grid, the design matrix, the ridge solve and the residual report.
func Build(target Position, hedgers []Position, df risk.DiscountFunc, cfg config.Config) (Result, error) {
	if len(hedgers) == 0 {
		return Result{}, fmt.Errorf("Build: no hedging instruments: %w", ErrPrecondition)
	}
	if df == nil {
		return Result{}, fmt.Errorf("Build: %w: %w", ErrPrecondition, risk.ErrNilDiscount)
	}
	grid, err := risk.NewKeyGrid(cfg.Risk.KeyGridYears)
	if err != nil {
		return Result{}, fmt.Errorf("Build: %w: %w", ErrPrecondition, err)
	}
	bump := cfg.Risk.BumpBP

	b, err := keyRates(target, df, grid, bump, cfg.Risk.GuardNonFinite)
	if err != nil {
		return Result{}, err
	}

	// Each hedger reads only shared immutable inputs and writes its own slot.
	columns := make([][]float64, len(hedgers))
	var g errgroup.Group
	for j := range hedgers {
		g.Go(func() error {
			v, err := keyRates(hedgers[j], df, grid, bump, cfg.Risk.GuardNonFinite)
			if err != nil {
				return err
			}
			columns[j] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	a, err := DesignMatrix(columns)
	if err != nil {
		return Result{}, err
	}
	tol := linalg.Tolerance{Pivot: cfg.Solver.PivotTolerance, Skip: cfg.Solver.SkipTolerance}
	w, err := LeastSquaresWith(a, b, cfg.Solver.RidgeLambda, tol)
	if err != nil {
		return Result{}, fmt.Errorf("Build: %w", err)
	}
	residual, err := Residual(a, w, b)
	if err != nil {
		return Result{}, fmt.Errorf("Build: %w", err)
	}

	legs := make([]Leg, len(hedgers))
	for j, h := range hedgers {
		legs[j] = Leg{
			Name:     h.Name,
			KeyRates: columns[j],
			Weight:   w[j],
			Notional: legNotional(w[j], target.Notional),
		}
	}

	return Result{
		Keys:          grid.Years(),
		Target:        b,
		TargetDV01:    risk.ParallelDV01(target.Cashflows, df, bump),
		Legs:          legs,
		Residual:      residual,
		ResidualRatio: ResidualRatio(residual, b),
	}, nil
}

// legNotional is weight × notional in cents. A non-finite weight (a NaN
// discount factor propagated through the solve) has no decimal form and
// yields zero; the weight itself keeps the NaN.
func legNotional(weight, notional float64) decimal.Decimal {
	if !isFinite(weight) || !isFinite(notional) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(weight).Mul(decimal.NewFromFloat(notional)).Round(notionalPlaces)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func keyRates(p Position, df risk.DiscountFunc, grid risk.KeyGrid, bump float64, guard bool) ([]float64, error) {
	v, err := risk.KeyRateDV01(p.Cashflows, df, grid, bump)
	if err != nil {
		return nil, fmt.Errorf("Build: %s: %w: %w", p.Name, ErrPrecondition, err)
	}
	if guard {
		if err := risk.CheckFinite(p.Name, v); err != nil {
			return nil, fmt.Errorf("Build: %w: %w", ErrPrecondition, err)
		}
	}
	return v, nil
}
