package hedge_test

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/krdhedge/bond"
	"github.com/meenmo/krdhedge/config"
	"github.com/meenmo/krdhedge/curve"
	"github.com/meenmo/krdhedge/hedge"
	"github.com/meenmo/krdhedge/risk"
)

var settle = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

func sampleCurve(t *testing.T) *curve.ZeroCurve {
	t.Helper()
	nss, err := curve.NewNelsonSiegelSvensson(0.030, -0.006, 0.004, 0.0, 1.5, 5.0)
	require.NoError(t, err)
	return curve.NewZeroCurve(nss)
}

func position(t *testing.T, name string, years int, coupon, notional float64) hedge.Position {
	t.Helper()
	b, err := bond.NewFixedRateBond(settle, settle.AddDate(years, 0, 0), coupon, 2, 100)
	require.NoError(t, err)
	return hedge.Position{Name: name, Notional: notional, Cashflows: b.TimedCashflows()}
}

func hedgers(t *testing.T) []hedge.Position {
	return []hedge.Position{
		position(t, "UST 2Y", 2, 0.03, 0),
		position(t, "UST 5Y", 5, 0.03, 0),
		position(t, "UST 10Y", 10, 0.03, 0),
	}
}

func TestBuild_FiveYearTargetAgainstBenchmarks(t *testing.T) {
	t.Parallel()

	zc := sampleCurve(t)
	target := position(t, "Corp 5Y 3.5", 5, 0.035, 1_000_000)

	res, err := hedge.Build(target, hedgers(t), zc.DiscountFactor, config.Default())
	require.NoError(t, err)

	assert.Equal(t, config.DefaultKeyGridYears(), res.Keys)
	require.Len(t, res.Target, len(res.Keys))
	require.Len(t, res.Legs, 3)
	require.Len(t, res.Residual, len(res.Keys))

	// The 2Y benchmark pays everything just before the first key: its column
	// is zero and the ridge pins its weight at zero.
	for _, v := range res.Legs[0].KeyRates {
		assert.Equal(t, 0.0, v)
	}
	assert.InDelta(t, 0.0, res.Legs[0].Weight, 1e-9)

	assert.Greater(t, res.Legs[1].Weight, 0.5)
	assert.Less(t, res.ResidualRatio, 0.5)
	assert.Greater(t, res.TargetDV01, 0.0)
	assert.Equal(t, []string{"UST 2Y", "UST 5Y", "UST 10Y"},
		[]string{res.Legs[0].Name, res.Legs[1].Name, res.Legs[2].Name})
}

func TestBuild_IdenticalHedgerIsRecovered(t *testing.T) {
	t.Parallel()

	zc := sampleCurve(t)
	target := position(t, "UST 5Y", 5, 0.03, 100)

	res, err := hedge.Build(target, hedgers(t), zc.DiscountFactor, config.Default())
	require.NoError(t, err)

	assert.InDelta(t, 1.0, res.Legs[1].Weight, 1e-3)
	assert.InDelta(t, 0.0, res.Legs[2].Weight, 1e-3)
	assert.Less(t, res.ResidualRatio, 1e-3)
}

func TestBuild_MatchesManualPipeline(t *testing.T) {
	t.Parallel()

	zc := sampleCurve(t)
	target := position(t, "Corp 5Y 3.5", 5, 0.035, 1)
	hs := hedgers(t)

	res, err := hedge.Build(target, hs, zc.DiscountFactor, config.Default())
	require.NoError(t, err)

	g, err := risk.NewKeyGrid(config.DefaultKeyGridYears())
	require.NoError(t, err)
	b, err := risk.KeyRateDV01(target.Cashflows, zc.DiscountFactor, g, config.DefaultBumpBP)
	require.NoError(t, err)
	cols := make([][]float64, len(hs))
	for j, h := range hs {
		cols[j], err = risk.KeyRateDV01(h.Cashflows, zc.DiscountFactor, g, config.DefaultBumpBP)
		require.NoError(t, err)
	}
	a, err := hedge.DesignMatrix(cols)
	require.NoError(t, err)
	w, err := hedge.LeastSquaresDefault(a, b)
	require.NoError(t, err)

	assert.Equal(t, b, res.Target)
	assert.InDeltaSlice(t, w, res.Weights(), 1e-12)
}

func TestBuild_NotionalsRoundedToCents(t *testing.T) {
	t.Parallel()

	zc := sampleCurve(t)
	target := position(t, "Corp 5Y 3.5", 5, 0.035, 12_345_678.91)

	res, err := hedge.Build(target, hedgers(t), zc.DiscountFactor, config.Default())
	require.NoError(t, err)

	for _, leg := range res.Legs {
		assert.Truef(t, leg.Notional.Equal(leg.Notional.Round(2)), "%s: %s", leg.Name, leg.Notional)
		want := leg.Weight * target.Notional
		assert.InDeltaf(t, want, leg.Notional.InexactFloat64(), 0.005+1e-6*math.Abs(want), "%s", leg.Name)
	}
	assert.True(t, res.Legs[0].Notional.Equal(decimal.Zero), "zero column, zero notional: %s", res.Legs[0].Notional)
}

func TestBuild_Preconditions(t *testing.T) {
	t.Parallel()

	zc := sampleCurve(t)
	target := position(t, "T", 5, 0.03, 1)

	_, err := hedge.Build(target, nil, zc.DiscountFactor, config.Default())
	assert.ErrorIs(t, err, hedge.ErrPrecondition)

	_, err = hedge.Build(target, hedgers(t), nil, config.Default())
	assert.ErrorIs(t, err, hedge.ErrPrecondition)
	assert.ErrorIs(t, err, risk.ErrNilDiscount)

	cfg := config.Default()
	cfg.Risk.KeyGridYears = []float64{5, 2}
	_, err = hedge.Build(target, hedgers(t), zc.DiscountFactor, cfg)
	assert.ErrorIs(t, err, hedge.ErrPrecondition)
	assert.ErrorIs(t, err, risk.ErrInvalidGrid)

	cfg = config.Default()
	cfg.Risk.KeyGridYears = nil
	_, err = hedge.Build(target, hedgers(t), zc.DiscountFactor, cfg)
	assert.ErrorIs(t, err, risk.ErrEmptyGrid)

	cfg = config.Default()
	cfg.Solver.RidgeLambda = -1
	_, err = hedge.Build(target, hedgers(t), zc.DiscountFactor, cfg)
	assert.ErrorIs(t, err, hedge.ErrPrecondition)
}

func TestBuild_GuardNonFinite(t *testing.T) {
	t.Parallel()

	nan := func(float64) float64 { return math.NaN() }
	cfg := config.Default()
	cfg.Risk.GuardNonFinite = true

	_, err := hedge.Build(position(t, "T", 5, 0.03, 1), hedgers(t), nan, cfg)
	assert.ErrorIs(t, err, hedge.ErrPrecondition)
	assert.ErrorIs(t, err, risk.ErrNonFinite)
}

func TestBuild_NaNDiscountPropagatesWithoutGuard(t *testing.T) {
	t.Parallel()

	zc := sampleCurve(t)
	df := func(tt float64) float64 {
		if tt > 9 {
			return math.NaN()
		}
		return zc.DiscountFactor(tt)
	}
	target := position(t, "Corp 5Y 3.5", 5, 0.035, 1_000_000)

	var (
		res hedge.Result
		err error
	)
	require.NotPanics(t, func() {
		res, err = hedge.Build(target, hedgers(t), df, config.Default())
	})
	require.NoError(t, err)

	// Only the 10Y bond pays beyond 9Y; its whole column is NaN.
	for _, v := range res.Legs[2].KeyRates {
		assert.True(t, math.IsNaN(v))
	}
	assert.True(t, math.IsNaN(res.Legs[2].Weight))
	for _, leg := range res.Legs {
		if math.IsNaN(leg.Weight) || math.IsInf(leg.Weight, 0) {
			assert.Truef(t, leg.Notional.IsZero(), "%s: %s", leg.Name, leg.Notional)
		}
	}
	assert.NoError(t, risk.CheckFinite("target", res.Target))
}

func TestBuild_DuplicateHedgersNeedRidge(t *testing.T) {
	t.Parallel()

	zc := sampleCurve(t)
	five := position(t, "UST 5Y", 5, 0.03, 0)
	target := position(t, "T", 5, 0.035, 1)

	cfg := config.Default()
	cfg.Solver.RidgeLambda = 0
	_, err := hedge.Build(target, []hedge.Position{five, five}, zc.DiscountFactor, cfg)
	assert.ErrorIs(t, err, hedge.ErrIllConditioned)

	res, err := hedge.Build(target, []hedge.Position{five, five}, zc.DiscountFactor, config.Default())
	require.NoError(t, err)
	assert.InDelta(t, res.Legs[0].Weight, res.Legs[1].Weight, 1e-6)
}
