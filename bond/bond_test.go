package bond_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/krdhedge/bond"
	"github.com/meenmo/krdhedge/curve"
	"github.com/meenmo/krdhedge/risk"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleCurve(t *testing.T) *curve.ZeroCurve {
	t.Helper()
	// ~3% long end with a mild hump.
	nss, err := curve.NewNelsonSiegelSvensson(0.030, -0.005, 0.004, 0.0, 1.5, 5.0)
	require.NoError(t, err)
	return curve.NewZeroCurve(nss)
}

func fiveYear(t *testing.T) *bond.FixedRateBond {
	t.Helper()
	b, err := bond.NewFixedRateBond(date(2025, 1, 2), date(2030, 1, 2), 0.03, 2, 100)
	require.NoError(t, err)
	return b
}

func TestCashflows_SemiannualSchedule(t *testing.T) {
	t.Parallel()

	cfs := fiveYear(t).Cashflows()
	require.Len(t, cfs, 10)

	assert.True(t, cfs[0].Date.Equal(date(2025, 7, 2)), "first coupon %s", cfs[0].Date)
	assert.True(t, cfs[9].Date.Equal(date(2030, 1, 2)))
	for _, cf := range cfs[:9] {
		assert.Equal(t, 1.5, cf.Coupon)
		assert.Equal(t, 0.0, cf.Principal)
	}
	assert.Equal(t, 101.5, cfs[9].Amount())
}

func TestCashflows_BrokenFirstPeriod(t *testing.T) {
	t.Parallel()

	// Settlement mid-period: the schedule still rolls off maturity.
	b, err := bond.NewFixedRateBond(date(2025, 3, 15), date(2027, 1, 31), 0.04, 4, 100)
	require.NoError(t, err)
	cfs := b.Cashflows()

	// Coupon dates are EDATE offsets of maturity, so the month-end roll is kept.
	require.Len(t, cfs, 8)
	assert.True(t, cfs[0].Date.Equal(date(2025, 4, 30)), "first coupon %s", cfs[0].Date)
	assert.True(t, cfs[1].Date.Equal(date(2025, 7, 31)), "second coupon %s", cfs[1].Date)
	assert.True(t, cfs[0].Date.After(b.Settlement))
	assert.True(t, cfs[len(cfs)-1].Date.Equal(b.Maturity))
	assert.Equal(t, 100.0, cfs[len(cfs)-1].Principal)
	for i := 1; i < len(cfs); i++ {
		assert.True(t, cfs[i].Date.After(cfs[i-1].Date))
	}
}

func TestNewFixedRateBond_Validation(t *testing.T) {
	t.Parallel()

	s := date(2025, 1, 2)
	cases := []struct {
		name      string
		maturity  time.Time
		coupon    float64
		frequency int
		face      float64
	}{
		{"maturity before settlement", date(2024, 1, 2), 0.03, 2, 100},
		{"maturity equals settlement", s, 0.03, 2, 100},
		{"zero frequency", date(2030, 1, 2), 0.03, 0, 100},
		{"frequency not dividing 12", date(2030, 1, 2), 0.03, 5, 100},
		{"negative coupon", date(2030, 1, 2), -0.01, 2, 100},
		{"zero face", date(2030, 1, 2), 0.03, 2, 0},
	}
	for _, tc := range cases {
		_, err := bond.NewFixedRateBond(s, tc.maturity, tc.coupon, tc.frequency, tc.face)
		assert.ErrorIsf(t, err, bond.ErrInvalidBond, "case %s", tc.name)
	}
}

func TestPrice_IsWithinReasonableRange(t *testing.T) {
	t.Parallel()

	p, err := fiveYear(t).Price(sampleCurve(t))
	require.NoError(t, err)
	assert.True(t, p > 80 && p < 120, "price %g", p)

	_, err = fiveYear(t).Price(nil)
	assert.ErrorIs(t, err, bond.ErrNilCurve)
}

func TestDV01_IsPositiveAndSensible(t *testing.T) {
	t.Parallel()

	dv01, err := fiveYear(t).DV01(sampleCurve(t), 1.0)
	require.NoError(t, err)
	assert.Greater(t, dv01, 0.0)
	assert.True(t, dv01 > 0.01 && dv01 < 1.50, "dv01 %g", dv01)
}

func TestDV01_ScalesApproximatelyLinearly(t *testing.T) {
	t.Parallel()

	zc := sampleCurve(t)
	b := fiveYear(t)
	full, err := b.DV01(zc, 1.0)
	require.NoError(t, err)
	half, err := b.DV01(zc, 0.5)
	require.NoError(t, err)

	assert.LessOrEqual(t, math.Abs(full-2*half), math.Max(0.002, 0.05*full))
}

func TestTimedCashflows_DropsPastPayments(t *testing.T) {
	t.Parallel()

	s := date(2025, 1, 2)
	cfs := []bond.Cashflow{
		{Date: date(2024, 7, 2), Coupon: 1.5},
		{Date: s, Coupon: 1.5},
		{Date: date(2026, 1, 2), Coupon: 1.5, Principal: 100},
	}
	timed := bond.TimedCashflows(s, cfs, bond.DayCount)
	require.Len(t, timed, 1)
	assert.InDelta(t, 365.0/365.25, timed[0].T, 1e-12)
	assert.Equal(t, 101.5, timed[0].Amount)
}

func TestYieldToMaturity_RoundTrip(t *testing.T) {
	t.Parallel()

	// Price a 5Y 3% semiannual on a flat 4% semiannual yield and recover it.
	cfs := make([]risk.Cashflow, 0, 10)
	for k := 1; k <= 10; k++ {
		amt := 1.5
		if k == 10 {
			amt += 100
		}
		cfs = append(cfs, risk.Cashflow{T: float64(k) / 2, Amount: amt})
	}
	price := 0.0
	for _, cf := range cfs {
		price += cf.Amount / math.Pow(1.02, 2*cf.T)
	}

	res, err := bond.YieldToMaturity(price, cfs, 2)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, res.Yield, 1e-8)
	assert.Greater(t, res.Iterations, 0)

	// A par bond yields its coupon.
	par, err := bond.YieldToMaturity(100, cfs, 2)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, par.Yield, 1e-8)
}

func TestYieldToMaturity_Errors(t *testing.T) {
	t.Parallel()

	_, err := bond.YieldToMaturity(100, nil, 2)
	assert.Error(t, err)
	_, err = bond.YieldToMaturity(100, []risk.Cashflow{{T: 1, Amount: 101}}, 0)
	assert.Error(t, err)
	_, err = bond.YieldToMaturity(-5, []risk.Cashflow{{T: 1, Amount: 101}}, 1)
	assert.Error(t, err)
}
