package curve

import (
	"fmt"
	"math"
	"sort"
)

// Pillar is a discount factor observed at T years.
type Pillar struct {
	T  float64 `json:"t"`
	DF float64 `json:"df"`
}

// PillarCurve interpolates discount factors log-linearly in time between
// pillars (piecewise flat forwards). An implicit pillar (0, 1) anchors the
// front; beyond the last pillar the last segment's forward rate is extended.
type PillarCurve struct {
	times []float64
	dfs   []float64
}

// NewPillarCurve validates and copies pillars. Times must be positive and
// strictly ascending; discount factors positive and finite.
func NewPillarCurve(pillars []Pillar) (*PillarCurve, error) {
	if len(pillars) == 0 {
		return nil, fmt.Errorf("NewPillarCurve: no pillars: %w", ErrInvalidPillars)
	}
	times := make([]float64, 0, len(pillars)+1)
	dfs := make([]float64, 0, len(pillars)+1)
	times = append(times, 0)
	dfs = append(dfs, 1)
	for i, p := range pillars {
		if !(p.T > 0) || math.IsInf(p.T, 0) {
			return nil, fmt.Errorf("NewPillarCurve: pillar %d time %g: %w", i, p.T, ErrInvalidPillars)
		}
		if p.T <= times[len(times)-1] {
			return nil, fmt.Errorf("NewPillarCurve: pillar %d time %g not ascending: %w", i, p.T, ErrInvalidPillars)
		}
		if !(p.DF > 0) || math.IsInf(p.DF, 0) {
			return nil, fmt.Errorf("NewPillarCurve: pillar %d df %g: %w", i, p.DF, ErrInvalidPillars)
		}
		times = append(times, p.T)
		dfs = append(dfs, p.DF)
	}
	return &PillarCurve{times: times, dfs: dfs}, nil
}

// DiscountFactor returns the log-linearly interpolated discount factor.
func (c *PillarCurve) DiscountFactor(tYears float64) float64 {
	if tYears <= 0 {
		return 1.0
	}
	i1, i2 := c.bracket(tYears)
	t1, t2 := c.times[i1], c.times[i2]
	df1, df2 := c.dfs[i1], c.dfs[i2]

	forwardRate := math.Log(df1/df2) / (t2 - t1)
	return df1 * math.Exp(-forwardRate*(tYears-t1))
}

// ZeroRate returns the continuously compounded zero rate −ln(DF)/t. At the
// short end it returns the first segment's forward rate.
func (c *PillarCurve) ZeroRate(tYears float64) float64 {
	if tYears <= shortEndCutoff {
		return math.Log(c.dfs[0]/c.dfs[1]) / (c.times[1] - c.times[0])
	}
	return -math.Log(c.DiscountFactor(tYears)) / tYears
}

// bracket returns indices i1 < i2 with times[i1] < t <= times[i2], or the
// last pair when t is beyond the final pillar.
func (c *PillarCurve) bracket(t float64) (int, int) {
	n := len(c.times)
	idx := sort.SearchFloat64s(c.times, t) // first index with times[idx] >= t
	if idx <= 0 {
		return 0, 1
	}
	if idx >= n {
		return n - 2, n - 1
	}
	return idx - 1, idx
}
