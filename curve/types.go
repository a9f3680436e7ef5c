package curve

import "errors"

var (
	// ErrInvalidTau is returned when a Nelson–Siegel–Svensson decay is not positive.
	ErrInvalidTau = errors.New("curve: tau1 and tau2 must be positive")

	// ErrInvalidPillars is returned for pillar sets that are empty, unsorted,
	// or carry non-positive times or discount factors.
	ErrInvalidPillars = errors.New("curve: invalid pillars")
)

// DiscountCurve provides continuously compounded zero rates and discount
// factors on a year-fraction time axis measured from settlement.
type DiscountCurve interface {
	DiscountFactor(tYears float64) float64
	ZeroRate(tYears float64) float64
}

// DiscountFunc adapts c to the plain function form used by the risk package.
func DiscountFunc(c DiscountCurve) func(float64) float64 {
	return c.DiscountFactor
}
