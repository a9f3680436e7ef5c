package curve

import (
	"fmt"
	"math"
)

// shortEndCutoff is the maturity below which the NSS limit β0 + β1 is used.
const shortEndCutoff = 1e-10

// NelsonSiegelSvensson is a parametric zero curve. Rates are decimals.
//
//	r(t) = β0
//	     + β1 · (1 − e^{−t/τ1}) / (t/τ1)
//	     + β2 · ((1 − e^{−t/τ1}) / (t/τ1) − e^{−t/τ1})
//	     + β3 · ((1 − e^{−t/τ2}) / (t/τ2) − e^{−t/τ2})
type NelsonSiegelSvensson struct {
	Beta0, Beta1, Beta2, Beta3 float64
	Tau1, Tau2                 float64
}

// NewNelsonSiegelSvensson validates the decay parameters.
func NewNelsonSiegelSvensson(beta0, beta1, beta2, beta3, tau1, tau2 float64) (*NelsonSiegelSvensson, error) {
	if !(tau1 > 0) || !(tau2 > 0) {
		return nil, fmt.Errorf("NewNelsonSiegelSvensson: tau1=%g tau2=%g: %w", tau1, tau2, ErrInvalidTau)
	}
	return &NelsonSiegelSvensson{
		Beta0: beta0, Beta1: beta1, Beta2: beta2, Beta3: beta3,
		Tau1: tau1, Tau2: tau2,
	}, nil
}

// ZeroRate returns r(t). As t → 0 the curve tends to β0 + β1.
func (n *NelsonSiegelSvensson) ZeroRate(tYears float64) float64 {
	if tYears <= shortEndCutoff {
		return n.Beta0 + n.Beta1
	}

	x1 := tYears / n.Tau1
	x2 := tYears / n.Tau2
	e1 := math.Exp(-x1)
	e2 := math.Exp(-x2)

	term1 := (1.0 - e1) / x1
	term2 := term1 - e1
	term3 := (1.0-e2)/x2 - e2

	return n.Beta0 + n.Beta1*term1 + n.Beta2*term2 + n.Beta3*term3
}

// DiscountFactor returns exp(−r(t)·t).
func (n *NelsonSiegelSvensson) DiscountFactor(tYears float64) float64 {
	return math.Exp(-n.ZeroRate(tYears) * tYears)
}
