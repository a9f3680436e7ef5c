package curve

// ZeroCurve is the curve handle the rest of the library passes around. It
// hides the concrete model so NSS can be swapped for pillars (or anything
// else satisfying DiscountCurve) without touching callers.
type ZeroCurve struct {
	model DiscountCurve
}

// NewZeroCurve wraps model.
func NewZeroCurve(model DiscountCurve) *ZeroCurve {
	return &ZeroCurve{model: model}
}

func (z *ZeroCurve) ZeroRate(tYears float64) float64       { return z.model.ZeroRate(tYears) }
func (z *ZeroCurve) DiscountFactor(tYears float64) float64 { return z.model.DiscountFactor(tYears) }
