// Package risk computes interest-rate sensitivities of cashflow streams:
// localized key-rate DV01s and the parallel DV01 they approximate.
package risk

import (
	"fmt"
	"math"
)

// TentWeight returns the weight of key k at time t.
//
//	prev = g[k-1] (g[0] for k = 0)      next = g[k+1] (g[last] for the last key)
//	t <= prev or t >= next    -> 0
//	prev < t <= g[k]          -> (t - prev) / (g[k] - prev)   (0 if the width is zero)
//	g[k] < t < next           -> (next - t) / (next - g[k])
//
// Interior keys get a full triangle. The neighbour of the first and last key
// clamps to the key itself, so the first key only has its falling half
// (weight 0 for every t <= g[0]) and the last key only its rising half
// (weight 0 at t == g[last]). Cashflows outside [g[0], g[last]] carry no
// key-rate risk at all. A k outside the grid, including any k on an empty
// grid, has weight 0.
func TentWeight(t float64, k int, g KeyGrid) float64 {
	m := g.Len()
	if k < 0 || k >= m {
		return 0
	}
	key := g.At(k)
	prev := g.At(0)
	if k > 0 {
		prev = g.At(k - 1)
	}
	next := g.At(m - 1)
	if k < m-1 {
		next = g.At(k + 1)
	}

	if t <= prev || t >= next {
		return 0
	}
	if t <= key {
		width := key - prev
		if width <= 0 {
			return 0
		}
		return (t - prev) / width
	}
	width := next - key
	if width <= 0 {
		return 0
	}
	return (next - t) / width
}

// KeyRateDV01 returns one sensitivity per key, in price units per bumpBp.
//
// For key k every cashflow's discount factor is shocked by the tent weight:
//
//	P±  = Σ cf · df(t) · exp(∓ δ · w_k(t) · t),   δ = bumpBp / 10000
//	KRD = (P(rates down) − P(rates up)) / 2
//
// This is a central difference under a localized shock, so the sum over keys
// only approximates ParallelDV01.
func KeyRateDV01(cfs []Cashflow, df DiscountFunc, g KeyGrid, bumpBp float64) ([]float64, error) {
	if g.Len() == 0 {
		return nil, fmt.Errorf("KeyRateDV01: %w", ErrEmptyGrid)
	}
	if df == nil {
		return nil, fmt.Errorf("KeyRateDV01: %w", ErrNilDiscount)
	}

	// df is read once per cashflow rather than once per key.
	pv := make([]float64, len(cfs))
	for i, cf := range cfs {
		pv[i] = cf.Amount * df(cf.T)
	}

	delta := bumpBp / bpPerUnit
	krd := make([]float64, g.Len())
	for k := range krd {
		var pUp, pDn float64
		for i, cf := range cfs {
			w := TentWeight(cf.T, k, g)
			pUp += pv[i] * math.Exp(-delta*w*cf.T)
			pDn += pv[i] * math.Exp(+delta*w*cf.T)
		}
		krd[k] = (pDn - pUp) / 2.0
	}
	return krd, nil
}

// ParallelDV01 is the sensitivity to a uniform shock of bumpBp on every
// cashflow time: (P(rates down) − P(rates up)) / 2 with weight 1 everywhere.
func ParallelDV01(cfs []Cashflow, df DiscountFunc, bumpBp float64) float64 {
	delta := bumpBp / bpPerUnit
	var pUp, pDn float64
	for _, cf := range cfs {
		v := cf.Amount * df(cf.T)
		pUp += v * math.Exp(-delta*cf.T)
		pDn += v * math.Exp(+delta*cf.T)
	}
	return (pDn - pUp) / 2.0
}

// PresentValue discounts cfs with df.
func PresentValue(cfs []Cashflow, df DiscountFunc) float64 {
	pv := 0.0
	for _, cf := range cfs {
		pv += cf.Amount * df(cf.T)
	}
	return pv
}
