// Package bond generates cashflows for fixed-rate bullet bonds and values
// them on a curve.
package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/krdhedge/curve"
	"github.com/meenmo/krdhedge/risk"
	"github.com/meenmo/krdhedge/utils"
)

// DayCount is the year-fraction basis used to place cashflows on the curve.
const DayCount = utils.Act36525

// FixedRateBond is a bullet bond with regular coupons.
type FixedRateBond struct {
	Settlement time.Time
	Maturity   time.Time
	Coupon     float64 // annual rate in decimal, e.g. 0.03
	Frequency  int     // payments per year, e.g. 2
	Face       float64 // typically 100
}

// NewFixedRateBond validates the terms. Frequency must divide 12 so that the
// schedule steps in whole months.
func NewFixedRateBond(settlement, maturity time.Time, coupon float64, frequency int, face float64) (*FixedRateBond, error) {
	settlement = truncateDay(settlement)
	maturity = truncateDay(maturity)

	if !maturity.After(settlement) {
		return nil, fmt.Errorf("NewFixedRateBond: maturity (%s) must be after settlement (%s): %w",
			maturity.Format(utils.DateLayout), settlement.Format(utils.DateLayout), ErrInvalidBond)
	}
	if frequency <= 0 || 12%frequency != 0 {
		return nil, fmt.Errorf("NewFixedRateBond: frequency %d must be a positive divisor of 12: %w", frequency, ErrInvalidBond)
	}
	if coupon < 0 {
		return nil, fmt.Errorf("NewFixedRateBond: coupon %g cannot be negative: %w", coupon, ErrInvalidBond)
	}
	if !(face > 0) {
		return nil, fmt.Errorf("NewFixedRateBond: face %g must be positive: %w", face, ErrInvalidBond)
	}
	return &FixedRateBond{
		Settlement: settlement,
		Maturity:   maturity,
		Coupon:     coupon,
		Frequency:  frequency,
		Face:       face,
	}, nil
}

// Cashflows returns the payment schedule strictly after settlement, ending
// at maturity. Intermediate payments are coupon only; the last one carries
// coupon plus principal.
//
// Coupon dates roll backwards from maturity: the j-th date before maturity is
// EDATE(maturity, −j·12/Frequency). Offsetting from maturity each time (not
// from the previous date) keeps month-end bonds on month-end.
func (b *FixedRateBond) Cashflows() []Cashflow {
	months := 12 / b.Frequency

	n := 0 // coupon dates strictly between settlement and maturity
	for utils.AddMonth(b.Maturity, -(n+1)*months).After(b.Settlement) {
		n++
	}

	cpn := b.Face * b.Coupon / float64(b.Frequency)
	out := make([]Cashflow, 0, n+1)
	for j := n; j >= 1; j-- {
		out = append(out, Cashflow{Date: utils.AddMonth(b.Maturity, -j*months), Coupon: cpn})
	}
	return append(out, Cashflow{Date: b.Maturity, Coupon: cpn, Principal: b.Face})
}

// TimedCashflows places the schedule on the curve's time axis.
func (b *FixedRateBond) TimedCashflows() []risk.Cashflow {
	return TimedCashflows(b.Settlement, b.Cashflows(), DayCount)
}

// Price is the present value per Face on c.
func (b *FixedRateBond) Price(c curve.DiscountCurve) (float64, error) {
	if c == nil {
		return 0, fmt.Errorf("Price: %w", ErrNilCurve)
	}
	return Price(b.TimedCashflows(), c), nil
}

// DV01 is the price change for a true parallel shift of bumpBp:
// r(t) ± δ  =>  DF(t)·exp(∓δt), reported as (P(−) − P(+)) / 2.
func (b *FixedRateBond) DV01(c curve.DiscountCurve, bumpBp float64) (float64, error) {
	if c == nil {
		return 0, fmt.Errorf("DV01: %w", ErrNilCurve)
	}
	return risk.ParallelDV01(b.TimedCashflows(), c.DiscountFactor, bumpBp), nil
}

// TimedCashflows converts dated cashflows to (years, amount) pairs relative
// to settlement. Payments on or before settlement are dropped.
func TimedCashflows(settlement time.Time, cfs []Cashflow, dayCount string) []risk.Cashflow {
	out := make([]risk.Cashflow, 0, len(cfs))
	for _, cf := range cfs {
		t := utils.YearFraction(settlement, cf.Date, dayCount)
		if t > 0 {
			out = append(out, risk.Cashflow{T: t, Amount: cf.Amount()})
		}
	}
	return out
}

// Price discounts timed cashflows on c.
func Price(cfs []risk.Cashflow, c curve.DiscountCurve) float64 {
	return risk.PresentValue(cfs, c.DiscountFactor)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
