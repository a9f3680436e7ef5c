package bond

import (
	"errors"
	"time"
)

var (
	// ErrInvalidBond is returned for bond terms that cannot produce a schedule.
	ErrInvalidBond = errors.New("bond: invalid terms")

	// ErrNilCurve is returned when a required curve argument is nil.
	ErrNilCurve = errors.New("bond: nil curve")
)

// Cashflow is a single dated cash payment for a bond.
//
// Amounts are in price units of the bond's face (e.g. per 100), not currency.
type Cashflow struct {
	Date      time.Time
	Coupon    float64
	Principal float64
}

func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}
