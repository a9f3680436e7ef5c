package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/meenmo/krdhedge/bond"
	"github.com/meenmo/krdhedge/config"
	"github.com/meenmo/krdhedge/curve"
	"github.com/meenmo/krdhedge/instruments/bonds"
	"github.com/meenmo/krdhedge/risk"
	"github.com/meenmo/krdhedge/utils"
)

// defaultFace is used when an instrument omits face.
const defaultFace = 100.0

type curveJSON struct {
	NSS     *nssJSON       `json:"nss,omitempty"`
	Pillars []curve.Pillar `json:"pillars,omitempty"`
}

type nssJSON struct {
	Beta0 float64 `json:"beta0"`
	Beta1 float64 `json:"beta1"`
	Beta2 float64 `json:"beta2"`
	Beta3 float64 `json:"beta3"`
	Tau1  float64 `json:"tau1"`
	Tau2  float64 `json:"tau2"`
}

func (c curveJSON) build() (curve.DiscountCurve, error) {
	switch {
	case c.NSS != nil && len(c.Pillars) > 0:
		return nil, fmt.Errorf("curve: give either nss or pillars, not both")
	case c.NSS != nil:
		n := c.NSS
		nss, err := curve.NewNelsonSiegelSvensson(n.Beta0, n.Beta1, n.Beta2, n.Beta3, n.Tau1, n.Tau2)
		if err != nil {
			return nil, err
		}
		return curve.NewZeroCurve(nss), nil
	case len(c.Pillars) > 0:
		pc, err := curve.NewPillarCurve(c.Pillars)
		if err != nil {
			return nil, err
		}
		return curve.NewZeroCurve(pc), nil
	default:
		return nil, fmt.Errorf("curve: nss or pillars is required")
	}
}

type cashflowJSON struct {
	Date      string `json:"date"`
	Coupon    int64  `json:"coupon"`
	Principal int64  `json:"principal"`
}

// instrumentJSON is either a fixed-rate bond described by its terms or an
// explicit cashflow schedule in cents.
type instrumentJSON struct {
	Name         string         `json:"name"`
	MaturityDate string         `json:"maturity_date,omitempty"`
	CouponRate   float64        `json:"coupon_rate,omitempty"` // percent
	Frequency    int            `json:"frequency,omitempty"`
	Face         float64        `json:"face,omitempty"`
	Notional     float64        `json:"notional,omitempty"`
	Cashflows    []cashflowJSON `json:"cashflows,omitempty"`
}

// resolved is an instrument placed on the curve's time axis.
type resolved struct {
	name      string
	notional  float64
	frequency int
	cashflows []risk.Cashflow
}

func (in instrumentJSON) resolve(settlement time.Time, dayCount string) (resolved, error) {
	face := in.Face
	if face == 0 {
		face = defaultFace
	}
	freq := in.Frequency
	if freq == 0 {
		freq = 2
	}
	out := resolved{name: in.Name, notional: in.Notional, frequency: freq}

	if len(in.Cashflows) > 0 {
		if in.MaturityDate != "" {
			return resolved{}, fmt.Errorf("%s: give either maturity_date or cashflows, not both", in.Name)
		}
		cents := make([]bonds.CashflowCents, 0, len(in.Cashflows))
		for _, cf := range in.Cashflows {
			d, err := utils.ParseDate(cf.Date)
			if err != nil {
				return resolved{}, fmt.Errorf("%s: invalid cashflow date %s: %v", in.Name, cf.Date, err)
			}
			cents = append(cents, bonds.CashflowCents{Date: d, CouponCents: cf.Coupon, PrincipalCents: cf.Principal})
		}
		out.cashflows = bond.TimedCashflows(settlement, bonds.ToCashflows(cents), dayCount)
		if len(out.cashflows) == 0 {
			return resolved{}, fmt.Errorf("%s: no cashflows after settlement", in.Name)
		}
		return out, nil
	}

	if in.MaturityDate == "" {
		return resolved{}, fmt.Errorf("%s: maturity_date or cashflows is required", in.Name)
	}
	maturity, err := utils.ParseDate(in.MaturityDate)
	if err != nil {
		return resolved{}, fmt.Errorf("%s: invalid maturity_date: %v", in.Name, err)
	}
	b, err := bond.NewFixedRateBond(settlement, maturity, in.CouponRate/100.0, freq, face)
	if err != nil {
		return resolved{}, fmt.Errorf("%s: %w", in.Name, err)
	}
	out.cashflows = bond.TimedCashflows(b.Settlement, b.Cashflows(), dayCount)
	return out, nil
}

// overrides are the per-request settings that take precedence over config.
type overrides struct {
	KeyGridYears []float64 `json:"key_grid_years,omitempty"`
	BumpBP       *float64  `json:"bump_bp,omitempty"`
	RidgeLambda  *float64  `json:"ridge_lambda,omitempty"`
}

func (o overrides) apply(base config.Config) (config.Config, error) {
	cfg := base
	cfg.Risk.KeyGridYears = append([]float64(nil), base.Risk.KeyGridYears...)
	if len(o.KeyGridYears) > 0 {
		cfg.Risk.KeyGridYears = append([]float64(nil), o.KeyGridYears...)
	}
	if o.BumpBP != nil {
		cfg.Risk.BumpBP = *o.BumpBP
	}
	if o.RidgeLambda != nil {
		cfg.Solver.RidgeLambda = *o.RidgeLambda
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// namedValues labels a result vector for checkFinite.
type namedValues struct {
	name string
	v    []float64
}

// checkFinite fails on the first NaN or Inf, which encoding/json cannot
// represent.
func checkFinite(items ...namedValues) error {
	for _, it := range items {
		if err := risk.CheckFinite(it.name, it.v); err != nil {
			return err
		}
	}
	return nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

// parseInputs accepts a single JSON object or a non-empty array of them.
func parseInputs[T any](raw []byte) ([]T, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		var inputs []T
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}
	var input T
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []T{input}, false, nil
}

// writeOutputs prints outputs as an array when the request was one, else the
// single object.
func writeOutputs[T any](w io.Writer, outputs []T, isArray bool) error {
	var v any = outputs
	if !isArray {
		v = outputs[0]
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// writeError prints a bare {"error": msg} object, used when the request could
// not be parsed at all.
func writeError(w io.Writer, msg string) error {
	b, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{msg})
	fmt.Fprintln(w, string(b))
	return errItemsFailed
}
