package main

import (
	"fmt"
	"os"
	"time"

	"github.com/meenmo/krdhedge/bond"
	"github.com/meenmo/krdhedge/config"
	"github.com/meenmo/krdhedge/curve"
	"github.com/meenmo/krdhedge/hedge"
)

func main() {
	settlement := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	nss, err := curve.NewNelsonSiegelSvensson(0.030, -0.006, 0.004, 0.0, 1.5, 5.0)
	if err != nil {
		fail(err)
	}
	zc := curve.NewZeroCurve(nss)

	position := func(name string, years int, coupon, notional float64) hedge.Position {
		b, err := bond.NewFixedRateBond(settlement, settlement.AddDate(years, 0, 0), coupon, 2, 100)
		if err != nil {
			fail(err)
		}
		return hedge.Position{Name: name, Notional: notional, Cashflows: b.TimedCashflows()}
	}

	target := position("Corp 5Y 3.00", 5, 0.03, 10_000_000)
	hedgers := []hedge.Position{
		position("UST 2Y", 2, 0.03, 0),
		position("UST 5Y", 5, 0.03, 0),
		position("UST 10Y", 10, 0.03, 0),
	}

	res, err := hedge.Build(target, hedgers, zc.DiscountFactor, config.Default())
	if err != nil {
		fail(err)
	}

	fmt.Printf("Keys:        %v\n", res.Keys)
	fmt.Printf("Target KRD:  %.6f\n", res.Target)
	fmt.Printf("Target DV01: %.6f\n", res.TargetDV01)
	for _, leg := range res.Legs {
		fmt.Printf("%-8s weight %10.6f  notional %s\n", leg.Name, leg.Weight, leg.Notional.StringFixed(2))
	}
	fmt.Printf("Residual:    %.3e\n", res.Residual)
	fmt.Printf("Residual ratio: %.3e\n", res.ResidualRatio)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
