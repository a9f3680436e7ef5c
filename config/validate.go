package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/meenmo/krdhedge/utils"
)

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if math.IsNaN(c.Solver.RidgeLambda) || c.Solver.RidgeLambda < 0 {
		return fmt.Errorf("solver.ridge_lambda must be >= 0, got %g", c.Solver.RidgeLambda)
	}
	if !(c.Solver.PivotTolerance > 0) {
		return fmt.Errorf("solver.pivot_tolerance must be > 0, got %g", c.Solver.PivotTolerance)
	}
	if c.Solver.SkipTolerance < 0 || math.IsNaN(c.Solver.SkipTolerance) {
		return fmt.Errorf("solver.skip_tolerance must be >= 0, got %g", c.Solver.SkipTolerance)
	}

	if !(c.Risk.BumpBP > 0) || c.Risk.BumpBP > MaxBumpBP {
		return fmt.Errorf("risk.bump_bp must be in (0, %g], got %g", MaxBumpBP, c.Risk.BumpBP)
	}
	if len(c.Risk.KeyGridYears) == 0 {
		return errors.New("risk.key_grid_years is required")
	}
	for i, y := range c.Risk.KeyGridYears {
		if !(y > 0) || math.IsInf(y, 0) {
			return fmt.Errorf("risk.key_grid_years[%d] must be a positive number, got %g", i, y)
		}
		if i > 0 && y <= c.Risk.KeyGridYears[i-1] {
			return fmt.Errorf("risk.key_grid_years must be strictly ascending (index %d: %g after %g)",
				i, y, c.Risk.KeyGridYears[i-1])
		}
	}
	if !utils.IsSupportedDayCount(c.Risk.DayCount) {
		return fmt.Errorf("risk.day_count %q is not supported", c.Risk.DayCount)
	}

	switch c.Archive.Driver {
	case DriverNone:
	case DriverBolt:
		if c.Archive.Path == "" {
			return errors.New("archive.path is required for driver bolt")
		}
	case DriverPostgres:
		if c.Archive.DSN == "" {
			return errors.New("archive.dsn is required for driver postgres")
		}
	default:
		return fmt.Errorf("archive.driver must be one of \"\", %q, %q; got %q", DriverBolt, DriverPostgres, c.Archive.Driver)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error; got %q", c.Log.Level)
	}
	return nil
}
