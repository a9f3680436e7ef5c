package utils

import (
	"time"
)

// Day count conventions understood by YearFraction.
const (
	Act360    = "ACT/360"
	Act365F   = "ACT/365F"
	Act36525  = "ACT/365.25"
	Thirty360 = "30/360"
)

// YearFraction computes year fraction between two dates using the specified day count convention.
// Supported conventions: ACT/360, ACT/365F, ACT/365.25, 30E/360, 30/360
func YearFraction(start, end time.Time, convention string) float64 {
	switch convention {
	case Act360:
		return Days(start, end) / 360.0
	case Act365F:
		return Days(start, end) / 365.0
	case Act36525:
		return Days(start, end) / 365.25
	case "30E/360", Thirty360:
		// 30E/360 ISDA (Eurobond basis)
		// D1 and D2 are capped at 30
		d1 := start.Day()
		if d1 > 30 {
			d1 = 30
		}
		d2 := end.Day()
		if d2 > 30 {
			d2 = 30
		}
		y1, m1 := start.Year(), int(start.Month())
		y2, m2 := end.Year(), int(end.Month())
		return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
	default:
		return Days(start, end) / 365.0
	}
}

// IsSupportedDayCount reports whether YearFraction knows the convention
// (anything else silently falls back to ACT/365F).
func IsSupportedDayCount(convention string) bool {
	switch convention {
	case Act360, Act365F, Act36525, "30E/360", Thirty360:
		return true
	}
	return false
}
