package glucose

import "fmt"

// Unit is a display unit for glucose values. Storage is always mg/dL.
type Unit string

const (
	UnitMgdl Unit = "mg/dL"
	UnitMmol Unit = "mmol/L"
)

// 1 mmol/L of glucose equals 18 mg/dL.
const mmolFactor = 18.0

// Default classification thresholds used when a user has no diabetic profile.
const (
	DefaultMinGlucose = 70
	DefaultMaxGlucose = 180
)

// Valid reports whether u is a known display unit.
func (u Unit) Valid() bool {
	return u == UnitMgdl || u == UnitMmol
}

// ToDisplay converts a canonical mg/dL value to the given display unit.
func ToDisplay(mgdl float64, unit Unit) float64 {
	if unit == UnitMmol {
		return mgdl / mmolFactor
	}
	return mgdl
}

// ToCanonical converts a value entered in the given display unit back to mg/dL.
func ToCanonical(value float64, unit Unit) float64 {
	if unit == UnitMmol {
		return value * mmolFactor
	}
	return value
}

// FormatValue renders a canonical mg/dL value for display in the given unit.
// mg/dL is shown as a whole number, mmol/L with one decimal place.
func FormatValue(mgdl float64, unit Unit) string {
	if unit == UnitMmol {
		return fmt.Sprintf("%.1f %s", ToDisplay(mgdl, unit), UnitMmol)
	}
	return fmt.Sprintf("%.0f %s", mgdl, UnitMgdl)
}

// Range is the classification of a glucose value against profile thresholds.
type Range string

const (
	RangeLow    Range = "low"
	RangeNormal Range = "normal"
	RangeHigh   Range = "high"
)

// Classify buckets a canonical mg/dL value against the given thresholds.
// Values equal to either threshold count as normal.
func Classify(mgdl float64, minGlucose, maxGlucose int) Range {
	switch {
	case mgdl < float64(minGlucose):
		return RangeLow
	case mgdl > float64(maxGlucose):
		return RangeHigh
	default:
		return RangeNormal
	}
}
