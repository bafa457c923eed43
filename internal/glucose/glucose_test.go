package glucose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversionRoundTrip(t *testing.T) {
	values := []float64{20, 54, 70, 99.5, 126, 180, 342, 600}

	for _, v := range values {
		display := ToDisplay(v, UnitMmol)
		back := ToCanonical(display, UnitMmol)
		assert.InDelta(t, v, back, 0.05, "round trip for %v mg/dL", v)
	}
}

func TestToDisplay(t *testing.T) {
	assert.Equal(t, 180.0, ToDisplay(180, UnitMgdl))
	assert.InDelta(t, 10.0, ToDisplay(180, UnitMmol), 0.001)
}

func TestToCanonical(t *testing.T) {
	assert.Equal(t, 120.0, ToCanonical(120, UnitMgdl))
	assert.InDelta(t, 99.0, ToCanonical(5.5, UnitMmol), 0.001)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "142 mg/dL", FormatValue(142.4, UnitMgdl))
	assert.Equal(t, "7.9 mmol/L", FormatValue(142.4, UnitMmol))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected Range
	}{
		{name: "below min", value: 69, expected: RangeLow},
		{name: "at min is normal", value: 70, expected: RangeNormal},
		{name: "mid range", value: 120, expected: RangeNormal},
		{name: "at max is normal", value: 180, expected: RangeNormal},
		{name: "above max", value: 181, expected: RangeHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.value, 70, 180))
		})
	}
}

func TestUnitValid(t *testing.T) {
	assert.True(t, UnitMgdl.Valid())
	assert.True(t, UnitMmol.Valid())
	assert.False(t, Unit("mol").Valid())
}
