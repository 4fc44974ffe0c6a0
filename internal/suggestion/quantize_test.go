package suggestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundToPractical(t *testing.T) {
	testCases := []struct {
		name     string
		value    float64
		unitType string
		want     float64
	}{
		{"kg keeps two decimals", 1.234, "kg", 1.23},
		{"kg rounds up", 1.236, "kg", 1.24},
		{"kg below threshold is kept", 0.04, "kg", 0.04},
		{"cuba below threshold collapses", 0.04, "cuba-G", 0},
		{"cuba rounds down to quarter", 0.3, "cuba-G", 0.25},
		{"cuba rounds to half", 0.6, "cuba-P", 0.5},
		{"cuba rounds up to quarter", 1.65, "cuba-G", 1.75},
		{"unidade rounds to quarter", 2.6, "unidade", 2.5},
		{"other unit keeps one decimal", 1.234, "litro", 1.2},
		{"other unit below threshold collapses", 0.04, "litro", 0},
		{"zero is a valid quantity", 0, "cuba-G", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, RoundToPractical(tc.value, tc.unitType), 1e-9)
		})
	}
}

func TestRoundToPracticalIsCaseInsensitive(t *testing.T) {
	assert.InDelta(t, 0.25, RoundToPractical(0.3, "Cuba-G"), 1e-9)
	assert.InDelta(t, 1.23, RoundToPractical(1.234, "Kg"), 1e-9)
}

func TestRoundToPracticalIdempotence(t *testing.T) {
	units := []string{"kg", "cuba-G", "unidade", "litro", ""}
	values := []float64{0, 0.01, 0.04, 0.05, 0.3, 0.6, 1.65, 2.37, 10.111}

	for _, unit := range units {
		for _, value := range values {
			once := RoundToPractical(value, unit)
			twice := RoundToPractical(once, unit)
			assert.Equal(t, once, twice, "unit %q value %v", unit, value)
		}
	}
}
