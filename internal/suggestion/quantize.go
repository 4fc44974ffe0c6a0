// Package suggestion implements the order quantity suggestion engine: it
// mines a customer's historical orders and recommends how much of each recipe
// to order, adjusted for known stock-rupture and waste patterns.
package suggestion

import (
	"math"
	"strings"
)

// RoundToPractical rounds a raw suggested quantity to a value that can
// actually be ordered for the given unit. Weights keep two decimals; cubas
// and unidades only divide in quarters; everything else keeps one decimal.
// Values below 0.05 in countable units collapse to zero ("do not order").
// The function is idempotent.
func RoundToPractical(value float64, unitType string) float64 {
	unit := strings.ToLower(unitType)

	if strings.Contains(unit, "kg") {
		return math.Round(value*100) / 100
	}

	if strings.Contains(unit, "cuba") || strings.Contains(unit, "unid") {
		if value < 0.05 {
			return 0
		}
		return math.Round(value*4) / 4
	}

	if value < 0.05 {
		return 0
	}
	return math.Round(value*10) / 10
}
