// Package catalog provides the default category collaborators consumed by
// the suggestion engine: the meat-class classifier and the value calculator
// that turns base quantities into final quantities and costs.
package catalog

import (
	"math"
	"strings"

	"cantina/internal/models"
)

// meatCategories are the catalog categories porcionamento applies to.
var meatCategories = []string{
	"carne",
	"carnes",
	"carne bovina",
	"carne suina",
	"aves",
	"frango",
	"peixe",
	"peixes",
	"proteina",
}

// Classifier is the default meat-class category classifier.
type Classifier struct{}

// NewClassifier creates the default classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// IsMeatCategory reports whether porcionamento percentages apply to the
// category. Matching is case-insensitive and tolerant of qualified names
// such as "Carnes - Grelhados".
func (c *Classifier) IsMeatCategory(category string) bool {
	normalized := strings.ToLower(strings.TrimSpace(category))
	if normalized == "" {
		return false
	}
	for _, meat := range meatCategories {
		if normalized == meat || strings.HasPrefix(normalized, meat+" ") || strings.HasPrefix(normalized, meat+"-") || strings.Contains(normalized, meat) {
			return true
		}
	}
	return false
}

// Calculator is the default value calculator. The final quantity is the base
// quantity grown by the porcionamento percentage; costs follow from the
// recipe's unit cost.
type Calculator struct{}

// NewCalculator creates the default calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// CalculateItemValues recomputes the dependent fields of an item after one of
// its inputs changed. mealsExpected is accepted for bookkeeping parity with
// category-specific calculators; the default rules do not depend on it.
func (c *Calculator) CalculateItemValues(item models.OrderItem, changedField string, changedValue float64, mealsExpected int) models.OrderItem {
	switch changedField {
	case "base_quantity":
		item.BaseQuantity = changedValue
	case "adjustment_percentage":
		item.AdjustmentPercentage = changedValue
	}

	quantity := item.BaseQuantity * (1 + item.AdjustmentPercentage/100)
	item.Quantity = math.Round(quantity*1000) / 1000
	item.TotalCost = math.Round(item.Quantity*item.UnitCost*100) / 100
	return item
}
