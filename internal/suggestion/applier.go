package suggestion

import (
	"cantina/internal/models"
)

// Applier merges generated suggestions into the caller's current order items.
// Two policies exist: fill-empty only touches zero-valued fields, while
// override-all replaces them unconditionally. The policies are intentionally
// asymmetric about meal-count rescaling; see ApplyAll.
type Applier struct {
	calc       ValueCalculator
	classifier CategoryClassifier
}

// NewApplier creates an applier over the given collaborators.
func NewApplier(calc ValueCalculator, classifier CategoryClassifier) *Applier {
	return &Applier{calc: calc, classifier: classifier}
}

// ApplyToEmpty fills only fields whose current value is exactly zero: the
// base quantity always qualifies, the porcionamento percentage only for
// meat-class categories. When the caller's meal count differs from the
// historical one, the ratio is recorded on the suggestion but the quantity is
// NOT rescaled: the suggested base quantity is a directly observed figure.
// Returns the merged items and the number of items that received values.
func (a *Applier) ApplyToEmpty(items []models.OrderItem, outcomes []Outcome, mealsExpected int) ([]models.OrderItem, int) {
	result := make([]models.OrderItem, len(items))
	applied := 0

	for i, item := range items {
		outcome := outcomes[i]
		if outcome.Kind != OutcomeSuggested {
			item.Suggestion = outcome.Suggestion
			result[i] = item
			continue
		}

		sugg := *outcome.Suggestion
		target := targetMeals(mealsExpected, &sugg)
		if sugg.MealsExpected > 0 && target != sugg.MealsExpected {
			sugg.ScalingRatio = float64(target) / float64(sugg.MealsExpected)
		}

		changed := false
		if item.BaseQuantity == 0 {
			item.BaseQuantity = sugg.SuggestedBaseQuantity
			changed = true
		}
		if item.AdjustmentPercentage == 0 && a.classifier.IsMeatCategory(item.Category) {
			item.AdjustmentPercentage = sugg.SuggestedAdjustmentPercentage
			changed = true
		}
		if changed {
			item = a.calc.CalculateItemValues(item, "base_quantity", item.BaseQuantity, target)
			applied++
		}

		item.Suggestion = &sugg
		result[i] = item
	}
	return result, applied
}

// ApplyAll replaces the base quantity and porcionamento percentage of every
// suggested item. Unlike ApplyToEmpty, a differing meal count DOES rescale
// the suggested base quantity by target/historical before re-quantizing.
func (a *Applier) ApplyAll(items []models.OrderItem, outcomes []Outcome, mealsExpected int) ([]models.OrderItem, int) {
	result := make([]models.OrderItem, len(items))
	applied := 0

	for i, item := range items {
		outcome := outcomes[i]
		if outcome.Kind != OutcomeSuggested {
			item.Suggestion = outcome.Suggestion
			result[i] = item
			continue
		}

		sugg := *outcome.Suggestion
		target := targetMeals(mealsExpected, &sugg)

		base := sugg.SuggestedBaseQuantity
		if sugg.MealsExpected > 0 && target != sugg.MealsExpected {
			ratio := float64(target) / float64(sugg.MealsExpected)
			sugg.ScalingRatio = ratio
			base = RoundToPractical(base*ratio, item.UnitType)
		}

		item.BaseQuantity = base
		item.AdjustmentPercentage = sugg.SuggestedAdjustmentPercentage
		item = a.calc.CalculateItemValues(item, "base_quantity", base, target)
		applied++

		item.Suggestion = &sugg
		result[i] = item
	}
	return result, applied
}

// targetMeals resolves the meal count the dependent fields are computed for:
// the caller's current count when provided, else the one recorded on the
// suggestion.
func targetMeals(mealsExpected int, sugg *models.Suggestion) int {
	if mealsExpected > 0 {
		return mealsExpected
	}
	return sugg.MealsExpected
}
