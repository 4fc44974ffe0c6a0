package suggestion

import (
	"fmt"
	"math"

	"cantina/internal/models"
)

// ValueCalculator owns the category business rules that turn a base quantity
// and porcionamento percentage into final quantity/cost figures. It is an
// external collaborator of the engine.
type ValueCalculator interface {
	CalculateItemValues(item models.OrderItem, changedField string, changedValue float64, mealsExpected int) models.OrderItem
}

// CategoryClassifier answers whether a category is meat-class, i.e. whether
// porcionamento percentages apply to it.
type CategoryClassifier interface {
	IsMeatCategory(category string) bool
}

// OutcomeKind discriminates the generator's per-item result.
type OutcomeKind int

const (
	OutcomeNoHistory OutcomeKind = iota
	OutcomeLowConfidence
	OutcomeSuggested
)

// Outcome is the generator's result for one order item. Only OutcomeSuggested
// carries usable quantities; the other kinds exist so the applier can pass
// the item through annotated with the refusal reason.
type Outcome struct {
	Kind       OutcomeKind
	Suggestion *models.Suggestion
	// Preview is the item as it would look with the suggestion applied at the
	// caller's current meal count. Informational; appliers recompute.
	Preview models.OrderItem
}

// Generator produces one Outcome per current order item from the analyzed
// history and the loaded adjustment records.
type Generator struct {
	calc          ValueCalculator
	classifier    CategoryClassifier
	minConfidence float64
}

// NewGenerator creates a generator. minConfidence <= 0 falls back to 0.25.
func NewGenerator(calc ValueCalculator, classifier CategoryClassifier, minConfidence float64) *Generator {
	if minConfidence <= 0 {
		minConfidence = 0.25
	}
	return &Generator{calc: calc, classifier: classifier, minConfidence: minConfidence}
}

// Generate returns outcomes parallel to items. mealsExpected is the caller's
// current meal count, passed to the value calculator for bookkeeping only:
// the suggested base quantity itself reflects the directly observed
// historical base quantity and is meal-count-independent.
func (g *Generator) Generate(items []models.OrderItem, profiles map[string]*RecipeProfile, adjustments map[string]models.SuggestionAdjustment, mealsExpected int) []Outcome {
	outcomes := make([]Outcome, len(items))
	for i, item := range items {
		outcomes[i] = g.generateOne(item, profiles[item.RecipeID], adjustments[item.RecipeID], mealsExpected)
	}
	return outcomes
}

func (g *Generator) generateOne(item models.OrderItem, profile *RecipeProfile, adj models.SuggestionAdjustment, mealsExpected int) Outcome {
	if profile == nil || profile.Statistics.TotalSamples == 0 {
		return Outcome{
			Kind:       OutcomeNoHistory,
			Suggestion: &models.Suggestion{HasSuggestion: false, Reason: models.ReasonNoHistory},
			Preview:    item,
		}
	}

	stats := profile.Statistics
	if stats.Confidence < g.minConfidence {
		return Outcome{
			Kind: OutcomeLowConfidence,
			Suggestion: &models.Suggestion{
				HasSuggestion:  false,
				Reason:         models.ReasonLowConfidence,
				Confidence:     stats.Confidence,
				BasedOnSamples: stats.TotalSamples,
				RecentSamples:  stats.RecentSamples,
			},
			Preview: item,
		}
	}

	estimate := stats.MedianBaseQuantity
	source := models.SourceMedianDirect
	if estimate == 0 && stats.AvgBaseQuantity > 0 {
		estimate = stats.AvgBaseQuantity
		source = models.SourceAvgFallback
	}
	if estimate < 0.125 && stats.AvgBaseQuantity > 0.25 {
		// Below an orderable fraction but the recipe clearly gets ordered:
		// bump to the smallest practical quantity.
		estimate = 0.25
		source = models.SourceMinFix
	}

	combined := normalizeAdjustment(adj).Combined()
	applied := 0.0
	if combined != 1.0 {
		estimate *= combined
		source = fmt.Sprintf("%s+adjusted(%.2fx)", source, combined)
		applied = combined
	}

	estimate = RoundToPractical(estimate, item.UnitType)

	suggestedPct := 0.0
	if g.classifier.IsMeatCategory(item.Category) {
		suggestedPct = math.Round(stats.MedianAdjustmentPercentage)
	}

	// Samples are newest-first after analysis; the most recent order's meal
	// count is the baseline the appliers rescale against.
	historicalMeals := profile.Samples[0].MealsExpected

	sugg := &models.Suggestion{
		HasSuggestion:                 true,
		Confidence:                    stats.Confidence,
		BasedOnSamples:                stats.TotalSamples,
		RecentSamples:                 stats.RecentSamples,
		SuggestedBaseQuantity:         estimate,
		SuggestedAdjustmentPercentage: suggestedPct,
		MealsExpected:                 historicalMeals,
		Source:                        source,
		AdjustmentApplied:             applied,
	}

	preview := item
	preview.BaseQuantity = estimate
	preview.AdjustmentPercentage = suggestedPct
	preview = g.calc.CalculateItemValues(preview, "base_quantity", estimate, mealsExpected)
	preview.Suggestion = sugg

	return Outcome{Kind: OutcomeSuggested, Suggestion: sugg, Preview: preview}
}
