package suggestion

import (
	"math"
	"sort"
	"time"

	"cantina/internal/models"
)

// Sample is one observation of a recipe inside a historical order. Samples
// live only for the duration of an analysis; they are never persisted.
type Sample struct {
	BaseQuantity         float64
	AdjustmentPercentage float64
	FinalQuantity        float64
	MealsExpected        int
	RatioPerMeal         float64
	Date                 time.Time
	WeekNumber           int
	Year                 int
	DayOfWeek            int
}

// RecipeStatistics summarizes the samples collected for one recipe. Medians
// are taken over the recent subset for outlier robustness; the average covers
// all samples and only serves as a fallback figure.
type RecipeStatistics struct {
	MedianBaseQuantity         float64
	MedianAdjustmentPercentage float64
	MedianRatioPerMeal         float64
	AvgBaseQuantity            float64
	Confidence                 float64
	TotalSamples               int
	RecentSamples              int
}

// RecipeProfile pairs a recipe's raw samples with their summary statistics.
type RecipeProfile struct {
	Samples    []Sample
	Statistics RecipeStatistics
}

// Analyzer turns raw historical orders into per-recipe statistics. It is
// stateless; statistics are recomputed fresh on every call.
type Analyzer struct {
	recentSize int
}

// NewAnalyzer creates an analyzer. recentSize bounds the "recent" subset the
// medians are computed over; values <= 0 fall back to 8.
func NewAnalyzer(recentSize int) *Analyzer {
	if recentSize <= 0 {
		recentSize = 8
	}
	return &Analyzer{recentSize: recentSize}
}

// Analyze collects one sample per (recipe, order) pair and computes per-recipe
// statistics. Orders without an expected meal count are skipped: they have no
// consumption baseline to derive a ratio from.
func (a *Analyzer) Analyze(orders []models.Order) map[string]*RecipeProfile {
	profiles := make(map[string]*RecipeProfile)

	for i := range orders {
		order := &orders[i]
		if order.TotalMealsExpected == 0 {
			continue
		}
		items, err := order.GetItems()
		if err != nil {
			continue
		}
		for _, item := range items {
			if item.RecipeID == "" {
				continue
			}
			// The ratio uses the final quantity, not the base: porcionamento
			// adjustments are part of real consumption.
			sample := Sample{
				BaseQuantity:         item.BaseQuantity,
				AdjustmentPercentage: item.AdjustmentPercentage,
				FinalQuantity:        item.Quantity,
				MealsExpected:        order.TotalMealsExpected,
				RatioPerMeal:         item.Quantity / float64(order.TotalMealsExpected),
				Date:                 order.OrderDate,
				WeekNumber:           order.WeekNumber,
				Year:                 order.Year,
				DayOfWeek:            order.DayOfWeek,
			}
			profile, ok := profiles[item.RecipeID]
			if !ok {
				profile = &RecipeProfile{}
				profiles[item.RecipeID] = profile
			}
			profile.Samples = append(profile.Samples, sample)
		}
	}

	for _, profile := range profiles {
		profile.Statistics = a.computeStatistics(profile.Samples)
	}
	return profiles
}

func (a *Analyzer) computeStatistics(samples []Sample) RecipeStatistics {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Date.After(samples[j].Date)
	})

	recent := samples
	if len(recent) > a.recentSize {
		recent = recent[:a.recentSize]
	}

	baseQuantities := make([]float64, len(recent))
	adjustments := make([]float64, len(recent))
	ratios := make([]float64, len(recent))
	for i, s := range recent {
		baseQuantities[i] = s.BaseQuantity
		adjustments[i] = s.AdjustmentPercentage
		ratios[i] = s.RatioPerMeal
	}

	var sum float64
	for _, s := range samples {
		sum += s.BaseQuantity
	}
	avg := 0.0
	if len(samples) > 0 {
		avg = sum / float64(len(samples))
	}

	return RecipeStatistics{
		MedianBaseQuantity:         Median(baseQuantities),
		MedianAdjustmentPercentage: Median(adjustments),
		MedianRatioPerMeal:         Median(ratios),
		AvgBaseQuantity:            avg,
		Confidence:                 Confidence(len(samples)),
		TotalSamples:               len(samples),
		RecentSamples:              len(recent),
	}
}

// Median returns the middle value of the list, or the mean of the two central
// values for an even length. An empty list yields 0.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Confidence maps a sample count to a [0,1] score: min(total/4, 1), so four
// or more samples saturate at full confidence.
func Confidence(totalSamples int) float64 {
	c := math.Min(float64(totalSamples)/4.0, 1.0)
	return math.Round(c*100) / 100
}
