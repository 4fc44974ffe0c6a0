package suggestion

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"cantina/internal/models"
	"cantina/internal/repository"
)

// AdjustmentKind selects which multiplier an update targets.
type AdjustmentKind string

const (
	AdjustmentRupture AdjustmentKind = "rupture"
	AdjustmentWaste   AdjustmentKind = "waste"
)

// Multiplier domains. Out-of-range inputs are clamped, never rejected:
// recommendations are advisory, so degraded input beats a hard failure.
const (
	minRuptureMultiplier = 1.0
	maxRuptureMultiplier = 3.0
	minWasteMultiplier   = 0.5
	maxWasteMultiplier   = 1.0
)

// Registry loads and persists per-recipe rupture/waste multipliers. Reads may
// be served from an optional caller-owned cache.
type Registry struct {
	recipes repository.RecipeRepository
	cache   *AdjustmentCache
	now     func() time.Time
}

// NewRegistry creates an adjustment registry. cache may be nil.
func NewRegistry(recipes repository.RecipeRepository, cache *AdjustmentCache) *Registry {
	return &Registry{recipes: recipes, cache: cache, now: time.Now}
}

// LoadAdjustments batch-fetches the adjustment record of each recipe. A
// missing recipe, missing record, or fetch failure defaults that recipe to
// the neutral {1.0, 1.0}; one bad recipe never aborts the batch.
func (r *Registry) LoadAdjustments(ctx context.Context, recipeIDs []string) map[string]models.SuggestionAdjustment {
	result := make(map[string]models.SuggestionAdjustment, len(recipeIDs))

	for _, id := range recipeIDs {
		if id == "" {
			continue
		}
		if _, done := result[id]; done {
			continue
		}
		if adj, ok := r.cache.Get(id); ok {
			result[id] = adj
			continue
		}

		recipe, err := r.recipes.GetByID(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("recipe_id", id).
				Msg("adjustment fetch failed, using neutral multipliers")
			result[id] = models.DefaultAdjustment()
			continue
		}
		if recipe == nil {
			result[id] = models.DefaultAdjustment()
			continue
		}

		adj := normalizeAdjustment(recipe.SuggestionAdjustment)
		result[id] = adj
		r.cache.Set(id, adj)
	}
	return result
}

// UpdateAdjustment merges one multiplier into a recipe's adjustment record,
// stamps it, and writes it back. Returns false without error when the recipe
// does not exist.
func (r *Registry) UpdateAdjustment(ctx context.Context, recipeID string, kind AdjustmentKind, multiplier float64) (bool, error) {
	recipe, err := r.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return false, err
	}
	if recipe == nil {
		return false, nil
	}

	adj := normalizeAdjustment(recipe.SuggestionAdjustment)
	switch kind {
	case AdjustmentRupture:
		adj.RuptureMultiplier = clamp(multiplier, minRuptureMultiplier, maxRuptureMultiplier)
	case AdjustmentWaste:
		adj.WasteMultiplier = clamp(multiplier, minWasteMultiplier, maxWasteMultiplier)
	default:
		return false, fmt.Errorf("unknown adjustment kind %q", kind)
	}
	adj.LastUpdated = r.now()

	if err := r.recipes.UpdateAdjustment(ctx, recipeID, adj); err != nil {
		return false, err
	}
	r.cache.Invalidate(recipeID)

	log.Info().Str("recipe_id", recipeID).Str("kind", string(kind)).
		Float64("multiplier", multiplier).
		Msg("recipe adjustment updated")
	return true, nil
}

// CalculateRuptureMultiplier derives the rupture multiplier from how long a
// prepared quantity was expected to last versus how long it actually lasted.
// Invalid inputs yield the neutral 1.0.
func CalculateRuptureMultiplier(expectedDays, actualDays float64) float64 {
	if expectedDays <= 0 || actualDays <= 0 {
		return 1.0
	}
	return clamp(expectedDays/actualDays, minRuptureMultiplier, maxRuptureMultiplier)
}

// CalculateWasteMultiplier derives the waste multiplier from the ordered and
// wasted quantities. Invalid inputs yield the neutral 1.0.
func CalculateWasteMultiplier(orderedQty, wastedQty float64) float64 {
	if orderedQty <= 0 || wastedQty < 0 {
		return 1.0
	}
	return clamp((orderedQty-wastedQty)/orderedQty, minWasteMultiplier, maxWasteMultiplier)
}

// normalizeAdjustment maps an unset (zero-valued) record to the neutral
// default applied at the repository boundary.
func normalizeAdjustment(adj models.SuggestionAdjustment) models.SuggestionAdjustment {
	if adj.RuptureMultiplier == 0 && adj.WasteMultiplier == 0 {
		return models.DefaultAdjustment()
	}
	return adj
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
