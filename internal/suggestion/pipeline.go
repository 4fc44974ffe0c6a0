package suggestion

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"cantina/internal/models"
	"cantina/internal/repository"
)

// highConfidenceThreshold marks suggestions reliable enough to surface
// prominently in run metadata.
const highConfidenceThreshold = 0.75

// Config holds the engine defaults, overridable per request.
type Config struct {
	LookbackWeeks    int
	MinConfidence    float64
	RecentSampleSize int
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		LookbackWeeks:    8,
		MinConfidence:    0.25,
		RecentSampleSize: 8,
	}
}

// Options tunes a single pipeline run.
type Options struct {
	LookbackWeeks int // 0 uses the engine default
	DayOfWeek     int // 1=Monday..5=Friday, 0=any
	MinConfidence float64
	// OverrideAll switches from the fill-empty policy to replacing every
	// suggested field.
	OverrideAll bool
	// Cache is an optional caller-owned adjustment cache.
	Cache *AdjustmentCache
}

// Request is the pipeline input: one customer, the in-progress order items
// and the meal count they are being planned for.
type Request struct {
	CustomerID    string
	Items         []models.OrderItem
	MealsExpected int
	Options       Options
}

// Metadata describes what a pipeline run saw and did.
type Metadata struct {
	HistoricalOrders          int    `json:"historical_orders"`
	SuggestionsApplied        int    `json:"suggestions_applied"`
	HighConfidenceSuggestions int    `json:"high_confidence_suggestions"`
	LookbackWeeks             int    `json:"lookback_weeks"`
	DayOfWeek                 int    `json:"day_of_week,omitempty"`
	RecipesAnalyzed           int    `json:"recipes_analyzed"`
	Message                   string `json:"message,omitempty"`
}

// Result is the pipeline output. The caller always receives a usable item
// list: the merged items on success, the original ones otherwise.
type Result struct {
	Success  bool               `json:"success"`
	Items    []models.OrderItem `json:"items"`
	Metadata Metadata           `json:"metadata"`
	Error    string             `json:"error,omitempty"`
}

// Engine sequences the full suggestion pipeline: load history, analyze
// patterns, load adjustments, generate and apply suggestions. It is stateless
// between runs.
type Engine struct {
	loader     *Loader
	recipes    repository.RecipeRepository
	analyzer   *Analyzer
	applier    *Applier
	calc       ValueCalculator
	classifier CategoryClassifier
	config     Config
}

// NewEngine wires the pipeline over its repositories and collaborators.
func NewEngine(orders repository.OrderRepository, recipes repository.RecipeRepository, calc ValueCalculator, classifier CategoryClassifier, cfg Config) *Engine {
	if cfg.LookbackWeeks <= 0 {
		cfg.LookbackWeeks = 8
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 0.25
	}
	return &Engine{
		loader:     NewLoader(orders),
		recipes:    recipes,
		analyzer:   NewAnalyzer(cfg.RecentSampleSize),
		applier:    NewApplier(calc, classifier),
		calc:       calc,
		classifier: classifier,
		config:     cfg,
	}
}

// Run executes the pipeline. It never fails the caller: an empty history
// short-circuits successfully with the items unchanged, and any unexpected
// failure is reported through Result.Error with the original items intact.
func (e *Engine) Run(ctx context.Context, req Request) (result Result) {
	opts := req.Options
	lookback := opts.LookbackWeeks
	if lookback <= 0 {
		lookback = e.config.LookbackWeeks
	}
	minConfidence := opts.MinConfidence
	if minConfidence <= 0 {
		minConfidence = e.config.MinConfidence
	}

	meta := Metadata{LookbackWeeks: lookback, DayOfWeek: opts.DayOfWeek}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("customer_id", req.CustomerID).
				Msg("suggestion pipeline failed")
			result = Result{
				Success:  false,
				Items:    req.Items,
				Metadata: meta,
				Error:    fmt.Sprintf("pipeline failure: %v", r),
			}
		}
	}()

	orders := e.loader.Load(ctx, req.CustomerID, lookback, opts.DayOfWeek)
	meta.HistoricalOrders = len(orders)
	if len(orders) == 0 {
		meta.Message = "nenhum pedido historico encontrado"
		return Result{Success: true, Items: req.Items, Metadata: meta}
	}

	profiles := e.analyzer.Analyze(orders)
	meta.RecipesAnalyzed = len(profiles)

	recipeIDs := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		recipeIDs = append(recipeIDs, item.RecipeID)
	}
	registry := NewRegistry(e.recipes, opts.Cache)
	adjustments := registry.LoadAdjustments(ctx, recipeIDs)

	generator := NewGenerator(e.calc, e.classifier, minConfidence)
	outcomes := generator.Generate(req.Items, profiles, adjustments, req.MealsExpected)

	var items []models.OrderItem
	var applied int
	if opts.OverrideAll {
		items, applied = e.applier.ApplyAll(req.Items, outcomes, req.MealsExpected)
	} else {
		items, applied = e.applier.ApplyToEmpty(req.Items, outcomes, req.MealsExpected)
	}

	high := 0
	for _, outcome := range outcomes {
		if outcome.Kind == OutcomeSuggested && outcome.Suggestion.Confidence >= highConfidenceThreshold {
			high++
		}
	}

	meta.SuggestionsApplied = applied
	meta.HighConfidenceSuggestions = high
	meta.Message = fmt.Sprintf("%d sugestoes aplicadas", applied)

	log.Debug().Str("customer_id", req.CustomerID).
		Int("historical_orders", meta.HistoricalOrders).
		Int("applied", applied).Int("high_confidence", high).
		Msg("suggestion pipeline completed")

	return Result{Success: true, Items: items, Metadata: meta}
}
