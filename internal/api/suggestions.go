package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"cantina/internal/advisor"
	"cantina/internal/live"
	"cantina/internal/models"
	"cantina/internal/monitoring"
	"cantina/internal/repository"
	"cantina/internal/suggestion"
)

// SuggestionAPI represents the main API handler for the suggestion service
type SuggestionAPI struct {
	Router  *gin.Engine
	engine  *suggestion.Engine
	recipes repository.RecipeRepository
	metrics *monitoring.MetricsCollector
	hub     *live.Hub
	advisor *advisor.Advisor
	cache   *suggestion.AdjustmentCache
}

// NewSuggestionAPI creates a new suggestion API instance. adv may be nil
// (advisor disabled); authSecret may be empty, which leaves the mutating
// routes unguarded for development setups.
func NewSuggestionAPI(engine *suggestion.Engine, recipes repository.RecipeRepository, metrics *monitoring.MetricsCollector, hub *live.Hub, adv *advisor.Advisor, cache *suggestion.AdjustmentCache, authSecret string) *SuggestionAPI {
	router := gin.Default()

	api := &SuggestionAPI{
		Router:  router,
		engine:  engine,
		recipes: recipes,
		metrics: metrics,
		hub:     hub,
		advisor: adv,
		cache:   cache,
	}

	api.setupRoutes(authSecret)
	return api
}

// setupRoutes configures all API endpoints
func (s *SuggestionAPI) setupRoutes(authSecret string) {
	// Health check
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Cantina suggestion API is running"})
	})

	// Live run summaries
	s.Router.GET("/ws", s.hub.HandleWS)

	v1 := s.Router.Group("/api/v1")
	{
		v1.POST("/suggestions", s.GenerateSuggestions)
		v1.POST("/suggestions/explain", s.ExplainSuggestions)

		v1.GET("/recipes/:id/adjustment", s.GetAdjustment)

		adjustments := v1.Group("")
		if authSecret != "" {
			adjustments.Use(AuthMiddleware(authSecret))
		} else {
			log.Warn().Msg("no auth secret configured, adjustment updates are unguarded")
		}
		adjustments.PUT("/recipes/:id/adjustment", s.UpdateAdjustment)
	}
}

type suggestionOptions struct {
	LookbackWeeks    int     `json:"lookback_weeks"`
	ApplyToEmptyOnly *bool   `json:"apply_to_empty_only"` // default true
	MinConfidence    float64 `json:"min_confidence"`
	DayOfWeek        int     `json:"day_of_week"`
}

type suggestionRequest struct {
	CustomerID    string             `json:"customer_id" binding:"required"`
	Items         []models.OrderItem `json:"items"`
	MealsExpected int                `json:"meals_expected"`
	Options       suggestionOptions  `json:"options"`
}

// GenerateSuggestions runs the pipeline for a customer's in-progress order
func (s *SuggestionAPI) GenerateSuggestions(c *gin.Context) {
	var req suggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	overrideAll := req.Options.ApplyToEmptyOnly != nil && !*req.Options.ApplyToEmptyOnly

	start := time.Now()
	result := s.engine.Run(c.Request.Context(), suggestion.Request{
		CustomerID:    req.CustomerID,
		Items:         req.Items,
		MealsExpected: req.MealsExpected,
		Options: suggestion.Options{
			LookbackWeeks: req.Options.LookbackWeeks,
			DayOfWeek:     req.Options.DayOfWeek,
			MinConfidence: req.Options.MinConfidence,
			OverrideAll:   overrideAll,
			Cache:         s.cache,
		},
	})
	elapsed := time.Since(start)

	s.metrics.RecordRun(result, elapsed)
	s.hub.BroadcastRun(live.RunSummary{
		CustomerID:       req.CustomerID,
		Items:            len(result.Items),
		Applied:          result.Metadata.SuggestionsApplied,
		HighConfidence:   result.Metadata.HighConfidenceSuggestions,
		HistoricalOrders: result.Metadata.HistoricalOrders,
		DurationMillis:   elapsed.Milliseconds(),
		Success:          result.Success,
	})

	c.JSON(http.StatusOK, result)
}

// ExplainSuggestions returns operator-facing prose for a run result
func (s *SuggestionAPI) ExplainSuggestions(c *gin.Context) {
	if s.advisor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "advisor is not enabled"})
		return
	}

	var result suggestion.Result
	if err := c.ShouldBindJSON(&result); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	explanation, err := s.advisor.ExplainRun(c.Request.Context(), result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"explanation": explanation})
}

// GetAdjustment returns the current adjustment record of a recipe
func (s *SuggestionAPI) GetAdjustment(c *gin.Context) {
	recipeID := c.Param("id")
	recipe, err := s.recipes.GetByID(c.Request.Context(), recipeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if recipe == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	adj := recipe.SuggestionAdjustment
	if adj.RuptureMultiplier == 0 && adj.WasteMultiplier == 0 {
		adj = models.DefaultAdjustment()
	}
	c.JSON(http.StatusOK, gin.H{"recipe_id": recipeID, "adjustment": adj})
}

type adjustmentUpdateRequest struct {
	Kind       string   `json:"kind" binding:"required"`
	Multiplier *float64 `json:"multiplier"`

	// Observation pair for rupture: how long the quantity was expected to
	// last versus how long it actually lasted.
	ExpectedDays float64 `json:"expected_days"`
	ActualDays   float64 `json:"actual_days"`

	// Observation pair for waste.
	OrderedQuantity float64 `json:"ordered_quantity"`
	WastedQuantity  float64 `json:"wasted_quantity"`
}

// UpdateAdjustment merges a new multiplier into a recipe's adjustment record
func (s *SuggestionAPI) UpdateAdjustment(c *gin.Context) {
	recipeID := c.Param("id")

	var req adjustmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := suggestion.AdjustmentKind(req.Kind)
	if kind != suggestion.AdjustmentRupture && kind != suggestion.AdjustmentWaste {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown adjustment kind"})
		return
	}

	var multiplier float64
	switch {
	case req.Multiplier != nil:
		multiplier = *req.Multiplier
	case kind == suggestion.AdjustmentRupture:
		multiplier = suggestion.CalculateRuptureMultiplier(req.ExpectedDays, req.ActualDays)
	default:
		multiplier = suggestion.CalculateWasteMultiplier(req.OrderedQuantity, req.WastedQuantity)
	}

	registry := suggestion.NewRegistry(s.recipes, s.cache)
	ok, err := registry.UpdateAdjustment(c.Request.Context(), recipeID, kind, multiplier)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Adjustment updated successfully",
		"recipe_id":  recipeID,
		"kind":       req.Kind,
		"multiplier": multiplier,
	})
}
