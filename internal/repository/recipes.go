package repository

import (
	"context"
	"fmt"

	"github.com/jinzhu/gorm"

	"cantina/internal/models"
)

// RecipeRepository is the recipe storage contract consumed by the engine.
// GetByID returns (nil, nil) when the recipe does not exist.
type RecipeRepository interface {
	GetByID(ctx context.Context, id string) (*models.Recipe, error)
	Save(ctx context.Context, recipe *models.Recipe) error
	UpdateAdjustment(ctx context.Context, id string, adj models.SuggestionAdjustment) error
}

// GormRecipeRepository implements RecipeRepository on a gorm connection.
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a gorm-backed recipe repository
func NewRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// GetByID fetches a recipe by its business identifier
func (r *GormRecipeRepository) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.Where("recipe_id = ?", id).First(&recipe).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe %s: %w", id, err)
	}
	return &recipe, nil
}

// Save persists a recipe
func (r *GormRecipeRepository) Save(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.Save(recipe).Error; err != nil {
		return fmt.Errorf("save recipe %s: %w", recipe.RecipeID, err)
	}
	return nil
}

// UpdateAdjustment writes the adjustment record of an existing recipe
func (r *GormRecipeRepository) UpdateAdjustment(ctx context.Context, id string, adj models.SuggestionAdjustment) error {
	err := r.db.Model(&models.Recipe{}).
		Where("recipe_id = ?", id).
		Update("suggestion_adjustment", adj).Error
	if err != nil {
		return fmt.Errorf("update adjustment for recipe %s: %w", id, err)
	}
	return nil
}
