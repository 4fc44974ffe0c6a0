package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/jinzhu/gorm"
)

// SuggestionAdjustment holds the rupture/waste multipliers persisted per
// recipe. RuptureMultiplier compensates for stock-outs (>= 1.0, orders more);
// WasteMultiplier compensates for quebra (<= 1.0, orders less).
type SuggestionAdjustment struct {
	RuptureMultiplier float64   `json:"rupture_multiplier"`
	WasteMultiplier   float64   `json:"waste_multiplier"`
	LastUpdated       time.Time `json:"last_updated"`
}

// DefaultAdjustment returns the neutral adjustment record used when a recipe
// has none persisted.
func DefaultAdjustment() SuggestionAdjustment {
	return SuggestionAdjustment{RuptureMultiplier: 1.0, WasteMultiplier: 1.0}
}

// Combined returns the composed multiplier applied to suggested quantities.
func (a SuggestionAdjustment) Combined() float64 {
	return a.RuptureMultiplier * a.WasteMultiplier
}

// Value converts the adjustment to a JSON string for storage
func (a SuggestionAdjustment) Value() (driver.Value, error) {
	if a.RuptureMultiplier == 0 && a.WasteMultiplier == 0 {
		a = DefaultAdjustment()
	}
	return json.Marshal(a)
}

// Scan converts the database value back to an adjustment record
func (a *SuggestionAdjustment) Scan(value interface{}) error {
	if value == nil {
		*a = DefaultAdjustment()
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("unsupported type for SuggestionAdjustment")
	}
}

// Recipe represents a recipe in the catalog
type Recipe struct {
	gorm.Model
	RecipeID             string `gorm:"column:recipe_id;unique_index"`
	Name                 string
	Category             string
	UnitType             string
	UnitCost             float64
	SuggestionAdjustment SuggestionAdjustment `gorm:"type:text"`
}

// TableName sets the table name for Recipe
func (Recipe) TableName() string {
	return "recipes"
}
