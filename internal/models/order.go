package models

import (
	"encoding/json"
	"time"

	"github.com/jinzhu/gorm"
)

// Order represents a delivered customer order. Past orders are the raw
// material for quantity suggestions; current (in-progress) orders are built
// from the same OrderItem shape by the caller.
type Order struct {
	gorm.Model
	OrderID            string `gorm:"column:order_id;unique_index"`
	CustomerID         string `gorm:"index"`
	WeekNumber         int    `gorm:"index"`
	Year               int    `gorm:"index"`
	DayOfWeek          int    // 1=Monday .. 5=Friday
	OrderDate          time.Time
	TotalMealsExpected int
	ItemsJSON          string `gorm:"type:text"`
	// Transient field (ignored by GORM)
	Items []OrderItem `gorm:"-"`
}

// TableName sets the table name for Order
func (Order) TableName() string {
	return "orders"
}

// GetItems returns the deserialized order items
func (o *Order) GetItems() ([]OrderItem, error) {
	if len(o.Items) > 0 {
		return o.Items, nil
	}
	var items []OrderItem
	if o.ItemsJSON == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(o.ItemsJSON), &items); err != nil {
		return nil, err
	}
	o.Items = items
	return items, nil
}

// SetItems serializes the order items for storage
func (o *Order) SetItems(items []OrderItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	o.ItemsJSON = string(data)
	o.Items = items
	return nil
}

// OrderItem represents one recipe line within an order. BaseQuantity is the
// figure entered by the operator; Quantity is the realized amount after the
// porcionamento percentage is applied.
type OrderItem struct {
	RecipeID             string      `json:"recipe_id"`
	RecipeName           string      `json:"recipe_name"`
	Category             string      `json:"category"`
	UnitType             string      `json:"unit_type"`
	BaseQuantity         float64     `json:"base_quantity"`
	AdjustmentPercentage float64     `json:"adjustment_percentage"`
	Quantity             float64     `json:"quantity"`
	UnitCost             float64     `json:"unit_cost,omitempty"`
	TotalCost            float64     `json:"total_cost,omitempty"`
	Suggestion           *Suggestion `json:"suggestion,omitempty"`
}
