// Package repository provides storage access for orders and recipes. The
// suggestion engine consumes the interfaces only; the gorm implementations
// here are the default wiring.
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/rs/zerolog/log"

	"cantina/internal/models"
)

// OrderQuery filters historical order lookups. DayOfWeek is optional; zero
// means any weekday.
type OrderQuery struct {
	CustomerID string
	WeekNumber int
	Year       int
	DayOfWeek  int
}

// OrderRepository is the order storage contract consumed by the engine.
type OrderRepository interface {
	Query(ctx context.Context, q OrderQuery) ([]models.Order, error)
	Save(ctx context.Context, order *models.Order) error
}

// GormOrderRepository implements OrderRepository on a gorm connection.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a gorm-backed order repository
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Query returns the orders matching q, newest first, with their item
// payloads decoded. An order whose payload fails to decode is skipped.
func (r *GormOrderRepository) Query(ctx context.Context, q OrderQuery) ([]models.Order, error) {
	tx := r.db.Where("customer_id = ? AND week_number = ? AND year = ?",
		q.CustomerID, q.WeekNumber, q.Year)
	if q.DayOfWeek > 0 {
		tx = tx.Where("day_of_week = ?", q.DayOfWeek)
	}

	var orders []models.Order
	if err := tx.Order("order_date desc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("query orders for %s week %d/%d: %w",
			q.CustomerID, q.WeekNumber, q.Year, err)
	}

	result := orders[:0]
	for i := range orders {
		if _, err := orders[i].GetItems(); err != nil {
			log.Warn().Err(err).Str("order_id", orders[i].OrderID).
				Msg("skipping order with undecodable items payload")
			continue
		}
		result = append(result, orders[i])
	}
	return result, nil
}

// Save persists an order, assigning an ID when it has none
func (r *GormOrderRepository) Save(ctx context.Context, order *models.Order) error {
	if order.OrderID == "" {
		order.OrderID = uuid.NewString()
	}
	if order.ItemsJSON == "" && len(order.Items) > 0 {
		if err := order.SetItems(order.Items); err != nil {
			return fmt.Errorf("encode order items: %w", err)
		}
	}
	if err := r.db.Save(order).Error; err != nil {
		return fmt.Errorf("save order %s: %w", order.OrderID, err)
	}
	return nil
}
