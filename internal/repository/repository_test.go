package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.Recipe{}).Error)
	return db
}

func saveOrder(t *testing.T, repo *GormOrderRepository, customerID string, week, year, day int, date time.Time, items []models.OrderItem) {
	t.Helper()
	order := &models.Order{
		CustomerID:         customerID,
		WeekNumber:         week,
		Year:               year,
		DayOfWeek:          day,
		OrderDate:          date,
		TotalMealsExpected: 50,
		Items:              items,
	}
	require.NoError(t, repo.Save(context.Background(), order))
}

func TestOrderQueryFiltersAndOrders(t *testing.T) {
	repo := NewOrderRepository(setupDB(t))
	ctx := context.Background()

	base := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	items := []models.OrderItem{{RecipeID: "arroz", BaseQuantity: 2, Quantity: 2}}

	saveOrder(t, repo, "cust-1", 35, 2025, 1, base, items)
	saveOrder(t, repo, "cust-1", 35, 2025, 5, base.AddDate(0, 0, 4), items)
	saveOrder(t, repo, "cust-1", 34, 2025, 5, base.AddDate(0, 0, -3), items)
	saveOrder(t, repo, "cust-2", 35, 2025, 5, base, items)

	orders, err := repo.Query(ctx, OrderQuery{CustomerID: "cust-1", WeekNumber: 35, Year: 2025})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	// Newest first.
	assert.True(t, orders[0].OrderDate.After(orders[1].OrderDate))

	orders, err = repo.Query(ctx, OrderQuery{CustomerID: "cust-1", WeekNumber: 35, Year: 2025, DayOfWeek: 5})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 5, orders[0].DayOfWeek)

	orders, err = repo.Query(ctx, OrderQuery{CustomerID: "cust-3", WeekNumber: 35, Year: 2025})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderQueryDecodesItems(t *testing.T) {
	repo := NewOrderRepository(setupDB(t))
	ctx := context.Background()

	saveOrder(t, repo, "cust-1", 35, 2025, 5, time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC),
		[]models.OrderItem{{RecipeID: "arroz", BaseQuantity: 2.5, Quantity: 2.5}})

	orders, err := repo.Query(ctx, OrderQuery{CustomerID: "cust-1", WeekNumber: 35, Year: 2025})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "arroz", orders[0].Items[0].RecipeID)
	assert.Equal(t, 2.5, orders[0].Items[0].BaseQuantity)
}

func TestOrderQuerySkipsUndecodablePayload(t *testing.T) {
	db := setupDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	good := &models.Order{
		OrderID:    "good",
		CustomerID: "cust-1",
		WeekNumber: 35, Year: 2025,
		OrderDate:          time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC),
		TotalMealsExpected: 50,
	}
	require.NoError(t, good.SetItems([]models.OrderItem{{RecipeID: "arroz"}}))
	require.NoError(t, db.Save(good).Error)

	bad := &models.Order{
		OrderID:    "bad",
		CustomerID: "cust-1",
		WeekNumber: 35, Year: 2025,
		OrderDate:          time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC),
		TotalMealsExpected: 50,
		ItemsJSON:          "{not json",
	}
	require.NoError(t, db.Save(bad).Error)

	orders, err := repo.Query(ctx, OrderQuery{CustomerID: "cust-1", WeekNumber: 35, Year: 2025})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "good", orders[0].OrderID)
}

func TestOrderSaveAssignsID(t *testing.T) {
	repo := NewOrderRepository(setupDB(t))

	order := &models.Order{CustomerID: "cust-1", WeekNumber: 35, Year: 2025, TotalMealsExpected: 50}
	require.NoError(t, repo.Save(context.Background(), order))
	assert.NotEmpty(t, order.OrderID)
}

func TestRecipeRoundTrip(t *testing.T) {
	repo := NewRecipeRepository(setupDB(t))
	ctx := context.Background()

	recipe := &models.Recipe{
		RecipeID: "picanha",
		Name:     "Picanha Grelhada",
		Category: "Carnes",
		UnitType: "kg",
		UnitCost: 52.90,
	}
	require.NoError(t, repo.Save(ctx, recipe))

	got, err := repo.GetByID(ctx, "picanha")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Picanha Grelhada", got.Name)
	// The unset adjustment column reads back as neutral multipliers.
	assert.Equal(t, 1.0, got.SuggestionAdjustment.RuptureMultiplier)
	assert.Equal(t, 1.0, got.SuggestionAdjustment.WasteMultiplier)
}

func TestRecipeGetByIDMissing(t *testing.T) {
	repo := NewRecipeRepository(setupDB(t))

	got, err := repo.GetByID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecipeUpdateAdjustmentPersists(t *testing.T) {
	repo := NewRecipeRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.Recipe{RecipeID: "picanha", Name: "Picanha"}))

	adj := models.SuggestionAdjustment{
		RuptureMultiplier: 1.5,
		WasteMultiplier:   0.8,
		LastUpdated:       time.Date(2025, 8, 29, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.UpdateAdjustment(ctx, "picanha", adj))

	got, err := repo.GetByID(ctx, "picanha")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1.5, got.SuggestionAdjustment.RuptureMultiplier)
	assert.Equal(t, 0.8, got.SuggestionAdjustment.WasteMultiplier)
	assert.True(t, adj.LastUpdated.Equal(got.SuggestionAdjustment.LastUpdated))
}
