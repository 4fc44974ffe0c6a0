package suggestion

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"cantina/internal/models"
	"cantina/internal/repository"
)

// Loader fetches a bounded window of past orders for one customer. Week
// lookups are independent, so they are fanned out concurrently and
// concatenated in week order afterwards.
type Loader struct {
	orders repository.OrderRepository
	now    func() time.Time
}

// NewLoader creates a history loader over the given order repository.
func NewLoader(orders repository.OrderRepository) *Loader {
	return &Loader{orders: orders, now: time.Now}
}

// Load returns the customer's orders for the last lookbackWeeks ISO weeks,
// optionally restricted to a single weekday (1=Monday..5=Friday, 0=any).
// A failed week degrades to an empty slice for that week; an empty overall
// result is valid and simply means "no history".
func (l *Loader) Load(ctx context.Context, customerID string, lookbackWeeks, dayOfWeek int) []models.Order {
	if lookbackWeeks <= 0 {
		lookbackWeeks = 8
	}

	year, week := l.now().ISOWeek()
	perWeek := make([][]models.Order, lookbackWeeks)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < lookbackWeeks; i++ {
		i := i
		w, y := week-i, year
		// 52-week approximation when wrapping into the prior year.
		if w <= 0 {
			w += 52
			y--
		}
		g.Go(func() error {
			orders, err := l.orders.Query(gctx, repository.OrderQuery{
				CustomerID: customerID,
				WeekNumber: w,
				Year:       y,
				DayOfWeek:  dayOfWeek,
			})
			if err != nil {
				log.Warn().Err(err).
					Str("customer_id", customerID).
					Int("week", w).Int("year", y).
					Msg("history query failed, skipping week")
				return nil
			}
			perWeek[i] = orders
			return nil
		})
	}
	_ = g.Wait()

	var all []models.Order
	for _, orders := range perWeek {
		all = append(all, orders...)
	}
	return all
}
