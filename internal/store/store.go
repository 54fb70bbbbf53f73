// Package store defines the persistence contract for every entity kind.
// Backends live in subpackages: postgres (pgx), sqlite (modernc) and memory.
package store

import (
	"context"
	"errors"

	"github.com/example/meal-reservations/internal/domain"
)

// ErrNotFound is returned by finders when no entity matches.
var ErrNotFound = errors.New("not found")

// Save inserts when the entity's ID is zero (assigning one) and updates otherwise.

type RestaurantStore interface {
	Save(ctx context.Context, r domain.Restaurant) (domain.Restaurant, error)
	FindByID(ctx context.Context, id int64) (domain.Restaurant, error)
	FindAll(ctx context.Context) ([]domain.Restaurant, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
}

type MealStore interface {
	Save(ctx context.Context, m domain.Meal) (domain.Meal, error)
	FindByID(ctx context.Context, id int64) (domain.Meal, error)
	FindAll(ctx context.Context) ([]domain.Meal, error)
	DeleteByID(ctx context.Context, id int64) error
	// FindByRestaurantAndDateRange is inclusive on both ends.
	FindByRestaurantAndDateRange(ctx context.Context, restaurantID int64, from, to domain.Date) ([]domain.Meal, error)
	FindByRestaurantAndDate(ctx context.Context, restaurantID int64, date domain.Date) ([]domain.Meal, error)
	FindByRestaurantDateAndType(ctx context.Context, restaurantID int64, date domain.Date, mealType string) ([]domain.Meal, error)
}

type ReservationStore interface {
	Save(ctx context.Context, r domain.Reservation) (domain.Reservation, error)
	FindByID(ctx context.Context, id int64) (domain.Reservation, error)
	FindAll(ctx context.Context) ([]domain.Reservation, error)
	DeleteByID(ctx context.Context, id int64) error
	Delete(ctx context.Context, r domain.Reservation) error
	FindByCode(ctx context.Context, code string) (domain.Reservation, error)
	FindByMeal(ctx context.Context, mealID int64) ([]domain.Reservation, error)
	FindByCustomerEmail(ctx context.Context, email string) ([]domain.Reservation, error)
	ExistsUnusedByMeal(ctx context.Context, mealID int64) (bool, error)
}

type ForecastStore interface {
	// Save with a zero ID upserts on (date, location).
	Save(ctx context.Context, f domain.Forecast) (domain.Forecast, error)
	FindByID(ctx context.Context, id int64) (domain.Forecast, error)
	FindAll(ctx context.Context) ([]domain.Forecast, error)
	FindByDateAndLocation(ctx context.Context, date domain.Date, location string) (domain.Forecast, error)
}

// Store bundles one store per entity kind over a single backend.
type Store struct {
	Restaurants  RestaurantStore
	Meals        MealStore
	Reservations ReservationStore
	Forecasts    ForecastStore
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
