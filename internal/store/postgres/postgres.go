// Package postgres implements the entity stores over pgx.
package postgres

import (
	"github.com/example/meal-reservations/internal/db"
	"github.com/example/meal-reservations/internal/store"
)

func New(d *db.DB) store.Store {
	return store.Store{
		Restaurants:  &RestaurantRepo{db: d},
		Meals:        &MealRepo{db: d},
		Reservations: &ReservationRepo{db: d},
		Forecasts:    &ForecastRepo{db: d},
	}
}
