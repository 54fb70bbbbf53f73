// Package catalog holds the restaurant and meal CRUD services.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/meal-reservations/internal/domain"
	"github.com/example/meal-reservations/internal/store"
)

// Locker serializes writes to a restaurant's capacity. *capacity.Ledger
// satisfies it.
type Locker interface {
	Lock(restaurantID int64) (unlock func())
}

type RestaurantService struct {
	Restaurants store.RestaurantStore
	Locker      Locker
}

func (s *RestaurantService) List(ctx context.Context) ([]domain.Restaurant, error) {
	rs, err := s.Restaurants.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rs {
		rs[i].Location = domain.NormalizeLocation(rs[i].Location)
	}
	return rs, nil
}

func (s *RestaurantService) Get(ctx context.Context, id int64) (domain.Restaurant, error) {
	r, err := s.Restaurants.FindByID(ctx, id)
	if err != nil {
		return domain.Restaurant{}, restaurantErr(id, err)
	}
	r.Location = domain.NormalizeLocation(r.Location)
	return r, nil
}

func (s *RestaurantService) Create(ctx context.Context, r domain.Restaurant) (domain.Restaurant, error) {
	if err := validateRestaurant(r); err != nil {
		return domain.Restaurant{}, err
	}
	r.ID = 0
	return s.Restaurants.Save(ctx, r)
}

// Update overwrites every editable field of restaurant id.
func (s *RestaurantService) Update(ctx context.Context, id int64, in domain.Restaurant) (domain.Restaurant, error) {
	if err := validateRestaurant(in); err != nil {
		return domain.Restaurant{}, err
	}
	if s.Locker != nil {
		unlock := s.Locker.Lock(id)
		defer unlock()
	}

	r, err := s.Restaurants.FindByID(ctx, id)
	if err != nil {
		return domain.Restaurant{}, restaurantErr(id, err)
	}
	r.Name = in.Name
	r.Location = in.Location
	r.Capacity = in.Capacity
	r.OperatingHours = in.OperatingHours
	return s.Restaurants.Save(ctx, r)
}

func (s *RestaurantService) Delete(ctx context.Context, id int64) error {
	ok, err := s.Restaurants.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("Restaurant not found")
	}
	return s.Restaurants.DeleteByID(ctx, id)
}

func validateRestaurant(r domain.Restaurant) error {
	if strings.TrimSpace(r.Name) == "" {
		return domain.Invalid("Restaurant name is required")
	}
	if r.Capacity < 0 {
		return domain.Invalid("Capacity must not be negative")
	}
	return nil
}

func restaurantErr(id int64, err error) error {
	if store.IsNotFound(err) {
		return domain.NotFound("Restaurant not found")
	}
	return fmt.Errorf("find restaurant %d: %w", id, err)
}
