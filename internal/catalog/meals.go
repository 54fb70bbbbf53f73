package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/meal-reservations/internal/domain"
	"github.com/example/meal-reservations/internal/store"
)

type MealService struct {
	Meals       store.MealStore
	Restaurants store.RestaurantStore
}

func (s *MealService) List(ctx context.Context) ([]domain.Meal, error) {
	return s.Meals.FindAll(ctx)
}

func (s *MealService) Get(ctx context.Context, id int64) (domain.Meal, error) {
	m, err := s.Meals.FindByID(ctx, id)
	if err != nil {
		return domain.Meal{}, mealErr(id, err)
	}
	return m, nil
}

// ByRestaurantAndDateRange lists meals served between from and to, inclusive.
func (s *MealService) ByRestaurantAndDateRange(ctx context.Context, restaurantID int64, from, to domain.Date) ([]domain.Meal, error) {
	if to.Before(from) {
		return nil, domain.Invalid("End date must not be before start date")
	}
	return s.Meals.FindByRestaurantAndDateRange(ctx, restaurantID, from, to)
}

func (s *MealService) ByRestaurantAndDate(ctx context.Context, restaurantID int64, date domain.Date) ([]domain.Meal, error) {
	return s.Meals.FindByRestaurantAndDate(ctx, restaurantID, date)
}

func (s *MealService) ByRestaurantDateAndType(ctx context.Context, restaurantID int64, date domain.Date, mealType string) ([]domain.Meal, error) {
	return s.Meals.FindByRestaurantDateAndType(ctx, restaurantID, date, mealType)
}

// Create persists m if its restaurant exists.
func (s *MealService) Create(ctx context.Context, m domain.Meal) (domain.Meal, error) {
	if err := validateMeal(m); err != nil {
		return domain.Meal{}, err
	}
	ok, err := s.Restaurants.ExistsByID(ctx, m.RestaurantID)
	if err != nil {
		return domain.Meal{}, fmt.Errorf("check restaurant %d: %w", m.RestaurantID, err)
	}
	if !ok {
		return domain.Meal{}, domain.NotFound("Restaurant not found")
	}
	m.ID = 0
	return s.Meals.Save(ctx, m)
}

// Update overwrites name, description, price, date and meal type. The owning
// restaurant never changes.
func (s *MealService) Update(ctx context.Context, id int64, in domain.Meal) (domain.Meal, error) {
	if err := validateMeal(in); err != nil {
		return domain.Meal{}, err
	}
	m, err := s.Meals.FindByID(ctx, id)
	if err != nil {
		return domain.Meal{}, mealErr(id, err)
	}
	m.Name = in.Name
	m.Description = in.Description
	m.Price = in.Price
	m.Date = in.Date
	m.MealType = in.MealType
	return s.Meals.Save(ctx, m)
}

func (s *MealService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Meals.FindByID(ctx, id); err != nil {
		return mealErr(id, err)
	}
	return s.Meals.DeleteByID(ctx, id)
}

func validateMeal(m domain.Meal) error {
	if strings.TrimSpace(m.Name) == "" {
		return domain.Invalid("Meal name is required")
	}
	if m.Date.IsZero() {
		return domain.Invalid("Meal date is required")
	}
	return nil
}

func mealErr(id int64, err error) error {
	if store.IsNotFound(err) {
		return domain.NotFound("Meal not found")
	}
	return fmt.Errorf("find meal %d: %w", id, err)
}
