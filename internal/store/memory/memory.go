// Package memory is a process-local Store backend, used for demos
// (DATABASE_URL=memory://) and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/example/meal-reservations/internal/domain"
	"github.com/example/meal-reservations/internal/store"
)

func New() store.Store {
	return store.Store{
		Restaurants:  &Restaurants{rows: map[int64]domain.Restaurant{}},
		Meals:        &Meals{rows: map[int64]domain.Meal{}},
		Reservations: &Reservations{rows: map[int64]domain.Reservation{}},
		Forecasts:    &Forecasts{rows: map[int64]domain.Forecast{}},
	}
}

func sorted[T any](m map[int64]T) []T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

type Restaurants struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Restaurant
}

func (s *Restaurants) Save(_ context.Context, r domain.Restaurant) (domain.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		s.nextID++
		r.ID = s.nextID
	} else if _, ok := s.rows[r.ID]; !ok {
		return domain.Restaurant{}, store.ErrNotFound
	}
	s.rows[r.ID] = r
	return r, nil
}

func (s *Restaurants) FindByID(_ context.Context, id int64) (domain.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return domain.Restaurant{}, store.ErrNotFound
	}
	return r, nil
}

func (s *Restaurants) FindAll(_ context.Context) ([]domain.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sorted(s.rows), nil
}

func (s *Restaurants) ExistsByID(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[id]
	return ok, nil
}

func (s *Restaurants) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

type Meals struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Meal
}

func (s *Meals) Save(_ context.Context, m domain.Meal) (domain.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		s.nextID++
		m.ID = s.nextID
	} else if _, ok := s.rows[m.ID]; !ok {
		return domain.Meal{}, store.ErrNotFound
	}
	s.rows[m.ID] = m
	return m, nil
}

func (s *Meals) FindByID(_ context.Context, id int64) (domain.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[id]
	if !ok {
		return domain.Meal{}, store.ErrNotFound
	}
	return m, nil
}

func (s *Meals) FindAll(_ context.Context) ([]domain.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sorted(s.rows), nil
}

func (s *Meals) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

func (s *Meals) filter(keep func(domain.Meal) bool) []domain.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Meal
	for _, m := range sorted(s.rows) {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func (s *Meals) FindByRestaurantAndDateRange(_ context.Context, restaurantID int64, from, to domain.Date) ([]domain.Meal, error) {
	return s.filter(func(m domain.Meal) bool {
		return m.RestaurantID == restaurantID && !m.Date.Before(from) && !m.Date.After(to)
	}), nil
}

func (s *Meals) FindByRestaurantAndDate(_ context.Context, restaurantID int64, date domain.Date) ([]domain.Meal, error) {
	return s.filter(func(m domain.Meal) bool {
		return m.RestaurantID == restaurantID && m.Date.Equal(date)
	}), nil
}

func (s *Meals) FindByRestaurantDateAndType(_ context.Context, restaurantID int64, date domain.Date, mealType string) ([]domain.Meal, error) {
	return s.filter(func(m domain.Meal) bool {
		return m.RestaurantID == restaurantID && m.Date.Equal(date) && m.MealType == mealType
	}), nil
}

type Reservations struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Reservation
}

func (s *Reservations) Save(_ context.Context, r domain.Reservation) (domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		s.nextID++
		r.ID = s.nextID
	} else if _, ok := s.rows[r.ID]; !ok {
		return domain.Reservation{}, store.ErrNotFound
	}
	s.rows[r.ID] = r
	return r, nil
}

func (s *Reservations) FindByID(_ context.Context, id int64) (domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return domain.Reservation{}, store.ErrNotFound
	}
	return r, nil
}

func (s *Reservations) FindAll(_ context.Context) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sorted(s.rows), nil
}

func (s *Reservations) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

func (s *Reservations) Delete(ctx context.Context, r domain.Reservation) error {
	return s.DeleteByID(ctx, r.ID)
}

func (s *Reservations) filter(keep func(domain.Reservation) bool) []domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Reservation
	for _, r := range sorted(s.rows) {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Reservations) FindByCode(_ context.Context, code string) (domain.Reservation, error) {
	found := s.filter(func(r domain.Reservation) bool { return r.ReservationCode == code })
	if len(found) == 0 {
		return domain.Reservation{}, store.ErrNotFound
	}
	return found[0], nil
}

func (s *Reservations) FindByMeal(_ context.Context, mealID int64) ([]domain.Reservation, error) {
	return s.filter(func(r domain.Reservation) bool { return r.MealID == mealID }), nil
}

func (s *Reservations) FindByCustomerEmail(_ context.Context, email string) ([]domain.Reservation, error) {
	return s.filter(func(r domain.Reservation) bool { return r.CustomerEmail == email }), nil
}

func (s *Reservations) ExistsUnusedByMeal(_ context.Context, mealID int64) (bool, error) {
	found := s.filter(func(r domain.Reservation) bool { return r.MealID == mealID && !r.Used })
	return len(found) > 0, nil
}

type Forecasts struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Forecast
}

func (s *Forecasts) Save(_ context.Context, f domain.Forecast) (domain.Forecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID == 0 {
		for id, existing := range s.rows {
			if existing.Date.Equal(f.Date) && existing.Location == f.Location {
				f.ID = id
				break
			}
		}
		if f.ID == 0 {
			s.nextID++
			f.ID = s.nextID
		}
	} else if _, ok := s.rows[f.ID]; !ok {
		return domain.Forecast{}, store.ErrNotFound
	}
	s.rows[f.ID] = f
	return f, nil
}

func (s *Forecasts) FindByID(_ context.Context, id int64) (domain.Forecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.rows[id]
	if !ok {
		return domain.Forecast{}, store.ErrNotFound
	}
	return f, nil
}

func (s *Forecasts) FindAll(_ context.Context) ([]domain.Forecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sorted(s.rows), nil
}

func (s *Forecasts) FindByDateAndLocation(_ context.Context, date domain.Date, location string) (domain.Forecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range sorted(s.rows) {
		if f.Date.Equal(date) && f.Location == location {
			return f, nil
		}
	}
	return domain.Forecast{}, store.ErrNotFound
}
