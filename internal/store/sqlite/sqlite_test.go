package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/meal-reservations/internal/domain"
	"github.com/example/meal-reservations/internal/migrate"
	"github.com/example/meal-reservations/internal/store"
)

func openTest(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	d, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := migrate.Up(ctx, d, migrate.SQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// second run is a no-op
	if err := migrate.Up(ctx, d, migrate.SQLite); err != nil {
		t.Fatalf("migrate again: %v", err)
	}
	return New(d)
}

func TestRestaurantRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	r, err := s.Restaurants.Save(ctx, domain.Restaurant{Name: "Cantina", Location: "Aveiro,PT", Capacity: 40, OperatingHours: "12-15"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if r.ID == 0 {
		t.Fatal("expected id to be assigned")
	}

	r.Capacity = 35
	if _, err := s.Restaurants.Save(ctx, r); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.Restaurants.FindByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != r {
		t.Fatalf("got %+v, want %+v", got, r)
	}

	ok, err := s.Restaurants.ExistsByID(ctx, r.ID)
	if err != nil || !ok {
		t.Fatalf("exists = %v, %v", ok, err)
	}

	if _, err := s.Restaurants.Save(ctx, domain.Restaurant{ID: 999, Name: "ghost"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update of missing row: got %v, want ErrNotFound", err)
	}

	if err := s.Restaurants.DeleteByID(ctx, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Restaurants.FindByID(ctx, r.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("find after delete: got %v", err)
	}
}

func TestMealQueries(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	r, _ := s.Restaurants.Save(ctx, domain.Restaurant{Name: "Cantina", Capacity: 10})
	day := domain.NewDate(2026, 3, 10)
	for i, mt := range []string{"LUNCH", "DINNER", "LUNCH"} {
		if _, err := s.Meals.Save(ctx, domain.Meal{RestaurantID: r.ID, Name: "m", Price: 4.5, Date: day.AddDays(i), MealType: mt}); err != nil {
			t.Fatalf("save meal: %v", err)
		}
	}

	inRange, err := s.Meals.FindByRestaurantAndDateRange(ctx, r.ID, day, day.AddDays(1))
	if err != nil {
		t.Fatal(err)
	}
	if len(inRange) != 2 {
		t.Fatalf("range: got %d meals, want 2", len(inRange))
	}
	if !inRange[0].Date.Equal(day) {
		t.Fatalf("date round trip: got %s", inRange[0].Date)
	}

	lunch, err := s.Meals.FindByRestaurantDateAndType(ctx, r.ID, day.AddDays(2), "LUNCH")
	if err != nil || len(lunch) != 1 {
		t.Fatalf("by type: %d, %v", len(lunch), err)
	}
	onDay, err := s.Meals.FindByRestaurantAndDate(ctx, r.ID, day.AddDays(1))
	if err != nil || len(onDay) != 1 || onDay[0].MealType != "DINNER" {
		t.Fatalf("by date: %+v, %v", onDay, err)
	}
}

func TestReservationFinders(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	r, _ := s.Restaurants.Save(ctx, domain.Restaurant{Name: "Cantina", Capacity: 10})
	m, _ := s.Meals.Save(ctx, domain.Meal{RestaurantID: r.ID, Name: "m", Date: domain.NewDate(2026, 3, 10)})

	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	res, err := s.Reservations.Save(ctx, domain.Reservation{
		MealID: m.ID, CustomerName: "Ana", CustomerEmail: "ana@example.com", NumberOfPeople: 2,
		ReservationTime: at, ReservationCode: "ABCD1234", Status: domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Reservations.FindByCode(ctx, "ABCD1234")
	if err != nil {
		t.Fatalf("by code: %v", err)
	}
	if !got.ReservationTime.Equal(at) || got.Status != domain.StatusActive || got.Used {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	unused, err := s.Reservations.ExistsUnusedByMeal(ctx, m.ID)
	if err != nil || !unused {
		t.Fatalf("exists unused = %v, %v", unused, err)
	}

	res.Used = true
	res.Status = domain.StatusCompleted
	if _, err := s.Reservations.Save(ctx, res); err != nil {
		t.Fatalf("update: %v", err)
	}
	unused, _ = s.Reservations.ExistsUnusedByMeal(ctx, m.ID)
	if unused {
		t.Fatal("expected no unused reservations after marking used")
	}

	byEmail, _ := s.Reservations.FindByCustomerEmail(ctx, "ana@example.com")
	byMeal, _ := s.Reservations.FindByMeal(ctx, m.ID)
	if len(byEmail) != 1 || len(byMeal) != 1 {
		t.Fatalf("finders: email=%d meal=%d", len(byEmail), len(byMeal))
	}

	if err := s.Reservations.Delete(ctx, res); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Reservations.FindByCode(ctx, "ABCD1234"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("after delete: %v", err)
	}
}

func TestForecastUpsert(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	day := domain.NewDate(2026, 3, 10)
	first, err := s.Forecasts.Save(ctx, domain.Forecast{Date: day, Location: "Aveiro,PT", Temperature: 18, Description: "clear sky", Timestamp: 1})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := s.Forecasts.Save(ctx, domain.Forecast{Date: day, Location: "Aveiro,PT", Temperature: 21, Description: "rain", Timestamp: 2})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("upsert created a new row: %d vs %d", first.ID, second.ID)
	}

	got, err := s.Forecasts.FindByDateAndLocation(ctx, day, "Aveiro,PT")
	if err != nil {
		t.Fatal(err)
	}
	if got.Temperature != 21 || got.Description != "rain" {
		t.Fatalf("got %+v", got)
	}
	all, _ := s.Forecasts.FindAll(ctx)
	if len(all) != 1 {
		t.Fatalf("FindAll: %d rows", len(all))
	}
}
