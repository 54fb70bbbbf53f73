package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/example/meal-reservations/internal/capacity"
	"github.com/example/meal-reservations/internal/catalog"
	"github.com/example/meal-reservations/internal/domain"
	"github.com/example/meal-reservations/internal/reservations"
	"github.com/example/meal-reservations/internal/store"
	"github.com/example/meal-reservations/internal/store/memory"
	"github.com/example/meal-reservations/internal/ticket"
	"github.com/example/meal-reservations/internal/weather"
)

type stubProvider struct {
	resp weather.Response
	err  error
}

func (p stubProvider) Forecast(context.Context, weather.Query) (weather.Response, error) {
	return p.resp, p.err
}

var now = time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, p weather.Provider) (http.Handler, store.Store) {
	t.Helper()
	st := memory.New()
	ledger := capacity.NewLedger(st.Restaurants)
	svc := reservations.New(st.Reservations, st.Meals, ledger)
	svc.Now = func() time.Time { return now }

	s := &Server{
		Restaurants:  &catalog.RestaurantService{Restaurants: st.Restaurants, Locker: ledger},
		Meals:        &catalog.MealService{Meals: st.Meals, Restaurants: st.Restaurants},
		Reservations: svc,
		Weather:      weather.NewEngine(p, st.Forecasts, weather.Options{Now: func() time.Time { return now }}),
		Tickets:      ticket.New(bytes.Repeat([]byte{1}, 64), bytes.Repeat([]byte{2}, 32)),
	}
	return s.Routes(), st
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestReservationFlow(t *testing.T) {
	h, _ := newTestServer(t, stubProvider{})

	rec := do(t, h, http.MethodPost, "/api/restaurants", map[string]any{"name": "Cantina", "location": "Aveiro,PT", "capacity": 10})
	if rec.Code != http.StatusOK {
		t.Fatalf("create restaurant: %d %s", rec.Code, rec.Body)
	}
	rest := decodeBody[domain.Restaurant](t, rec)

	rec = do(t, h, http.MethodPost, "/api/meals", map[string]any{"restaurantId": rest.ID, "name": "Bacalhau", "date": "2026-07-02", "mealType": "DINNER"})
	if rec.Code != http.StatusOK {
		t.Fatalf("create meal: %d %s", rec.Code, rec.Body)
	}
	meal := decodeBody[domain.Meal](t, rec)

	rec = do(t, h, http.MethodPost, "/api/reservations", map[string]any{
		"meal": map[string]any{"id": meal.ID}, "customerName": "Ana", "customerEmail": "ana@example.com", "numberOfPeople": 4,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create reservation: %d %s", rec.Code, rec.Body)
	}
	res := decodeBody[reservationResponse](t, rec)
	if res.Status != domain.StatusActive || res.Ticket == "" || len(res.ReservationCode) != 8 {
		t.Fatalf("reservation = %+v", res)
	}

	got := decodeBody[domain.Restaurant](t, do(t, h, http.MethodGet, "/api/restaurants/"+itoa(rest.ID), nil))
	if got.Capacity != 6 {
		t.Fatalf("capacity = %d, want 6", got.Capacity)
	}

	rec = do(t, h, http.MethodPost, "/api/checkin", map[string]string{"ticket": res.Ticket})
	if rec.Code != http.StatusOK {
		t.Fatalf("checkin: %d %s", rec.Code, rec.Body)
	}
	used := decodeBody[domain.Reservation](t, rec)
	if !used.Used || used.Status != domain.StatusCompleted {
		t.Fatalf("after checkin: %+v", used)
	}

	rec = do(t, h, http.MethodPut, "/api/reservations/"+res.ReservationCode+"/use", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second use: %d", rec.Code)
	}
	rec = do(t, h, http.MethodPost, "/api/reservations/"+res.ReservationCode+"/cancel", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("cancel used: %d", rec.Code)
	}

	byMeal := decodeBody[[]domain.Reservation](t, do(t, h, http.MethodGet, "/api/reservations/meal/"+itoa(meal.ID), nil))
	if len(byMeal) != 1 {
		t.Fatalf("by meal = %d", len(byMeal))
	}

	if rec := do(t, h, http.MethodDelete, "/api/reservations/"+res.ReservationCode, nil); rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/reservations/"+res.ReservationCode, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", rec.Code)
	}
}

func TestReservationErrors(t *testing.T) {
	h, st := newTestServer(t, stubProvider{})
	ctx := context.Background()
	r, _ := st.Restaurants.Save(ctx, domain.Restaurant{Name: "r", Capacity: 1})
	m, _ := st.Meals.Save(ctx, domain.Meal{RestaurantID: r.ID, Name: "m", Date: domain.NewDate(2026, 7, 2)})

	tests := []struct {
		name string
		body map[string]any
		code int
		msg  string
	}{
		{"bad email", map[string]any{"mealId": m.ID, "customerName": "Ana", "customerEmail": "invalid-email", "numberOfPeople": 1}, 400, "Invalid email format"},
		{"over capacity", map[string]any{"mealId": m.ID, "customerName": "Ana", "customerEmail": "a@b.pt", "numberOfPeople": 2}, 400, "Not enough capacity in the restaurant"},
		{"unknown meal", map[string]any{"mealId": 99, "customerName": "Ana", "customerEmail": "a@b.pt", "numberOfPeople": 1}, 404, "Meal not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/reservations", tt.body)
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.code, rec.Body)
			}
			if got := decodeBody[map[string]string](t, rec)["error"]; got != tt.msg {
				t.Fatalf("error = %q, want %q", got, tt.msg)
			}
		})
	}

	for _, path := range []string{"/api/reservations/NOPE0000/cancel"} {
		if rec := do(t, h, http.MethodPost, path, nil); rec.Code != http.StatusNotFound {
			t.Fatalf("%s: %d", path, rec.Code)
		}
	}
	if rec := do(t, h, http.MethodDelete, "/api/reservations/NOPE0000", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("delete unknown: %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/checkin", map[string]string{"ticket": "forged"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("forged ticket: %d", rec.Code)
	}
}

func TestForecastEndpoints(t *testing.T) {
	today := domain.DateOf(now)
	p := stubProvider{resp: weather.Response{Samples: []weather.Sample{
		{Timestamp: today.Unix() + 3600, Temperature: 24, Humidity: 50, WindSpeed: 2, Descriptions: []string{"sunny"}},
	}}}
	h, _ := newTestServer(t, p)

	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodGet, "/api/weather/forecast?location=Aveiro", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("forecast: %d %s", rec.Code, rec.Body)
		}
		f := decodeBody[domain.Forecast](t, rec)
		if f.Temperature != 24 || f.Description != "sunny" {
			t.Fatalf("forecast = %+v", f)
		}
	}

	stats := decodeBody[weather.Stats](t, do(t, h, http.MethodGet, "/api/weather/cache-stats", nil))
	if stats != (weather.Stats{TotalRequests: 2, CacheHits: 1, CacheMisses: 1, HitRate: 0.5}) {
		t.Fatalf("stats = %+v", stats)
	}

	rec := do(t, h, http.MethodGet, "/api/weather/forecast?location=Aveiro&date="+today.AddDays(-1).String(), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("past date: %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/weather/forecast", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing location: %d", rec.Code)
	}
}

func TestForecastProviderFailure(t *testing.T) {
	h, _ := newTestServer(t, stubProvider{err: context.DeadlineExceeded})

	rec := do(t, h, http.MethodGet, "/api/weather/forecast?location=Aveiro", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeBody[map[string]string](t, rec)["error"]; got != "Weather forecast not available" {
		t.Fatalf("error = %q", got)
	}

	cur := decodeBody[domain.Forecast](t, do(t, h, http.MethodGet, "/api/weather/current", nil))
	if cur.Location != "Aveiro,PT" || cur.Description != "Partly cloudy" {
		t.Fatalf("current = %+v", cur)
	}
}

func TestRestaurantNotFound(t *testing.T) {
	h, _ := newTestServer(t, stubProvider{})
	if rec := do(t, h, http.MethodGet, "/api/restaurants/5", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/restaurants/abc", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	rec := do(t, h, http.MethodGet, "/api/restaurants", nil)
	if rec.Body.String() != "[]\n" {
		t.Fatalf("empty list body = %q", rec.Body.String())
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
