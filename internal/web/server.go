package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/example/meal-reservations/internal/catalog"
	"github.com/example/meal-reservations/internal/domain"
	"github.com/example/meal-reservations/internal/reservations"
	"github.com/example/meal-reservations/internal/ticket"
	"github.com/example/meal-reservations/internal/weather"
	"github.com/rs/cors"
)

type Server struct {
	Restaurants  *catalog.RestaurantService
	Meals        *catalog.MealService
	Reservations *reservations.Service
	Weather      *weather.Engine
	Tickets      *ticket.Codec // nil disables check-in tickets

	CORSOrigins []string
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("GET /api/restaurants", s.handleRestaurantList)
	mux.HandleFunc("POST /api/restaurants", s.handleRestaurantCreate)
	mux.HandleFunc("GET /api/restaurants/{id}", s.handleRestaurantGet)
	mux.HandleFunc("PUT /api/restaurants/{id}", s.handleRestaurantUpdate)
	mux.HandleFunc("DELETE /api/restaurants/{id}", s.handleRestaurantDelete)

	mux.HandleFunc("GET /api/meals", s.handleMealList)
	mux.HandleFunc("POST /api/meals", s.handleMealCreate)
	mux.HandleFunc("GET /api/meals/{id}", s.handleMealGet)
	mux.HandleFunc("PUT /api/meals/{id}", s.handleMealUpdate)
	mux.HandleFunc("DELETE /api/meals/{id}", s.handleMealDelete)
	mux.HandleFunc("GET /api/meals/restaurant/{id}", s.handleMealsByRange)
	mux.HandleFunc("GET /api/meals/restaurant/{id}/date/{date}", s.handleMealsByDate)
	mux.HandleFunc("GET /api/meals/restaurant/{id}/date/{date}/type/{type}", s.handleMealsByType)

	mux.HandleFunc("GET /api/reservations", s.handleReservationList)
	mux.HandleFunc("POST /api/reservations", s.handleReservationCreate)
	mux.HandleFunc("GET /api/reservations/{code}", s.handleReservationGet)
	mux.HandleFunc("POST /api/reservations/{code}/cancel", s.handleReservationCancel)
	mux.HandleFunc("PUT /api/reservations/{code}/use", s.handleReservationUse)
	mux.HandleFunc("DELETE /api/reservations/{code}", s.handleReservationDelete)
	mux.HandleFunc("GET /api/reservations/meal/{mealId}", s.handleReservationsByMeal)
	mux.HandleFunc("GET /api/reservations/customer/{email}", s.handleReservationsByCustomer)
	mux.HandleFunc("POST /api/checkin", s.handleCheckin)

	mux.HandleFunc("GET /api/weather/forecast", s.handleForecast)
	mux.HandleFunc("GET /api/weather/current", s.handleCurrent)
	mux.HandleFunc("GET /api/weather/cache-stats", s.handleCacheStats)

	origins := s.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding"},
	})
	return logRequests(c.Handler(mux))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("web: %s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeErr maps service errors onto HTTP statuses.
func writeErr(w http.ResponseWriter, err error) {
	var (
		ve *domain.ValidationError
		nf *domain.NotFoundError
		ce *domain.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Msg)
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, nf.Msg)
	case errors.As(err, &ce):
		writeError(w, http.StatusConflict, ce.Msg)
	default:
		log.Printf("web: internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Invalid("Invalid request body")
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.Invalid("Invalid " + name)
	}
	return id, nil
}

func parseDate(s, field string) (domain.Date, error) {
	d, err := domain.ParseDate(s)
	if err != nil {
		return domain.Date{}, domain.Invalid("Invalid " + field + " (want YYYY-MM-DD)")
	}
	return d, nil
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func Start(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Printf("web: listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
