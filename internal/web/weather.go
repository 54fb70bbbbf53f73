package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/example/meal-reservations/internal/weather"
)

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	location := strings.TrimSpace(q.Get("location"))
	if location == "" {
		writeError(w, http.StatusBadRequest, "location is required")
		return
	}

	today := s.Weather.Today()
	date := today
	if raw := q.Get("date"); raw != "" {
		d, err := parseDate(raw, "date")
		if err != nil {
			writeErr(w, err)
			return
		}
		if d.Before(today) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":   "Cannot get weather forecast for past dates",
				"message": "Please use current or future dates",
			})
			return
		}
		date = d
	}

	f, err := s.Weather.Forecast(r.Context(), date, location)
	if err != nil {
		if !errors.Is(err, weather.ErrFetch) {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "Weather forecast not available",
			"message": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	f := s.Weather.Current(r.Context(), r.URL.Query().Get("location"))
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Weather.Stats())
}
