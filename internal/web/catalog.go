package web

import (
	"net/http"

	"github.com/example/meal-reservations/internal/domain"
)

func (s *Server) handleRestaurantList(w http.ResponseWriter, r *http.Request) {
	rs, err := s.Restaurants.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rs))
}

func (s *Server) handleRestaurantGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	rest, err := s.Restaurants.Get(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (s *Server) handleRestaurantCreate(w http.ResponseWriter, r *http.Request) {
	var in domain.Restaurant
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	rest, err := s.Restaurants.Create(r.Context(), in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (s *Server) handleRestaurantUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	var in domain.Restaurant
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	rest, err := s.Restaurants.Update(r.Context(), id, in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (s *Server) handleRestaurantDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := s.Restaurants.Delete(r.Context(), id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMealList(w http.ResponseWriter, r *http.Request) {
	ms, err := s.Meals.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(ms))
}

func (s *Server) handleMealGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	m, err := s.Meals.Get(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleMealCreate(w http.ResponseWriter, r *http.Request) {
	var in domain.Meal
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	m, err := s.Meals.Create(r.Context(), in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleMealUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	var in domain.Meal
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	m, err := s.Meals.Update(r.Context(), id, in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleMealDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := s.Meals.Delete(r.Context(), id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMealsByRange(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	from, err := parseDate(r.URL.Query().Get("startDate"), "startDate")
	if err != nil {
		writeErr(w, err)
		return
	}
	to, err := parseDate(r.URL.Query().Get("endDate"), "endDate")
	if err != nil {
		writeErr(w, err)
		return
	}
	ms, err := s.Meals.ByRestaurantAndDateRange(r.Context(), id, from, to)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(ms))
}

func (s *Server) handleMealsByDate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	date, err := parseDate(r.PathValue("date"), "date")
	if err != nil {
		writeErr(w, err)
		return
	}
	ms, err := s.Meals.ByRestaurantAndDate(r.Context(), id, date)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(ms))
}

func (s *Server) handleMealsByType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	date, err := parseDate(r.PathValue("date"), "date")
	if err != nil {
		writeErr(w, err)
		return
	}
	ms, err := s.Meals.ByRestaurantDateAndType(r.Context(), id, date, r.PathValue("type"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(ms))
}
