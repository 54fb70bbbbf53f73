package web

import (
	"log"
	"net/http"

	"github.com/example/meal-reservations/internal/domain"
)

type createReservationRequest struct {
	domain.Reservation
	// Meal is accepted as {"meal": {"id": 1}} as well as "mealId".
	Meal *struct {
		ID int64 `json:"id"`
	} `json:"meal,omitempty"`
}

type reservationResponse struct {
	domain.Reservation
	Ticket string `json:"ticket,omitempty"`
}

func (s *Server) handleReservationList(w http.ResponseWriter, r *http.Request) {
	rs, err := s.Reservations.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rs))
}

func (s *Server) handleReservationCreate(w http.ResponseWriter, r *http.Request) {
	var in createReservationRequest
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	if in.MealID == 0 && in.Meal != nil {
		in.MealID = in.Meal.ID
	}

	res, err := s.Reservations.Create(r.Context(), in.Reservation)
	if err != nil {
		writeErr(w, err)
		return
	}

	out := reservationResponse{Reservation: res}
	if s.Tickets != nil {
		tk, err := s.Tickets.Issue(res.ReservationCode)
		if err != nil {
			log.Printf("web: issue ticket for %s: %v", res.ReservationCode, err)
		}
		out.Ticket = tk
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReservationGet(w http.ResponseWriter, r *http.Request) {
	res, err := s.Reservations.ByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReservationCancel(w http.ResponseWriter, r *http.Request) {
	res, err := s.Reservations.Cancel(r.Context(), r.PathValue("code"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReservationUse(w http.ResponseWriter, r *http.Request) {
	res, err := s.Reservations.MarkUsed(r.Context(), r.PathValue("code"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReservationDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Reservations.Delete(r.Context(), r.PathValue("code")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleReservationsByMeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "mealId")
	if err != nil {
		writeErr(w, err)
		return
	}
	rs, err := s.Reservations.ByMeal(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rs))
}

func (s *Server) handleReservationsByCustomer(w http.ResponseWriter, r *http.Request) {
	rs, err := s.Reservations.ByCustomerEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rs))
}

func (s *Server) handleCheckin(w http.ResponseWriter, r *http.Request) {
	if s.Tickets == nil {
		http.NotFound(w, r)
		return
	}
	var in struct {
		Ticket string `json:"ticket"`
	}
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	code, err := s.Tickets.Code(in.Ticket)
	if err != nil {
		writeErr(w, domain.Invalid("Invalid or expired ticket"))
		return
	}
	res, err := s.Reservations.MarkUsed(r.Context(), code)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
