// Package reservations implements the reservation lifecycle: creation with
// validation and seat accounting, cancel, mark-as-used and delete.
//
// A reservation starts ACTIVE (PENDING is never persisted) and moves to
// CANCELED or COMPLETED. Reservations are addressed by their code.
package reservations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/example/meal-reservations/internal/capacity"
	"github.com/example/meal-reservations/internal/domain"
	"github.com/example/meal-reservations/internal/store"
	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

const (
	msgNameRequired = "Customer name is required"
	msgInvalidEmail = "Invalid email format"
	msgPartySize    = "Number of people must be greater than 0"
	msgMealRequired = "Meal is required"
	msgMealNotFound = "Meal not found"
	msgNotFound     = "Reservation not found"
	msgAlreadyUsed  = "Reservation has already been used"
)

type Service struct {
	Reservations store.ReservationStore
	Meals        store.MealStore
	Ledger       *capacity.Ledger

	// Now and NewCode default to time.Now and NewCode.
	Now     func() time.Time
	NewCode func() string
}

func New(rs store.ReservationStore, ms store.MealStore, l *capacity.Ledger) *Service {
	return &Service{Reservations: rs, Meals: ms, Ledger: l, Now: time.Now, NewCode: NewCode}
}

// NewCode returns an 8 character uppercase reservation code.
func NewCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

func validate(r domain.Reservation) error {
	if strings.TrimSpace(r.CustomerName) == "" {
		return domain.Invalid(msgNameRequired)
	}
	if !emailPattern.MatchString(r.CustomerEmail) {
		return domain.Invalid(msgInvalidEmail)
	}
	if r.NumberOfPeople < 1 {
		return domain.Invalid(msgPartySize)
	}
	if r.MealID == 0 {
		return domain.Invalid(msgMealRequired)
	}
	return nil
}

// Create validates r, takes seats from the meal's restaurant and persists
// the reservation as ACTIVE with a fresh code.
func (s *Service) Create(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	if err := validate(r); err != nil {
		return domain.Reservation{}, err
	}

	meal, err := s.Meals.FindByID(ctx, r.MealID)
	if err != nil {
		if store.IsNotFound(err) {
			return domain.Reservation{}, domain.NotFound(msgMealNotFound)
		}
		return domain.Reservation{}, fmt.Errorf("load meal %d: %w", r.MealID, err)
	}

	if _, err := s.Ledger.Reserve(ctx, meal.RestaurantID, r.NumberOfPeople); err != nil {
		var ce *domain.CapacityError
		if errors.As(err, &ce) {
			log.Printf("reservations: rejected for meal %d: %s", meal.ID, ce.Detail())
		}
		return domain.Reservation{}, err
	}

	r.ID = 0
	r.ReservationCode = s.newCode()
	r.ReservationTime = s.now()
	r.Status = domain.StatusActive
	r.Used = false

	saved, err := s.Reservations.Save(ctx, r)
	if err != nil {
		if _, rerr := s.Ledger.Release(ctx, meal.RestaurantID, r.NumberOfPeople); rerr != nil {
			log.Printf("reservations: release after failed save for meal %d: %v", meal.ID, rerr)
		}
		return domain.Reservation{}, fmt.Errorf("save reservation: %w", err)
	}
	return saved, nil
}

// Cancel releases the party's seats and marks the reservation CANCELED.
// Cancelling a CANCELED reservation returns it unchanged.
func (s *Service) Cancel(ctx context.Context, code string) (domain.Reservation, error) {
	return s.transition(ctx, code, func(r domain.Reservation, seats capacity.Seats) (domain.Reservation, error) {
		if r.Used {
			return domain.Reservation{}, domain.Conflict(msgAlreadyUsed)
		}
		if r.Status == domain.StatusCanceled {
			return r, nil
		}
		r.Status = domain.StatusCanceled
		return s.releaseAndSave(ctx, seats, r)
	})
}

// MarkUsed completes the reservation.
func (s *Service) MarkUsed(ctx context.Context, code string) (domain.Reservation, error) {
	return s.transition(ctx, code, func(r domain.Reservation, seats capacity.Seats) (domain.Reservation, error) {
		if r.Used {
			return domain.Reservation{}, domain.Conflict(msgAlreadyUsed)
		}
		r.Used = true
		r.Status = domain.StatusCompleted
		// TODO: completing gives the seats back like Cancel does. Confirm whether
		// they should stay taken until the meal is over.
		return s.releaseAndSave(ctx, seats, r)
	})
}

// Delete removes a reservation. Seats come back only if the reservation
// was neither used nor canceled. CANCELED reservations are kept and
// returned as is.
func (s *Service) Delete(ctx context.Context, code string) (domain.Reservation, error) {
	return s.transition(ctx, code, func(r domain.Reservation, seats capacity.Seats) (domain.Reservation, error) {
		if r.Status == domain.StatusCanceled {
			return r, nil
		}
		if !r.Used {
			if _, err := seats.Release(ctx, r.NumberOfPeople); err != nil {
				return domain.Reservation{}, err
			}
		}
		if err := s.Reservations.Delete(ctx, r); err != nil {
			if !r.Used {
				s.retake(ctx, seats, r)
			}
			return domain.Reservation{}, fmt.Errorf("delete reservation %s: %w", r.ReservationCode, err)
		}
		return r, nil
	})
}

// transition runs fn on the reservation while its restaurant's seats are
// locked. The reservation is read again under the lock so concurrent
// transitions of one code see each other's writes.
func (s *Service) transition(ctx context.Context, code string, fn func(domain.Reservation, capacity.Seats) (domain.Reservation, error)) (domain.Reservation, error) {
	r, err := s.ByCode(ctx, code)
	if err != nil {
		return domain.Reservation{}, err
	}
	meal, err := s.Meals.FindByID(ctx, r.MealID)
	if err != nil {
		if store.IsNotFound(err) {
			return domain.Reservation{}, domain.NotFound(msgMealNotFound)
		}
		return domain.Reservation{}, fmt.Errorf("load meal %d: %w", r.MealID, err)
	}

	var out domain.Reservation
	err = s.Ledger.Update(meal.RestaurantID, func(seats capacity.Seats) error {
		cur, err := s.ByCode(ctx, code)
		if err != nil {
			return err
		}
		out, err = fn(cur, seats)
		return err
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return out, nil
}

// releaseAndSave gives the party's seats back and persists r. The seats
// are taken again if the save fails.
func (s *Service) releaseAndSave(ctx context.Context, seats capacity.Seats, r domain.Reservation) (domain.Reservation, error) {
	if _, err := seats.Release(ctx, r.NumberOfPeople); err != nil {
		return domain.Reservation{}, err
	}
	saved, err := s.Reservations.Save(ctx, r)
	if err != nil {
		s.retake(ctx, seats, r)
		return domain.Reservation{}, fmt.Errorf("save reservation %s: %w", r.ReservationCode, err)
	}
	return saved, nil
}

func (s *Service) retake(ctx context.Context, seats capacity.Seats, r domain.Reservation) {
	if _, err := seats.Reserve(ctx, r.NumberOfPeople); err != nil {
		log.Printf("reservations: retake seats for %s: %v", r.ReservationCode, err)
	}
}

func (s *Service) ByCode(ctx context.Context, code string) (domain.Reservation, error) {
	r, err := s.Reservations.FindByCode(ctx, code)
	if err != nil {
		if store.IsNotFound(err) {
			return domain.Reservation{}, domain.NotFound(msgNotFound)
		}
		return domain.Reservation{}, fmt.Errorf("find reservation %s: %w", code, err)
	}
	return r, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Reservation, error) {
	return s.Reservations.FindAll(ctx)
}

func (s *Service) ByMeal(ctx context.Context, mealID int64) ([]domain.Reservation, error) {
	return s.Reservations.FindByMeal(ctx, mealID)
}

func (s *Service) ByCustomerEmail(ctx context.Context, email string) ([]domain.Reservation, error) {
	return s.Reservations.FindByCustomerEmail(ctx, email)
}

// HasActiveReservations reports whether the meal has any reservation not yet used.
func (s *Service) HasActiveReservations(ctx context.Context, mealID int64) (bool, error) {
	return s.Reservations.ExistsUnusedByMeal(ctx, mealID)
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) newCode() string {
	if s.NewCode == nil {
		return NewCode()
	}
	return s.NewCode()
}
