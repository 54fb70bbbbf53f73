// Package capacity keeps a restaurant's available seat count in step with
// reservation transitions.
package capacity

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/meal-reservations/internal/domain"
	"github.com/example/meal-reservations/internal/store"
)

// Ledger reserves and releases seats. Mutations for one restaurant are
// serialized so a read-modify-write never loses a concurrent update.
// The ledger does not deduplicate: callers invoke Reserve/Release at most
// once per transition.
type Ledger struct {
	restaurants store.RestaurantStore

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewLedger(rs store.RestaurantStore) *Ledger {
	return &Ledger{restaurants: rs, locks: map[int64]*sync.Mutex{}}
}

// Lock takes the per-restaurant lock that Update holds. Other
// writers of Restaurant.Capacity (catalog updates) hold it too.
func (l *Ledger) Lock(restaurantID int64) (unlock func()) {
	l.mu.Lock()
	m, ok := l.locks[restaurantID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[restaurantID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Reserve takes n seats from the restaurant. It returns a *domain.CapacityError
// and leaves the restaurant untouched when fewer than n seats are free.
func (l *Ledger) Reserve(ctx context.Context, restaurantID int64, n int) (r domain.Restaurant, err error) {
	err = l.Update(restaurantID, func(s Seats) error {
		r, err = s.Reserve(ctx, n)
		return err
	})
	return r, err
}

// Release returns n seats to the restaurant.
func (l *Ledger) Release(ctx context.Context, restaurantID int64, n int) (r domain.Restaurant, err error) {
	err = l.Update(restaurantID, func(s Seats) error {
		r, err = s.Release(ctx, n)
		return err
	})
	return r, err
}

// Update runs fn while holding the restaurant's lock. Callers that must
// check some other state before moving seats do both inside fn. fn must
// not call back into the Ledger for the same restaurant.
func (l *Ledger) Update(restaurantID int64, fn func(Seats) error) error {
	unlock := l.Lock(restaurantID)
	defer unlock()
	return fn(Seats{l: l, id: restaurantID})
}

// Seats moves seats of one restaurant whose lock is already held.
// It is only valid inside the Update callback that produced it.
type Seats struct {
	l  *Ledger
	id int64
}

func (s Seats) Reserve(ctx context.Context, n int) (domain.Restaurant, error) {
	r, err := s.l.load(ctx, s.id)
	if err != nil {
		return domain.Restaurant{}, err
	}
	if r.Capacity < n {
		return r, &domain.CapacityError{RestaurantID: s.id, Requested: n, Available: r.Capacity}
	}
	r.Capacity -= n
	return s.l.save(ctx, r)
}

func (s Seats) Release(ctx context.Context, n int) (domain.Restaurant, error) {
	r, err := s.l.load(ctx, s.id)
	if err != nil {
		return domain.Restaurant{}, err
	}
	r.Capacity += n
	return s.l.save(ctx, r)
}

func (l *Ledger) load(ctx context.Context, id int64) (domain.Restaurant, error) {
	r, err := l.restaurants.FindByID(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return domain.Restaurant{}, domain.NotFound("Restaurant not found")
		}
		return domain.Restaurant{}, fmt.Errorf("load restaurant %d: %w", id, err)
	}
	return r, nil
}

func (l *Ledger) save(ctx context.Context, r domain.Restaurant) (domain.Restaurant, error) {
	saved, err := l.restaurants.Save(ctx, r)
	if err != nil {
		return domain.Restaurant{}, fmt.Errorf("save restaurant %d: %w", r.ID, err)
	}
	return saved, nil
}
