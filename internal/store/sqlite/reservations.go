package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/meal-reservations/internal/db"
	"github.com/example/meal-reservations/internal/domain"
)

type ReservationRepo struct{ db *DB }

const reservationCols = `id, meal_id, customer_name, customer_email, number_of_people, reservation_time, reservation_code, is_used, status`

func scanReservation(row db.Row) (domain.Reservation, error) {
	var r domain.Reservation
	var reservedAt, status string
	if err := row.Scan(&r.ID, &r.MealID, &r.CustomerName, &r.CustomerEmail, &r.NumberOfPeople,
		&reservedAt, &r.ReservationCode, &r.Used, &status); err != nil {
		return domain.Reservation{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, reservedAt)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("reservation %d: bad reservation_time: %w", r.ID, err)
	}
	r.ReservationTime = t
	r.Status = domain.ReservationStatus(status)
	if !r.Status.Valid() {
		return domain.Reservation{}, fmt.Errorf("reservation %d: unknown status %q", r.ID, status)
	}
	return r, nil
}

func (r *ReservationRepo) Save(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	reservedAt := res.ReservationTime.UTC().Format(time.RFC3339Nano)
	if res.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO reservations (meal_id, customer_name, customer_email, number_of_people, reservation_time, reservation_code, is_used, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id
		`, res.MealID, res.CustomerName, res.CustomerEmail, res.NumberOfPeople, reservedAt, res.ReservationCode, res.Used, string(res.Status)).Scan(&res.ID)
		return res, db.WrapNotFound(err)
	}
	var id int64
	err := r.db.QueryRow(ctx, `
		UPDATE reservations
		SET meal_id = ?, customer_name = ?, customer_email = ?, number_of_people = ?, reservation_time = ?,
		    reservation_code = ?, is_used = ?, status = ?
		WHERE id = ?
		RETURNING id
	`, res.MealID, res.CustomerName, res.CustomerEmail, res.NumberOfPeople, reservedAt, res.ReservationCode, res.Used, string(res.Status), res.ID).Scan(&id)
	return res, db.WrapNotFound(err)
}

func (r *ReservationRepo) FindByID(ctx context.Context, id int64) (domain.Reservation, error) {
	res, err := scanReservation(r.db.QueryRow(ctx, `SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id))
	if err != nil {
		return domain.Reservation{}, db.WrapNotFound(err)
	}
	return res, nil
}

func (r *ReservationRepo) FindByCode(ctx context.Context, code string) (domain.Reservation, error) {
	res, err := scanReservation(r.db.QueryRow(ctx, `SELECT `+reservationCols+` FROM reservations WHERE reservation_code = ?`, code))
	if err != nil {
		return domain.Reservation{}, db.WrapNotFound(err)
	}
	return res, nil
}

func (r *ReservationRepo) FindAll(ctx context.Context) ([]domain.Reservation, error) {
	return r.list(ctx, `SELECT `+reservationCols+` FROM reservations ORDER BY id`)
}

func (r *ReservationRepo) FindByMeal(ctx context.Context, mealID int64) ([]domain.Reservation, error) {
	return r.list(ctx, `SELECT `+reservationCols+` FROM reservations WHERE meal_id = ? ORDER BY id`, mealID)
}

func (r *ReservationRepo) FindByCustomerEmail(ctx context.Context, email string) ([]domain.Reservation, error) {
	return r.list(ctx, `SELECT `+reservationCols+` FROM reservations WHERE customer_email = ? ORDER BY id`, email)
}

func (r *ReservationRepo) ExistsUnusedByMeal(ctx context.Context, mealID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM reservations WHERE meal_id = ? AND is_used = 0)`, mealID).Scan(&ok)
	return ok, err
}

func (r *ReservationRepo) DeleteByID(ctx context.Context, id int64) error {
	return r.db.Exec(ctx, `DELETE FROM reservations WHERE id = ?`, id)
}

func (r *ReservationRepo) Delete(ctx context.Context, res domain.Reservation) error {
	return r.DeleteByID(ctx, res.ID)
}

func (r *ReservationRepo) list(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation row: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
