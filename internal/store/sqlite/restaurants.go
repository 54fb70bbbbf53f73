package sqlite

import (
	"context"
	"fmt"

	"github.com/example/meal-reservations/internal/db"
	"github.com/example/meal-reservations/internal/domain"
)

type RestaurantRepo struct{ db *DB }

const restaurantCols = `id, name, location, capacity, operating_hours`

func scanRestaurant(row db.Row) (domain.Restaurant, error) {
	var r domain.Restaurant
	err := row.Scan(&r.ID, &r.Name, &r.Location, &r.Capacity, &r.OperatingHours)
	return r, err
}

func (r *RestaurantRepo) Save(ctx context.Context, rest domain.Restaurant) (domain.Restaurant, error) {
	if rest.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO restaurants (name, location, capacity, operating_hours)
			VALUES (?, ?, ?, ?)
			RETURNING id
		`, rest.Name, rest.Location, rest.Capacity, rest.OperatingHours).Scan(&rest.ID)
		return rest, db.WrapNotFound(err)
	}
	var id int64
	err := r.db.QueryRow(ctx, `
		UPDATE restaurants SET name = ?, location = ?, capacity = ?, operating_hours = ?
		WHERE id = ?
		RETURNING id
	`, rest.Name, rest.Location, rest.Capacity, rest.OperatingHours, rest.ID).Scan(&id)
	return rest, db.WrapNotFound(err)
}

func (r *RestaurantRepo) FindByID(ctx context.Context, id int64) (domain.Restaurant, error) {
	rest, err := scanRestaurant(r.db.QueryRow(ctx, `SELECT `+restaurantCols+` FROM restaurants WHERE id = ?`, id))
	if err != nil {
		return domain.Restaurant{}, db.WrapNotFound(err)
	}
	return rest, nil
}

func (r *RestaurantRepo) FindAll(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.db.Query(ctx, `SELECT `+restaurantCols+` FROM restaurants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer rows.Close()

	var out []domain.Restaurant
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restaurant row: %w", err)
		}
		out = append(out, rest)
	}
	return out, rows.Err()
}

func (r *RestaurantRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = ?)`, id).Scan(&ok)
	return ok, err
}

func (r *RestaurantRepo) DeleteByID(ctx context.Context, id int64) error {
	return r.db.Exec(ctx, `DELETE FROM restaurants WHERE id = ?`, id)
}
