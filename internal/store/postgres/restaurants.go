package postgres

import (
	"context"

	"github.com/example/meal-reservations/internal/db"
	"github.com/example/meal-reservations/internal/domain"
)

type RestaurantRepo struct{ db *db.DB }

const restaurantCols = `id,name,location,capacity,operating_hours`

func scanRestaurant(row db.Row) (domain.Restaurant, error) {
	var r domain.Restaurant
	err := row.Scan(&r.ID, &r.Name, &r.Location, &r.Capacity, &r.OperatingHours)
	return r, err
}

func (r *RestaurantRepo) Save(ctx context.Context, rest domain.Restaurant) (domain.Restaurant, error) {
	if rest.ID == 0 {
		err := r.db.QueryRow(ctx, `
INSERT INTO restaurants(name,location,capacity,operating_hours)
VALUES ($1,$2,$3,$4)
RETURNING id`, rest.Name, rest.Location, rest.Capacity, rest.OperatingHours).Scan(&rest.ID)
		return rest, db.WrapNotFound(err)
	}
	var id int64
	err := r.db.QueryRow(ctx, `
UPDATE restaurants SET name=$2, location=$3, capacity=$4, operating_hours=$5
WHERE id=$1
RETURNING id`, rest.ID, rest.Name, rest.Location, rest.Capacity, rest.OperatingHours).Scan(&id)
	return rest, db.WrapNotFound(err)
}

func (r *RestaurantRepo) FindByID(ctx context.Context, id int64) (domain.Restaurant, error) {
	rest, err := scanRestaurant(r.db.QueryRow(ctx, `SELECT `+restaurantCols+` FROM restaurants WHERE id=$1`, id))
	if err != nil {
		return domain.Restaurant{}, db.WrapNotFound(err)
	}
	return rest, nil
}

func (r *RestaurantRepo) FindAll(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.db.Query(ctx, `SELECT `+restaurantCols+` FROM restaurants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Restaurant
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	return out, rows.Err()
}

func (r *RestaurantRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM restaurants WHERE id=$1)`, id).Scan(&ok)
	return ok, err
}

func (r *RestaurantRepo) DeleteByID(ctx context.Context, id int64) error {
	return r.db.Exec(ctx, `DELETE FROM restaurants WHERE id=$1`, id)
}
