package postgres

import (
	"context"
	"time"

	"github.com/example/meal-reservations/internal/db"
	"github.com/example/meal-reservations/internal/domain"
)

type MealRepo struct{ db *db.DB }

const mealCols = `id,restaurant_id,name,description,price,date,meal_type`

func scanMeal(row db.Row) (domain.Meal, error) {
	var m domain.Meal
	var date time.Time
	if err := row.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Description, &m.Price, &date, &m.MealType); err != nil {
		return domain.Meal{}, err
	}
	m.Date = domain.DateOf(date)
	return m, nil
}

func (r *MealRepo) Save(ctx context.Context, m domain.Meal) (domain.Meal, error) {
	if m.ID == 0 {
		err := r.db.QueryRow(ctx, `
INSERT INTO meals(restaurant_id,name,description,price,date,meal_type)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id`, m.RestaurantID, m.Name, m.Description, m.Price, m.Date.Time, m.MealType).Scan(&m.ID)
		return m, db.WrapNotFound(err)
	}
	var id int64
	err := r.db.QueryRow(ctx, `
UPDATE meals SET restaurant_id=$2, name=$3, description=$4, price=$5, date=$6, meal_type=$7
WHERE id=$1
RETURNING id`, m.ID, m.RestaurantID, m.Name, m.Description, m.Price, m.Date.Time, m.MealType).Scan(&id)
	return m, db.WrapNotFound(err)
}

func (r *MealRepo) FindByID(ctx context.Context, id int64) (domain.Meal, error) {
	m, err := scanMeal(r.db.QueryRow(ctx, `SELECT `+mealCols+` FROM meals WHERE id=$1`, id))
	if err != nil {
		return domain.Meal{}, db.WrapNotFound(err)
	}
	return m, nil
}

func (r *MealRepo) FindAll(ctx context.Context) ([]domain.Meal, error) {
	return r.list(ctx, `SELECT `+mealCols+` FROM meals ORDER BY id`)
}

func (r *MealRepo) DeleteByID(ctx context.Context, id int64) error {
	return r.db.Exec(ctx, `DELETE FROM meals WHERE id=$1`, id)
}

func (r *MealRepo) FindByRestaurantAndDateRange(ctx context.Context, restaurantID int64, from, to domain.Date) ([]domain.Meal, error) {
	return r.list(ctx, `SELECT `+mealCols+` FROM meals
WHERE restaurant_id=$1 AND date BETWEEN $2 AND $3
ORDER BY date, id`, restaurantID, from.Time, to.Time)
}

func (r *MealRepo) FindByRestaurantAndDate(ctx context.Context, restaurantID int64, date domain.Date) ([]domain.Meal, error) {
	return r.list(ctx, `SELECT `+mealCols+` FROM meals
WHERE restaurant_id=$1 AND date=$2
ORDER BY id`, restaurantID, date.Time)
}

func (r *MealRepo) FindByRestaurantDateAndType(ctx context.Context, restaurantID int64, date domain.Date, mealType string) ([]domain.Meal, error) {
	return r.list(ctx, `SELECT `+mealCols+` FROM meals
WHERE restaurant_id=$1 AND date=$2 AND meal_type=$3
ORDER BY id`, restaurantID, date.Time, mealType)
}

func (r *MealRepo) list(ctx context.Context, sql string, args ...any) ([]domain.Meal, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
