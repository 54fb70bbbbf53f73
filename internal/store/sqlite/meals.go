package sqlite

import (
	"context"
	"fmt"

	"github.com/example/meal-reservations/internal/db"
	"github.com/example/meal-reservations/internal/domain"
)

type MealRepo struct{ db *DB }

const mealCols = `id, restaurant_id, name, description, price, date, meal_type`

func scanMeal(row db.Row) (domain.Meal, error) {
	var m domain.Meal
	var date string
	if err := row.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Description, &m.Price, &date, &m.MealType); err != nil {
		return domain.Meal{}, err
	}
	d, err := domain.ParseDate(date)
	if err != nil {
		return domain.Meal{}, fmt.Errorf("meal %d: %w", m.ID, err)
	}
	m.Date = d
	return m, nil
}

func (r *MealRepo) Save(ctx context.Context, m domain.Meal) (domain.Meal, error) {
	if m.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO meals (restaurant_id, name, description, price, date, meal_type)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id
		`, m.RestaurantID, m.Name, m.Description, m.Price, m.Date.String(), m.MealType).Scan(&m.ID)
		return m, db.WrapNotFound(err)
	}
	var id int64
	err := r.db.QueryRow(ctx, `
		UPDATE meals SET restaurant_id = ?, name = ?, description = ?, price = ?, date = ?, meal_type = ?
		WHERE id = ?
		RETURNING id
	`, m.RestaurantID, m.Name, m.Description, m.Price, m.Date.String(), m.MealType, m.ID).Scan(&id)
	return m, db.WrapNotFound(err)
}

func (r *MealRepo) FindByID(ctx context.Context, id int64) (domain.Meal, error) {
	m, err := scanMeal(r.db.QueryRow(ctx, `SELECT `+mealCols+` FROM meals WHERE id = ?`, id))
	if err != nil {
		return domain.Meal{}, db.WrapNotFound(err)
	}
	return m, nil
}

func (r *MealRepo) FindAll(ctx context.Context) ([]domain.Meal, error) {
	return r.list(ctx, `SELECT `+mealCols+` FROM meals ORDER BY id`)
}

func (r *MealRepo) DeleteByID(ctx context.Context, id int64) error {
	return r.db.Exec(ctx, `DELETE FROM meals WHERE id = ?`, id)
}

func (r *MealRepo) FindByRestaurantAndDateRange(ctx context.Context, restaurantID int64, from, to domain.Date) ([]domain.Meal, error) {
	return r.list(ctx, `
		SELECT `+mealCols+` FROM meals
		WHERE restaurant_id = ? AND date BETWEEN ? AND ?
		ORDER BY date, id
	`, restaurantID, from.String(), to.String())
}

func (r *MealRepo) FindByRestaurantAndDate(ctx context.Context, restaurantID int64, date domain.Date) ([]domain.Meal, error) {
	return r.list(ctx, `
		SELECT `+mealCols+` FROM meals
		WHERE restaurant_id = ? AND date = ?
		ORDER BY id
	`, restaurantID, date.String())
}

func (r *MealRepo) FindByRestaurantDateAndType(ctx context.Context, restaurantID int64, date domain.Date, mealType string) ([]domain.Meal, error) {
	return r.list(ctx, `
		SELECT `+mealCols+` FROM meals
		WHERE restaurant_id = ? AND date = ? AND meal_type = ?
		ORDER BY id
	`, restaurantID, date.String(), mealType)
}

func (r *MealRepo) list(ctx context.Context, query string, args ...any) ([]domain.Meal, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	var out []domain.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
