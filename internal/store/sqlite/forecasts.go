package sqlite

import (
	"context"
	"fmt"

	"github.com/example/meal-reservations/internal/db"
	"github.com/example/meal-reservations/internal/domain"
)

type ForecastRepo struct{ db *DB }

const forecastCols = `id, date, location, temperature, description, humidity, wind_speed, timestamp`

func scanForecast(row db.Row) (domain.Forecast, error) {
	var f domain.Forecast
	var date string
	if err := row.Scan(&f.ID, &date, &f.Location, &f.Temperature, &f.Description, &f.Humidity, &f.WindSpeed, &f.Timestamp); err != nil {
		return domain.Forecast{}, err
	}
	d, err := domain.ParseDate(date)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("forecast %d: %w", f.ID, err)
	}
	f.Date = d
	return f, nil
}

func (r *ForecastRepo) Save(ctx context.Context, f domain.Forecast) (domain.Forecast, error) {
	if f.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO weather_forecasts (date, location, temperature, description, humidity, wind_speed, timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (date, location) DO UPDATE
			SET temperature = excluded.temperature, description = excluded.description, humidity = excluded.humidity,
			    wind_speed = excluded.wind_speed, timestamp = excluded.timestamp
			RETURNING id
		`, f.Date.String(), f.Location, f.Temperature, f.Description, f.Humidity, f.WindSpeed, f.Timestamp).Scan(&f.ID)
		return f, db.WrapNotFound(err)
	}
	var id int64
	err := r.db.QueryRow(ctx, `
		UPDATE weather_forecasts
		SET date = ?, location = ?, temperature = ?, description = ?, humidity = ?, wind_speed = ?, timestamp = ?
		WHERE id = ?
		RETURNING id
	`, f.Date.String(), f.Location, f.Temperature, f.Description, f.Humidity, f.WindSpeed, f.Timestamp, f.ID).Scan(&id)
	return f, db.WrapNotFound(err)
}

func (r *ForecastRepo) FindByID(ctx context.Context, id int64) (domain.Forecast, error) {
	f, err := scanForecast(r.db.QueryRow(ctx, `SELECT `+forecastCols+` FROM weather_forecasts WHERE id = ?`, id))
	if err != nil {
		return domain.Forecast{}, db.WrapNotFound(err)
	}
	return f, nil
}

func (r *ForecastRepo) FindByDateAndLocation(ctx context.Context, date domain.Date, location string) (domain.Forecast, error) {
	f, err := scanForecast(r.db.QueryRow(ctx, `SELECT `+forecastCols+` FROM weather_forecasts WHERE date = ? AND location = ?`, date.String(), location))
	if err != nil {
		return domain.Forecast{}, db.WrapNotFound(err)
	}
	return f, nil
}

func (r *ForecastRepo) FindAll(ctx context.Context) ([]domain.Forecast, error) {
	rows, err := r.db.Query(ctx, `SELECT `+forecastCols+` FROM weather_forecasts ORDER BY date, location`)
	if err != nil {
		return nil, fmt.Errorf("failed to list forecasts: %w", err)
	}
	defer rows.Close()

	var out []domain.Forecast
	for rows.Next() {
		f, err := scanForecast(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan forecast row: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
