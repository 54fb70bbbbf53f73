package postgres

import (
	"context"
	"time"

	"github.com/example/meal-reservations/internal/db"
	"github.com/example/meal-reservations/internal/domain"
)

type ForecastRepo struct{ db *db.DB }

const forecastCols = `id,date,location,temperature,description,humidity,wind_speed,timestamp`

func scanForecast(row db.Row) (domain.Forecast, error) {
	var f domain.Forecast
	var date time.Time
	if err := row.Scan(&f.ID, &date, &f.Location, &f.Temperature, &f.Description, &f.Humidity, &f.WindSpeed, &f.Timestamp); err != nil {
		return domain.Forecast{}, err
	}
	f.Date = domain.DateOf(date)
	return f, nil
}

func (r *ForecastRepo) Save(ctx context.Context, f domain.Forecast) (domain.Forecast, error) {
	if f.ID == 0 {
		err := r.db.QueryRow(ctx, `
INSERT INTO weather_forecasts(date,location,temperature,description,humidity,wind_speed,timestamp)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (date, location) DO UPDATE
SET temperature=EXCLUDED.temperature, description=EXCLUDED.description, humidity=EXCLUDED.humidity,
    wind_speed=EXCLUDED.wind_speed, timestamp=EXCLUDED.timestamp
RETURNING id`, f.Date.Time, f.Location, f.Temperature, f.Description, f.Humidity, f.WindSpeed, f.Timestamp).Scan(&f.ID)
		return f, db.WrapNotFound(err)
	}
	var id int64
	err := r.db.QueryRow(ctx, `
UPDATE weather_forecasts
SET date=$2, location=$3, temperature=$4, description=$5, humidity=$6, wind_speed=$7, timestamp=$8
WHERE id=$1
RETURNING id`, f.ID, f.Date.Time, f.Location, f.Temperature, f.Description, f.Humidity, f.WindSpeed, f.Timestamp).Scan(&id)
	return f, db.WrapNotFound(err)
}

func (r *ForecastRepo) FindByID(ctx context.Context, id int64) (domain.Forecast, error) {
	f, err := scanForecast(r.db.QueryRow(ctx, `SELECT `+forecastCols+` FROM weather_forecasts WHERE id=$1`, id))
	if err != nil {
		return domain.Forecast{}, db.WrapNotFound(err)
	}
	return f, nil
}

func (r *ForecastRepo) FindByDateAndLocation(ctx context.Context, date domain.Date, location string) (domain.Forecast, error) {
	f, err := scanForecast(r.db.QueryRow(ctx, `SELECT `+forecastCols+` FROM weather_forecasts WHERE date=$1 AND location=$2`, date.Time, location))
	if err != nil {
		return domain.Forecast{}, db.WrapNotFound(err)
	}
	return f, nil
}

func (r *ForecastRepo) FindAll(ctx context.Context) ([]domain.Forecast, error) {
	rows, err := r.db.Query(ctx, `SELECT `+forecastCols+` FROM weather_forecasts ORDER BY date, location`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Forecast
	for rows.Next() {
		f, err := scanForecast(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
