// Package sqlite implements the entity stores over modernc.org/sqlite.
// Dates are kept as TEXT (YYYY-MM-DD) and timestamps as RFC 3339 TEXT.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/meal-reservations/internal/db"
	"github.com/example/meal-reservations/internal/store"
	_ "modernc.org/sqlite"
)

// DB wraps a sqlite handle with the same Exec/QueryRow/Query shape as db.DB.
type DB struct {
	sql *sql.DB
}

// Open opens or creates the database at path (":memory:" for a private
// in-memory database).
func Open(ctx context.Context, path string) (*DB, error) {
	handle, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single writer; also keeps ":memory:" on one connection
	handle.SetMaxOpenConns(1)

	if err := handle.PingContext(ctx); err != nil {
		handle.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := handle.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		handle.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return &DB{sql: handle}, nil
}

func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) Exec(ctx context.Context, query string, args ...any) error {
	_, err := d.sql.ExecContext(ctx, query, args...)
	return err
}

func (d *DB) QueryRow(ctx context.Context, query string, args ...any) db.Row {
	return d.sql.QueryRowContext(ctx, query, args...)
}

func (d *DB) Query(ctx context.Context, query string, args ...any) (db.Rows, error) {
	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows}, nil
}

// sqlRows adapts *sql.Rows, whose Close returns an error, to db.Rows.
type sqlRows struct{ *sql.Rows }

func (r sqlRows) Close() { _ = r.Rows.Close() }

func New(d *DB) store.Store {
	return store.Store{
		Restaurants:  &RestaurantRepo{db: d},
		Meals:        &MealRepo{db: d},
		Reservations: &ReservationRepo{db: d},
		Forecasts:    &ForecastRepo{db: d},
	}
}
