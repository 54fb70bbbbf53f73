package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/meal-reservations/internal/capacity"
	"github.com/example/meal-reservations/internal/catalog"
	"github.com/example/meal-reservations/internal/config"
	"github.com/example/meal-reservations/internal/db"
	"github.com/example/meal-reservations/internal/migrate"
	"github.com/example/meal-reservations/internal/reservations"
	"github.com/example/meal-reservations/internal/store"
	"github.com/example/meal-reservations/internal/store/memory"
	"github.com/example/meal-reservations/internal/store/postgres"
	"github.com/example/meal-reservations/internal/store/sqlite"
	"github.com/example/meal-reservations/internal/ticket"
	"github.com/example/meal-reservations/internal/weather"
)

// app is the set of services every command works against.
type app struct {
	cfg   config.Config
	store store.Store

	restaurants  *catalog.RestaurantService
	meals        *catalog.MealService
	reservations *reservations.Service
	weather      *weather.Engine
	tickets      *ticket.Codec

	close func()
}

// openStore picks a backend from the DATABASE_URL scheme and optionally
// applies migrations.
func openStore(ctx context.Context, databaseURL string, migrateUp bool) (store.Store, func(), error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		d, err := db.Open(ctx, databaseURL)
		if err != nil {
			return store.Store{}, nil, err
		}
		if err := d.Ping(ctx); err != nil {
			d.Close()
			return store.Store{}, nil, fmt.Errorf("db ping: %w", err)
		}
		if migrateUp {
			if err := migrate.Up(ctx, d, migrate.Postgres); err != nil {
				d.Close()
				return store.Store{}, nil, err
			}
		}
		return postgres.New(d), d.Close, nil

	case strings.HasPrefix(databaseURL, "sqlite://"), strings.HasPrefix(databaseURL, "file:"):
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		d, err := sqlite.Open(ctx, path)
		if err != nil {
			return store.Store{}, nil, err
		}
		if migrateUp {
			if err := migrate.Up(ctx, d, migrate.SQLite); err != nil {
				d.Close()
				return store.Store{}, nil, err
			}
		}
		return sqlite.New(d), func() { _ = d.Close() }, nil

	case strings.HasPrefix(databaseURL, "memory://"):
		return memory.New(), func() {}, nil
	}
	return store.Store{}, nil, fmt.Errorf("unsupported DATABASE_URL %q (want postgres://, sqlite://, file: or memory://)", databaseURL)
}

func openApp(ctx context.Context, migrateUp bool) (*app, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	st, closeFn, err := openStore(ctx, cfg.DatabaseURL, migrateUp)
	if err != nil {
		return nil, err
	}

	ledger := capacity.NewLedger(st.Restaurants)
	a := &app{
		cfg:          cfg,
		store:        st,
		restaurants:  &catalog.RestaurantService{Restaurants: st.Restaurants, Locker: ledger},
		meals:        &catalog.MealService{Meals: st.Meals, Restaurants: st.Restaurants},
		reservations: reservations.New(st.Reservations, st.Meals, ledger),
		weather: weather.NewEngine(
			weather.NewClient(cfg.WeatherAPIURL, cfg.WeatherTimeout),
			st.Forecasts,
			weather.Options{APIKey: cfg.WeatherAPIKey},
		),
		close: closeFn,
	}
	if cfg.TicketsEnabled() {
		a.tickets = ticket.New(cfg.TicketHashKey, cfg.TicketBlockKey)
	}
	return a, nil
}
