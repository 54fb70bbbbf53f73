package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/meal-reservations/internal/web"
	"github.com/example/meal-reservations/internal/weather"
	"github.com/spf13/cobra"
)

func newServerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the HTTP API (and the forecast prefetcher when enabled)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := openApp(ctx, migrateUp)
			if err != nil {
				return err
			}
			defer a.close()

			if a.cfg.PrefetchInterval > 0 {
				p := &weather.Prefetcher{
					Engine:      a.weather,
					Restaurants: a.store.Restaurants,
					Interval:    a.cfg.PrefetchInterval,
					Days:        a.cfg.PrefetchDays,
				}
				go func() { _ = p.Run(ctx) }()
			}

			ws := &web.Server{
				Restaurants:  a.restaurants,
				Meals:        a.meals,
				Reservations: a.reservations,
				Weather:      a.weather,
				Tickets:      a.tickets,
				CORSOrigins:  a.cfg.CORSOrigins,
			}
			return web.Start(ctx, a.cfg.ListenAddr, ws.Routes())
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")

	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(context.Background(), true)
			if err != nil {
				return err
			}
			a.close()
			cmd.Println("migrations applied")
			return nil
		},
	}
}
