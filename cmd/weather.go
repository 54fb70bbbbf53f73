package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/example/meal-reservations/internal/domain"
	"github.com/spf13/cobra"
)

func newWeatherCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Look up forecasts",
	}
	cmd.AddCommand(newWeatherForecastCmd())
	return cmd
}

func newWeatherForecastCmd() *cobra.Command {
	var location, date string

	c := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast for a location, through the cache when --date is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.close()

			var f domain.Forecast
			if date == "" {
				f = a.weather.Current(ctx, location)
			} else {
				d, err := domain.ParseDate(date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				if f, err = a.weather.Forecast(ctx, d, location); err != nil {
					return err
				}
			}
			fmt.Fprintf(os.Stdout, "date=%s location=%q temp=%.1f humidity=%.0f wind=%.1f %q\n",
				f.Date, f.Location, f.Temperature, f.Humidity, f.WindSpeed, f.Description)
			st := a.weather.Stats()
			fmt.Fprintf(os.Stdout, "cache: total=%d hits=%d misses=%d\n", st.TotalRequests, st.CacheHits, st.CacheMisses)
			return nil
		},
	}
	c.Flags().StringVar(&location, "location", "", "location, e.g. Aveiro,PT")
	c.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD (omit for the uncached current forecast)")
	return c
}
