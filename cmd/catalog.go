package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/example/meal-reservations/internal/domain"
	"github.com/spf13/cobra"
)

func newRestaurantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restaurant",
		Short: "Manage restaurants",
	}
	cmd.AddCommand(newRestaurantAddCmd())
	cmd.AddCommand(newRestaurantListCmd())
	return cmd
}

func newRestaurantAddCmd() *cobra.Command {
	var r domain.Restaurant

	c := &cobra.Command{
		Use:   "add",
		Short: "Add a restaurant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.close()

			created, err := a.restaurants.Create(ctx, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "created restaurant id=%d name=%q capacity=%d\n", created.ID, created.Name, created.Capacity)
			return nil
		},
	}

	c.Flags().StringVar(&r.Name, "name", "", "restaurant name")
	c.Flags().StringVar(&r.Location, "location", "", "location, e.g. Aveiro,PT")
	c.Flags().IntVar(&r.Capacity, "capacity", 0, "available seats")
	c.Flags().StringVar(&r.OperatingHours, "hours", "", "operating hours, free text")
	_ = c.MarkFlagRequired("name")
	return c
}

func newRestaurantListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List restaurants",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.close()

			rs, err := a.restaurants.List(ctx)
			if err != nil {
				return err
			}
			for _, r := range rs {
				fmt.Fprintf(os.Stdout, "id=%d name=%q location=%q capacity=%d hours=%q\n",
					r.ID, r.Name, r.Location, r.Capacity, r.OperatingHours)
			}
			return nil
		},
	}
}

func newMealCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meal",
		Short: "Manage meals",
	}
	cmd.AddCommand(newMealAddCmd())
	cmd.AddCommand(newMealListCmd())
	return cmd
}

func newMealAddCmd() *cobra.Command {
	var (
		m    domain.Meal
		date string
	)

	c := &cobra.Command{
		Use:   "add",
		Short: "Add a meal to a restaurant",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domain.ParseDate(date)
			if err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
			m.Date = d

			ctx := context.Background()
			a, err := openApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.close()

			created, err := a.meals.Create(ctx, m)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "created meal id=%d restaurant=%d date=%s type=%s\n",
				created.ID, created.RestaurantID, created.Date, created.MealType)
			return nil
		},
	}

	c.Flags().Int64Var(&m.RestaurantID, "restaurant-id", 0, "owning restaurant id")
	c.Flags().StringVar(&m.Name, "name", "", "meal name")
	c.Flags().StringVar(&m.Description, "description", "", "description")
	c.Flags().Float64Var(&m.Price, "price", 0, "price")
	c.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD")
	c.Flags().StringVar(&m.MealType, "type", "", "meal type: breakfast, lunch or dinner")
	_ = c.MarkFlagRequired("restaurant-id")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("date")
	return c
}

func newMealListCmd() *cobra.Command {
	var restaurantID int64
	var from, to string

	c := &cobra.Command{
		Use:   "list",
		Short: "List meals, optionally for one restaurant and date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.close()

			var ms []domain.Meal
			if restaurantID == 0 {
				ms, err = a.meals.List(ctx)
			} else {
				var start, end domain.Date
				if start, err = domain.ParseDate(from); err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
				if end, err = domain.ParseDate(to); err != nil {
					return fmt.Errorf("invalid --to: %w", err)
				}
				ms, err = a.meals.ByRestaurantAndDateRange(ctx, restaurantID, start, end)
			}
			if err != nil {
				return err
			}
			for _, m := range ms {
				fmt.Fprintf(os.Stdout, "id=%d restaurant=%d date=%s type=%s name=%q price=%.2f\n",
					m.ID, m.RestaurantID, m.Date, m.MealType, m.Name, m.Price)
			}
			return nil
		},
	}
	c.Flags().Int64Var(&restaurantID, "restaurant-id", 0, "restrict to one restaurant (needs --from and --to)")
	c.Flags().StringVar(&from, "from", "", "start date YYYY-MM-DD")
	c.Flags().StringVar(&to, "to", "", "end date YYYY-MM-DD")
	return c
}
