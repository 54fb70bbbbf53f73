package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/example/meal-reservations/internal/domain"
	"github.com/spf13/cobra"
)

func newReservationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reservation",
		Short: "Create and manage reservations",
	}
	cmd.AddCommand(newReservationCreateCmd())
	cmd.AddCommand(newReservationShowCmd())
	cmd.AddCommand(newReservationActionCmd("cancel", "Cancel a reservation and free its seats",
		func(ctx context.Context, a *app, code string) (domain.Reservation, error) { return a.reservations.Cancel(ctx, code) }))
	cmd.AddCommand(newReservationActionCmd("use", "Mark a reservation as used",
		func(ctx context.Context, a *app, code string) (domain.Reservation, error) { return a.reservations.MarkUsed(ctx, code) }))
	cmd.AddCommand(newReservationActionCmd("delete", "Delete a reservation",
		func(ctx context.Context, a *app, code string) (domain.Reservation, error) { return a.reservations.Delete(ctx, code) }))
	return cmd
}

func printReservation(r domain.Reservation) {
	fmt.Fprintf(os.Stdout, "code=%s meal=%d name=%q email=%s people=%d status=%s used=%t at=%s\n",
		r.ReservationCode, r.MealID, r.CustomerName, r.CustomerEmail, r.NumberOfPeople, r.Status, r.Used,
		r.ReservationTime.Format(time.RFC3339))
}

func newReservationCreateCmd() *cobra.Command {
	var r domain.Reservation

	c := &cobra.Command{
		Use:   "create",
		Short: "Reserve seats for a meal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.close()

			created, err := a.reservations.Create(ctx, r)
			if err != nil {
				return err
			}
			printReservation(created)
			if a.tickets != nil {
				tk, err := a.tickets.Issue(created.ReservationCode)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "ticket=%s\n", tk)
			}
			return nil
		},
	}

	c.Flags().Int64Var(&r.MealID, "meal-id", 0, "meal id")
	c.Flags().StringVar(&r.CustomerName, "name", "", "customer name")
	c.Flags().StringVar(&r.CustomerEmail, "email", "", "customer email")
	c.Flags().IntVar(&r.NumberOfPeople, "people", 1, "party size")
	_ = c.MarkFlagRequired("meal-id")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("email")
	return c
}

func newReservationShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show CODE",
		Short: "Show a reservation by code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.close()

			r, err := a.reservations.ByCode(ctx, args[0])
			if err != nil {
				return err
			}
			printReservation(r)
			return nil
		},
	}
}

func newReservationActionCmd(use, short string, fn func(context.Context, *app, string) (domain.Reservation, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " CODE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.close()

			r, err := fn(ctx, a, args[0])
			if err != nil {
				return err
			}
			printReservation(r)
			return nil
		},
	}
}
