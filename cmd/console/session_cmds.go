package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/product-console/api"
	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
	"github.com/jrsteele09/product-console/session"
)

// withApp builds the app for one command and closes it afterwards.
func withApp(ctx context.Context, configPath string, fn func(a *app) error) error {
	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func requireLogin(a *app) error {
	if !a.store.IsAuthenticated() {
		return consoleerrors.Wrapf(consoleerrors.ErrNotAuthenticated, "run `console login` first")
	}
	return nil
}

func loginCmd(configPath *string) *cobra.Command {
	var (
		username string
		password string
		role     string
		ttl      int
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("CONSOLE_PASSWORD")
			}
			return withApp(cmd.Context(), *configPath, func(a *app) error {
				if role == "" {
					role = a.config.GetLoginRole()
				}
				profile, err := a.store.Login(cmd.Context(), session.LoginRequest{
					Username:   username,
					Password:   password,
					Role:       role,
					TTLMinutes: ttl,
				})
				if err != nil {
					var authErr *session.AuthError
					if consoleerrors.As(err, &authErr) {
						return fmt.Errorf("%s", authErr.Message)
					}
					return err
				}
				fmt.Printf("Signed in as %s (%s)\n", profile.Username, profile.UserType.Label())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (defaults to $CONSOLE_PASSWORD)")
	cmd.Flags().StringVar(&role, "role", "", "Role hint sent with the login")
	cmd.Flags().IntVar(&ttl, "ttl", 0, "Access token lifetime in minutes")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func logoutCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *configPath, func(a *app) error {
				a.store.Logout()
				fmt.Println("Signed out")
				return nil
			})
		},
	}
}

func whoamiCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user and permitted screens",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *configPath, func(a *app) error {
				snap := a.store.Snapshot()
				if !snap.IsAuthenticated {
					fmt.Println("Not signed in")
					return nil
				}
				p := snap.UserProfile
				fmt.Printf("%s %s <%s>\n", p.FirstName, p.LastName, p.Email)
				fmt.Printf("  Username: %s\n", p.Username)
				fmt.Printf("  Role:     %s\n", p.UserType.Label())
				for _, screen := range snap.PermittedScreens {
					fmt.Printf("  Screen:   %s (%s)\n", screen.ScreenURL, screen.ScreenName)
				}
				return nil
			})
		},
	}
}

func dashboardCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print the dashboard KPIs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *configPath, func(a *app) error {
				if err := requireLogin(a); err != nil {
					return err
				}
				d, err := a.api.Dashboard(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("Active products: %s of %s\n",
					api.FormatCompact(float64(d.Count.ActiveCount)), api.FormatCompact(float64(d.Count.TotalCount)))
				fmt.Printf("Units sold:      %s\n", api.FormatCompact(d.Sales.Units))
				fmt.Printf("Revenue:         %s\n", api.FormatCompact(d.Sales.Revenue))

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "\nMONTH\tREVENUE")
				for _, p := range d.Revenue {
					fmt.Fprintf(w, "%s\t%s\n", p.Month(), api.FormatCompact(p.Revenue))
				}
				return w.Flush()
			})
		},
	}
}

func productsCmd(configPath *string) *cobra.Command {
	var (
		query string
		page  int
		size  int
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products, optionally filtered by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *configPath, func(a *app) error {
				if err := requireLogin(a); err != nil {
					return err
				}
				products, err := a.api.Products(cmd.Context())
				if err != nil {
					return err
				}
				// Pages are numbered from 1 on the command line.
				p := api.Paginate(products, query, page-1, size)

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NO\tID\tNAME\tCATEGORY\tPRICE\tSTATUS")
				for _, row := range p.Rows {
					fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%.2f\t%s\n",
						row.No, row.ID, row.Name, row.Category, row.Price, row.AvailabilityStatus)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Printf("\nPage %d of %d (%d products)\n", p.Page+1, p.Pages, p.Total)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive name search")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&size, "size", api.DefaultPageSize, "Rows per page")

	return cmd
}

func reviewsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reviews <product-id>",
		Short: "Show a product's reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("product id must be a number: %w", err)
			}
			return withApp(cmd.Context(), *configPath, func(a *app) error {
				if err := requireLogin(a); err != nil {
					return err
				}
				reviews, err := a.api.Reviews(cmd.Context(), id)
				if err != nil {
					return err
				}
				for _, r := range reviews {
					mark := "-"
					if r.Positive() {
						mark = "+"
					}
					fmt.Printf("%s %d/5 %s <%s>\n    %s\n", mark, r.Rating, r.ReviewerName, r.ReviewerEmail, r.Comment)
				}
				return nil
			})
		},
	}
}
