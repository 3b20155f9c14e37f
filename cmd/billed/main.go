// Command billed is the expense-report client: log in as employee or admin,
// list submitted bills, submit a new bill with its receipt, and validate
// bills.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/billed-app/billed/internal/auth"
	"github.com/billed-app/billed/internal/bills"
	"github.com/billed-app/billed/internal/config"
	"github.com/billed-app/billed/internal/kvstore"
	"github.com/billed-app/billed/internal/models"
	"github.com/billed-app/billed/internal/store"
	"github.com/billed-app/billed/internal/store/rest"
	"github.com/billed-app/billed/internal/ui"
	"github.com/billed-app/billed/pkg/logging"
)

// app bundles the wired client dependencies shared by all commands.
type app struct {
	cfg    config.Client
	kv     kvstore.Store
	store  store.Store // nil when no backend is configured
	policy auth.Policy
	nav    ui.Navigator
	alerts ui.Alerter
}

func newApp() (*app, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}

	kv, err := kvstore.OpenFile(cfg.StatePath)
	if err != nil {
		return nil, err
	}

	var st store.Store
	if cfg.APIBaseURL != "" {
		st = rest.New(cfg.APIBaseURL, kv)
	}

	policy := auth.DefaultPolicy()
	if cfg.PolicyPath != "" {
		policy, err = auth.LoadPolicy(cfg.PolicyPath)
		if err != nil {
			return nil, err
		}
	}

	return &app{
		cfg:    cfg,
		kv:     kv,
		store:  st,
		policy: policy,
		nav: ui.NavigatorFunc(func(path string) {
			slog.Info("navigating", "route", path)
		}),
		alerts: ui.ConsoleAlerter{W: os.Stderr},
	}, nil
}

func (a *app) authenticator() *auth.Authenticator {
	return auth.NewAuthenticator(a.policy, a.kv, a.store, a.nav, a.alerts, nil)
}

func (a *app) newBill() *bills.NewBill {
	return bills.NewNewBill(a.store, a.kv, a.nav, a.alerts, nil)
}

func main() {
	logging.Setup()

	root := &cobra.Command{
		Use:           "billed",
		Short:         "Employee expense-report client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(loginCmd(), createAccountCmd(), billsCmd(), newBillCmd(), updateBillCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func loginCmd() *cobra.Command {
	var role, email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			authn := a.authenticator()
			creds := models.Credentials{Email: email, Password: password}
			switch models.Role(role) {
			case models.RoleAdmin:
				return authn.SubmitAdmin(cmd.Context(), creds)
			case models.RoleEmployee:
				return authn.SubmitEmployee(cmd.Context(), creds)
			default:
				return fmt.Errorf("unknown role %q (want Employee or Admin)", role)
			}
		},
	}
	cmd.Flags().StringVar(&role, "role", string(models.RoleEmployee), "login role: Employee or Admin")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func createAccountCmd() *cobra.Command {
	var role, email, password string

	cmd := &cobra.Command{
		Use:   "create-account",
		Short: "Register a new account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			ok, err := a.authenticator().CreateAccount(cmd.Context(), models.Session{
				Type:     models.Role(role),
				Email:    email,
				Password: password,
				Status:   models.StatusConnected,
			})
			if err != nil {
				return err
			}
			if !ok {
				slog.Warn("no backend configured, nothing to do")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(models.RoleEmployee), "account role: Employee or Admin")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func billsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bills",
		Short: "List submitted bills, earliest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			repo := bills.NewRepository(a.store, nil)
			list, err := repo.FetchNormalizedBills(cmd.Context())
			if err != nil {
				return err
			}
			if list == nil {
				fmt.Println("not connected: no backend configured")
				return nil
			}

			bills.SortByDate(list)
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tNAME\tAMOUNT\tSTATUS")
			for _, b := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					b.ID, b.Date, b.ExtraString("name"), string(b.Extra["amount"]), b.Status)
			}
			return w.Flush()
		},
	}
}

func newBillCmd() *cobra.Command {
	var form bills.Form
	var receiptPath string

	cmd := &cobra.Command{
		Use:   "new-bill",
		Short: "Submit a new expense bill with its receipt",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			file, err := os.Open(receiptPath)
			if err != nil {
				return fmt.Errorf("failed to open receipt: %w", err)
			}
			defer file.Close()

			form.FileName = receiptPath
			form.File = file
			return a.newBill().SubmitNewBill(cmd.Context(), form)
		},
	}
	cmd.Flags().StringVar(&receiptPath, "receipt", "", "path to the receipt image (jpg, jpeg or png)")
	cmd.Flags().StringVar(&form.Type, "type", "", "expense type")
	cmd.Flags().StringVar(&form.Name, "name", "", "expense name")
	cmd.Flags().StringVar(&form.Date, "date", "", "expense date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&form.Amount, "amount", 0, "amount (TTC)")
	cmd.Flags().StringVar(&form.VAT, "vat", "", "VAT amount")
	cmd.Flags().IntVar(&form.PCT, "pct", 0, "VAT percentage")
	cmd.Flags().StringVar(&form.Commentary, "commentary", "", "free-form comment")
	return cmd
}

func updateBillCmd() *cobra.Command {
	var billID, status, commentAdmin string

	cmd := &cobra.Command{
		Use:   "update-bill",
		Short: "Validate or refuse a submitted bill",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if a.store == nil {
				fmt.Println("not connected: no backend configured")
				return nil
			}

			record, err := findBill(cmd.Context(), a.store, billID)
			if err != nil {
				return err
			}
			record.Status = status
			if commentAdmin != "" {
				if err := record.SetExtra("commentAdmin", commentAdmin); err != nil {
					return err
				}
			}
			return a.newBill().UpdateBill(cmd.Context(), billID, record)
		},
	}
	cmd.Flags().StringVar(&billID, "id", "", "bill id")
	cmd.Flags().StringVar(&status, "status", "accepted", "new status: pending, accepted or refused")
	cmd.Flags().StringVar(&commentAdmin, "comment", "", "admin comment")
	return cmd
}

// findBill fetches the raw bill list and returns the record with the given
// id.
func findBill(ctx context.Context, st store.Store, billID string) (models.Bill, error) {
	list, err := st.Bills().List(ctx)
	if err != nil {
		return models.Bill{}, err
	}
	for _, b := range list {
		if b.ID == billID {
			return b, nil
		}
	}
	return models.Bill{}, fmt.Errorf("no bill with id %q", billID)
}
