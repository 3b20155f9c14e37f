package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/billed-app/billed/internal/auth"
	"github.com/billed-app/billed/internal/models"
	"github.com/billed-app/billed/internal/storage"
)

// reservedAccounts are the two demo identities the client's default policy
// knows about. Seeding them on startup lets a freshly started stub accept
// logins immediately.
var reservedAccounts = []struct {
	user     models.User
	password string
}{
	{
		user:     models.User{Type: models.RoleAdmin, Name: "admin", Email: auth.ReservedAdminEmail},
		password: "admin",
	},
	{
		user:     models.User{Type: models.RoleEmployee, Name: "employee", Email: auth.ReservedEmployeeEmail},
		password: "employee",
	},
}

// Seed creates the reserved demo accounts and a handful of example bills.
// Already-seeded stores are left untouched.
func Seed(ctx context.Context, store storage.Store) error {
	accounts := auth.NewAccounts(store)

	seededUsers := false
	for _, account := range reservedAccounts {
		user := account.user
		err := accounts.Register(ctx, &user, account.password)
		if errors.Is(err, auth.ErrEmailExists) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to seed account %s: %w", account.user.Email, err)
		}
		seededUsers = true
		slog.Info("seeded account", "email", user.Email, "type", user.Type)
	}

	if !seededUsers {
		return nil
	}

	demo := []storage.Bill{
		{Email: auth.ReservedEmployeeEmail, Type: "Transports", Name: "Vol Paris Londres", Amount: 348, Date: "2023-12-01", VAT: "70", PCT: 20, Status: "pending"},
		{Email: auth.ReservedEmployeeEmail, Type: "Restaurants et bars", Name: "Déjeuner client", Amount: 54, Date: "2024-01-15", VAT: "10", PCT: 10, Status: "accepted"},
		{Email: auth.ReservedEmployeeEmail, Type: "Hôtel et logement", Name: "Séminaire billed", Amount: 400, Date: "2024-02-01", VAT: "80", PCT: 20, Status: "refused"},
	}
	for i := range demo {
		if err := store.CreateBill(ctx, &demo[i]); err != nil {
			return fmt.Errorf("failed to seed bill %q: %w", demo[i].Name, err)
		}
	}
	slog.Info("seeded demo bills", "count", len(demo))
	return nil
}
