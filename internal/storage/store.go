// Package storage provides abstractions for the stub server's persistent
// data: registered users and expense bills.
package storage

import (
	"context"
	"errors"

	"github.com/billed-app/billed/internal/models"
)

// ErrBillNotFound is returned when a bill id matches nothing.
var ErrBillNotFound = errors.New("bill not found")

// Bill is an expense bill as persisted by the stub server. Its JSON tags
// define the wire shape the client consumes.
type Bill struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Type         string  `json:"type"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Date         string  `json:"date"`
	VAT          string  `json:"vat"`
	PCT          int     `json:"pct"`
	Commentary   string  `json:"commentary"`
	Status       string  `json:"status"`
	FileURL      string  `json:"fileUrl"`
	FileName     string  `json:"fileName"`
	CommentAdmin string  `json:"commentAdmin"`
	CreatedAt    int64   `json:"-"`
}

// Store defines the interface for the stub server's storage. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the handlers.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when no
	// user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// CreateBill persists a new bill. The bill.ID field is populated by the
	// store when empty.
	CreateBill(ctx context.Context, bill *Bill) error

	// GetBill retrieves a bill by its ID.
	GetBill(ctx context.Context, billID string) (*Bill, error)

	// ListBills retrieves all bills, oldest first.
	ListBills(ctx context.Context) ([]Bill, error)

	// UpdateBill replaces an existing bill. Returns ErrBillNotFound when
	// the id matches nothing.
	UpdateBill(ctx context.Context, bill *Bill) error

	// Close releases any resources held by the store.
	Close() error
}
