package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/billed-app/billed/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
)

// UserStorage defines the persistence operations account management needs.
// This allows Accounts to be independent of the storage implementation.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Accounts implements password-based account registration and verification
// using bcrypt. The stub server's login and create-account endpoints are
// built on it.
type Accounts struct {
	storage UserStorage
}

// NewAccounts creates account management over the given storage.
func NewAccounts(storage UserStorage) *Accounts {
	return &Accounts{storage: storage}
}

// Register creates a new user account with a hashed password.
func (a *Accounts) Register(ctx context.Context, user *models.User, password string) error {
	existing, err := a.storage.GetUserByEmail(ctx, user.Email)
	if err == nil && existing != nil {
		return ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	if err := a.storage.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Authenticate verifies the email and password, returning the user if valid.
func (a *Accounts) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := a.storage.GetUserByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
