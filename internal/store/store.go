// Package store defines the abstract remote capability the client talks to:
// login, account creation, and bill CRUD. The interface is split into
// role-scoped sub-capabilities so each can be substituted independently in
// tests. Package rest provides the HTTP implementation.
package store

import (
	"context"
	"io"

	"github.com/billed-app/billed/internal/models"
)

// Token is the result of a successful login.
type Token struct {
	JWT string `json:"jwt"`
}

// LoginPayload carries the credentials sent to the login endpoint.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUserPayload carries a pre-serialized user descriptor, matching the
// backend's create-account contract.
type CreateUserPayload struct {
	Data string
}

// CreateBillPayload carries a receipt upload: the file itself plus the
// submitting user's email.
type CreateBillPayload struct {
	FileName string
	File     io.Reader
	Email    string
}

// CreateBillResult is the backend's answer to a receipt upload: where the
// file landed and the key of the draft bill it was attached to.
type CreateBillResult struct {
	FileURL string `json:"fileUrl"`
	Key     string `json:"key"`
}

// UpdateBillPayload carries a pre-serialized bill record and the id of the
// bill it replaces.
type UpdateBillPayload struct {
	Data     string
	Selector string
}

// Store is the remote capability. A nil Store means the client is not
// connected to a backend; callers treat that as a defined no-op, never as an
// error.
type Store interface {
	// Login exchanges credentials for a token.
	Login(ctx context.Context, payload LoginPayload) (Token, error)

	// Users returns the account sub-capability.
	Users() UserResource

	// Bills returns the bill sub-capability.
	Bills() BillResource
}

// UserResource is the account-management sub-capability.
type UserResource interface {
	Create(ctx context.Context, payload CreateUserPayload) error
}

// BillResource is the bill CRUD sub-capability.
type BillResource interface {
	List(ctx context.Context) ([]models.Bill, error)
	Create(ctx context.Context, payload CreateBillPayload) (CreateBillResult, error)
	Update(ctx context.Context, payload UpdateBillPayload) (models.Bill, error)
}
