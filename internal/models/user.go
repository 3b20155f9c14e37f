package models

import "strings"

// Role distinguishes the two account types the application knows about.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleAdmin    Role = "Admin"
)

// StatusConnected is the only session status the client ever writes.
const StatusConnected = "connected"

// Credentials carries a raw, untrusted email/password pair as submitted by a
// login form. Which form submitted it determines the role it is validated
// against.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the persisted descriptor of an authenticated user. It is written
// to the key-value store under the "user" key after validation succeeds and is
// read back by navigation guards. The next successful login overwrites it
// wholesale.
type Session struct {
	Type     Role   `json:"type"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Status   string `json:"status"`
}

// User represents a registered user account as stored by the stub server.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Type is the account role, Employee or Admin.
	Type Role `json:"type"`

	// Name is the display name, derived from the email local part when the
	// account is created through the client.
	Name string `json:"name"`

	// Email is the user's login identity (unique).
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the account password. Never
	// serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`
}

// LocalPart returns the portion of an email address before the '@'. When the
// address has no '@' the whole string is returned, matching how account names
// are derived during account creation.
func LocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
