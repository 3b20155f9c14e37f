package auth

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/billed-app/billed/internal/models"
)

// Reserved identities of the demo deployment. DefaultPolicy builds its table
// from these; real deployments load their own table from YAML instead.
const (
	ReservedAdminEmail    = "admin@test.tld"
	ReservedEmployeeEmail = "employee@test.tld"

	reservedAdminPassword    = "admin"
	reservedEmployeePassword = "employee"
)

// Identity is one allowed login for a role. Passwords are held as bcrypt
// hashes so the decision logic never compares against literals.
type Identity struct {
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"`
}

// Policy maps each role to its allowed identity. The validation sequences in
// Authenticator are driven entirely by this table.
type Policy struct {
	roles map[models.Role]Identity
}

// NewPolicy builds a policy from explicit role entries.
func NewPolicy(roles map[models.Role]Identity) Policy {
	table := make(map[models.Role]Identity, len(roles))
	for role, id := range roles {
		table[role] = id
	}
	return Policy{roles: table}
}

// DefaultPolicy returns the table for the two reserved demo accounts. The
// passwords are public demo credentials, so the cheap bcrypt cost is fine
// here and keeps startup fast.
func DefaultPolicy() Policy {
	return NewPolicy(map[models.Role]Identity{
		models.RoleAdmin:    {Email: ReservedAdminEmail, PasswordHash: mustHash(reservedAdminPassword)},
		models.RoleEmployee: {Email: ReservedEmployeeEmail, PasswordHash: mustHash(reservedEmployeePassword)},
	})
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		// bcrypt only fails on oversized input; the reserved passwords are
		// short constants.
		panic(err)
	}
	return string(hash)
}

// policyFile is the YAML shape of a policy table on disk:
//
//	roles:
//	  Admin:
//	    email: admin@example.com
//	    password_hash: $2a$10$...
//	  Employee:
//	    email: employee@example.com
//	    password_hash: $2a$10$...
type policyFile struct {
	Roles map[models.Role]Identity `yaml:"roles"`
}

// LoadPolicy reads a policy table from a YAML file.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("failed to read policy file: %w", err)
	}

	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Policy{}, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}
	if len(file.Roles) == 0 {
		return Policy{}, fmt.Errorf("policy file %s defines no roles", path)
	}
	return NewPolicy(file.Roles), nil
}

// EmailMatches reports whether email is the allowed identity for role.
func (p Policy) EmailMatches(role models.Role, email string) bool {
	id, ok := p.roles[role]
	return ok && id.Email == email
}

// PasswordMatches reports whether password is the allowed password for role.
func (p Policy) PasswordMatches(role models.Role, password string) bool {
	id, ok := p.roles[role]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(id.PasswordHash), []byte(password)) == nil
}

// KnownEmail reports whether email belongs to any role in the table.
func (p Policy) KnownEmail(email string) bool {
	for _, id := range p.roles {
		if id.Email == email {
			return true
		}
	}
	return false
}

// KnownPassword reports whether password belongs to any role in the table.
func (p Policy) KnownPassword(password string) bool {
	for role := range p.roles {
		if p.PasswordMatches(role, password) {
			return true
		}
	}
	return false
}

// CrossAssigned reports whether the credentials mix identities: the email
// belongs to one role while the password belongs to a different one and not
// to the email's own role.
func (p Policy) CrossAssigned(creds models.Credentials) bool {
	for roleA, id := range p.roles {
		if id.Email != creds.Email {
			continue
		}
		if p.PasswordMatches(roleA, creds.Password) {
			return false
		}
		for roleB := range p.roles {
			if roleB != roleA && p.PasswordMatches(roleB, creds.Password) {
				return true
			}
		}
	}
	return false
}
