package auth

import (
	"testing"
	"time"

	"github.com/billed-app/billed/internal/models"
)

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	user := &models.User{
		Type:  models.RoleEmployee,
		Email: ReservedEmployeeEmail,
	}

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Run("valid token round-trips claims", func(t *testing.T) {
		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.Email != user.Email {
			t.Errorf("claims email = %q, want %q", claims.Email, user.Email)
		}
		if claims.Type != models.RoleEmployee {
			t.Errorf("claims type = %q, want %q", claims.Type, models.RoleEmployee)
		}
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		other := NewJWTManager("other-secret", time.Hour)
		if _, err := other.Validate(token); err == nil {
			t.Error("expected validation to fail with a different secret")
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := NewJWTManager("test-secret", -time.Hour)
		tok, err := expired.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(tok); err == nil {
			t.Error("expected validation to fail for an expired token")
		}
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		if _, err := manager.Validate("not-a-token"); err == nil {
			t.Error("expected validation to fail for malformed input")
		}
	})
}
