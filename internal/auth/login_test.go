package auth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/billed-app/billed/internal/kvstore"
	"github.com/billed-app/billed/internal/models"
	"github.com/billed-app/billed/internal/store"
	"github.com/billed-app/billed/internal/ui"
)

// fakeStore records login and account-creation calls.
type fakeStore struct {
	loginCalls []store.LoginPayload
	loginToken store.Token
	loginErr   error

	createCalls []store.CreateUserPayload
	createErr   error
}

func (f *fakeStore) Login(ctx context.Context, payload store.LoginPayload) (store.Token, error) {
	f.loginCalls = append(f.loginCalls, payload)
	if f.loginErr != nil {
		return store.Token{}, f.loginErr
	}
	return f.loginToken, nil
}

func (f *fakeStore) Users() store.UserResource { return fakeUsers{f} }
func (f *fakeStore) Bills() store.BillResource { return nil }

type fakeUsers struct {
	f *fakeStore
}

func (u fakeUsers) Create(ctx context.Context, payload store.CreateUserPayload) error {
	u.f.createCalls = append(u.f.createCalls, payload)
	return u.f.createErr
}

// harness wires an Authenticator against recording fakes.
type harness struct {
	authn  *Authenticator
	kv     *kvstore.Memory
	store  *fakeStore
	alerts []string
	routes []string
}

func newHarness(t *testing.T, policy Policy, withStore bool) *harness {
	t.Helper()

	h := &harness{kv: kvstore.NewMemory()}
	var st store.Store
	if withStore {
		h.store = &fakeStore{loginToken: store.Token{JWT: "token-123"}}
		st = h.store
	}
	h.authn = NewAuthenticator(policy, h.kv, st,
		ui.NavigatorFunc(func(path string) { h.routes = append(h.routes, path) }),
		ui.AlerterFunc(func(msg string) { h.alerts = append(h.alerts, msg) }),
		nil,
	)
	return h
}

func (h *harness) session(t *testing.T) (models.Session, bool) {
	t.Helper()
	raw, ok := h.kv.GetItem(SessionKey)
	if !ok {
		return models.Session{}, false
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		t.Fatalf("stored session is not valid JSON: %v", err)
	}
	return sess, true
}

func TestSubmitEmployeeRejections(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name      string
		creds     models.Credentials
		wantAlert string
	}{
		{
			name:      "unknown email",
			creds:     models.Credentials{Email: "nobody@test.tld", Password: "employee"},
			wantAlert: MsgInvalidEmail,
		},
		{
			name:      "empty email",
			creds:     models.Credentials{Email: "", Password: "employee"},
			wantAlert: MsgInvalidEmail,
		},
		{
			name:      "employee email with admin password",
			creds:     models.Credentials{Email: ReservedEmployeeEmail, Password: "admin"},
			wantAlert: MsgIncorrectUser,
		},
		{
			name:      "admin email with employee password",
			creds:     models.Credentials{Email: ReservedAdminEmail, Password: "employee"},
			wantAlert: MsgIncorrectUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, policy, true)

			if err := h.authn.SubmitEmployee(context.Background(), tt.creds); err != nil {
				t.Fatalf("SubmitEmployee failed: %v", err)
			}

			if len(h.alerts) == 0 || h.alerts[len(h.alerts)-1] != tt.wantAlert {
				t.Errorf("alerts = %q, want last %q", h.alerts, tt.wantAlert)
			}
			if _, ok := h.session(t); ok {
				t.Error("session was persisted despite rejection")
			}
			if len(h.store.loginCalls) != 0 {
				t.Errorf("remote login called %d times, want 0", len(h.store.loginCalls))
			}
			if len(h.routes) != 0 {
				t.Errorf("navigated to %q, want no navigation", h.routes)
			}
		})
	}
}

func TestSubmitEmployeeSuccess(t *testing.T) {
	h := newHarness(t, DefaultPolicy(), true)
	creds := models.Credentials{Email: ReservedEmployeeEmail, Password: "employee"}

	if err := h.authn.SubmitEmployee(context.Background(), creds); err != nil {
		t.Fatalf("SubmitEmployee failed: %v", err)
	}

	sess, ok := h.session(t)
	if !ok {
		t.Fatal("no session persisted")
	}
	want := models.Session{
		Type:     models.RoleEmployee,
		Email:    ReservedEmployeeEmail,
		Password: "employee",
		Status:   models.StatusConnected,
	}
	if sess != want {
		t.Errorf("session = %+v, want %+v", sess, want)
	}

	if jwt, _ := h.kv.GetItem(TokenKey); jwt != "token-123" {
		t.Errorf("persisted token = %q, want %q", jwt, "token-123")
	}
	if len(h.routes) != 1 || h.routes[0] != ui.RouteBills {
		t.Errorf("routes = %q, want [%q]", h.routes, ui.RouteBills)
	}
	if h.authn.PreviousLocation() != ui.RouteBills {
		t.Errorf("PreviousLocation = %q, want %q", h.authn.PreviousLocation(), ui.RouteBills)
	}
	if len(h.alerts) != 0 {
		t.Errorf("unexpected alerts: %q", h.alerts)
	}
}

// The employee password check alerts but does not abort, so an unknown
// password that is not cross-assigned still logs in. The missing abort is
// part of the observable contract and must not be "fixed" silently.
func TestSubmitEmployeePasswordFallThrough(t *testing.T) {
	h := newHarness(t, DefaultPolicy(), true)
	creds := models.Credentials{Email: ReservedEmployeeEmail, Password: "not-a-policy-password"}

	if err := h.authn.SubmitEmployee(context.Background(), creds); err != nil {
		t.Fatalf("SubmitEmployee failed: %v", err)
	}

	if len(h.alerts) != 1 || h.alerts[0] != MsgInvalidPassword {
		t.Errorf("alerts = %q, want [%q]", h.alerts, MsgInvalidPassword)
	}
	if _, ok := h.session(t); !ok {
		t.Error("expected session to be persisted despite the password alert")
	}
	if len(h.store.loginCalls) != 1 {
		t.Errorf("remote login called %d times, want 1", len(h.store.loginCalls))
	}
}

func TestSubmitEmployeeIdempotent(t *testing.T) {
	h := newHarness(t, DefaultPolicy(), true)
	creds := models.Credentials{Email: ReservedEmployeeEmail, Password: "employee"}

	for i := 0; i < 2; i++ {
		if err := h.authn.SubmitEmployee(context.Background(), creds); err != nil {
			t.Fatalf("SubmitEmployee #%d failed: %v", i+1, err)
		}
	}

	sess, _ := h.session(t)
	if sess.Email != ReservedEmployeeEmail || sess.Type != models.RoleEmployee {
		t.Errorf("session after second submit = %+v", sess)
	}
	if len(h.store.loginCalls) != 2 {
		t.Errorf("remote login called %d times, want 2", len(h.store.loginCalls))
	}
}

func TestSubmitEmployeeRemoteFailure(t *testing.T) {
	h := newHarness(t, DefaultPolicy(), true)
	h.store.loginErr = errors.New("Erreur 404")

	err := h.authn.SubmitEmployee(context.Background(), models.Credentials{
		Email:    ReservedEmployeeEmail,
		Password: "employee",
	})
	if err == nil {
		t.Fatal("expected remote failure to propagate")
	}
	if len(h.routes) != 0 {
		t.Errorf("navigated to %q despite login failure", h.routes)
	}
}

func TestSubmitAdmin(t *testing.T) {
	policy := DefaultPolicy()

	t.Run("wrong password", func(t *testing.T) {
		h := newHarness(t, policy, true)
		creds := models.Credentials{Email: ReservedAdminEmail, Password: "wrongpass"}

		if err := h.authn.SubmitAdmin(context.Background(), creds); err != nil {
			t.Fatalf("SubmitAdmin failed: %v", err)
		}
		if len(h.alerts) != 1 || h.alerts[0] != MsgWrongAdminPassword {
			t.Errorf("alerts = %q, want [%q]", h.alerts, MsgWrongAdminPassword)
		}
		if _, ok := h.session(t); ok {
			t.Error("session was persisted despite rejection")
		}
	})

	t.Run("wrong email", func(t *testing.T) {
		h := newHarness(t, policy, true)
		creds := models.Credentials{Email: "other@test.tld", Password: "admin"}

		if err := h.authn.SubmitAdmin(context.Background(), creds); err != nil {
			t.Fatalf("SubmitAdmin failed: %v", err)
		}
		if len(h.alerts) != 1 || h.alerts[0] != MsgWrongAdminEmail {
			t.Errorf("alerts = %q, want [%q]", h.alerts, MsgWrongAdminEmail)
		}
		if _, ok := h.session(t); ok {
			t.Error("session was persisted despite rejection")
		}
	})

	t.Run("success navigates to dashboard", func(t *testing.T) {
		h := newHarness(t, policy, true)
		creds := models.Credentials{Email: ReservedAdminEmail, Password: "admin"}

		if err := h.authn.SubmitAdmin(context.Background(), creds); err != nil {
			t.Fatalf("SubmitAdmin failed: %v", err)
		}
		sess, ok := h.session(t)
		if !ok || sess.Type != models.RoleAdmin {
			t.Errorf("session = %+v, ok = %v, want Admin session", sess, ok)
		}
		if len(h.routes) != 1 || h.routes[0] != ui.RouteDashboard {
			t.Errorf("routes = %q, want [%q]", h.routes, ui.RouteDashboard)
		}
		if h.authn.PreviousLocation() != ui.RouteDashboard {
			t.Errorf("PreviousLocation = %q, want %q", h.authn.PreviousLocation(), ui.RouteDashboard)
		}
	})
}

func TestLoginWithoutStore(t *testing.T) {
	h := newHarness(t, DefaultPolicy(), false)

	ok, err := h.authn.Login(context.Background(), models.Session{
		Email:    ReservedEmployeeEmail,
		Password: "employee",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if ok {
		t.Error("Login reported success without a configured store")
	}
	if _, exists := h.kv.GetItem(TokenKey); exists {
		t.Error("token was persisted without a configured store")
	}
}

func TestCreateAccount(t *testing.T) {
	t.Run("without store", func(t *testing.T) {
		h := newHarness(t, DefaultPolicy(), false)

		ok, err := h.authn.CreateAccount(context.Background(), models.Session{
			Type:  models.RoleEmployee,
			Email: "new@test.tld",
		})
		if err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}
		if ok {
			t.Error("CreateAccount reported success without a configured store")
		}
		if _, exists := h.kv.GetItem(SessionKey); exists {
			t.Error("state was persisted without a configured store")
		}
	})

	t.Run("derives name and chains into login", func(t *testing.T) {
		h := newHarness(t, DefaultPolicy(), true)

		ok, err := h.authn.CreateAccount(context.Background(), models.Session{
			Type:     models.RoleEmployee,
			Email:    "newuser@test.tld",
			Password: "s3cret",
			Status:   models.StatusConnected,
		})
		if err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}
		if !ok {
			t.Fatal("CreateAccount reported no store despite one being configured")
		}

		if len(h.store.createCalls) != 1 {
			t.Fatalf("create called %d times, want 1", len(h.store.createCalls))
		}
		var payload struct {
			Type     models.Role `json:"type"`
			Name     string      `json:"name"`
			Email    string      `json:"email"`
			Password string      `json:"password"`
		}
		if err := json.Unmarshal([]byte(h.store.createCalls[0].Data), &payload); err != nil {
			t.Fatalf("create payload is not valid JSON: %v", err)
		}
		if payload.Name != "newuser" {
			t.Errorf("payload name = %q, want %q", payload.Name, "newuser")
		}
		if payload.Type != models.RoleEmployee || payload.Email != "newuser@test.tld" {
			t.Errorf("payload = %+v", payload)
		}

		if len(h.store.loginCalls) != 1 {
			t.Errorf("chained login called %d times, want 1", len(h.store.loginCalls))
		}
		if jwt, _ := h.kv.GetItem(TokenKey); jwt != "token-123" {
			t.Errorf("persisted token = %q, want %q", jwt, "token-123")
		}
	})
}
