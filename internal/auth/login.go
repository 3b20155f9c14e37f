package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/billed-app/billed/internal/kvstore"
	"github.com/billed-app/billed/internal/models"
	"github.com/billed-app/billed/internal/store"
	"github.com/billed-app/billed/internal/ui"
)

// Alert messages shown on validation failures. Downstream tooling asserts on
// the exact strings, typos included, so they must not be "fixed".
const (
	MsgInvalidEmail       = "Veillez entrer les paramètres de conncexions valides"
	MsgInvalidPassword    = "veillez utiliser des informatrions de connections valides"
	MsgIncorrectUser      = "utilisateur incorrect!"
	MsgWrongAdminPassword = "rwon user"
	MsgWrongAdminEmail    = "paramètres de connections incorrectes"
)

// Keys under which the Authenticator persists state.
const (
	SessionKey = "user"
	TokenKey   = "jwt"
)

// Authenticator validates submitted credentials against the policy table,
// persists the resulting session, performs the remote login, and navigates to
// the role's landing view.
//
// All failure reporting goes through the Alerter; the only errors returned
// are persistence failures and remote failures, which propagate to the caller
// unwrapped in meaning (the UI boundary renders a generic error surface for
// them).
type Authenticator struct {
	policy Policy
	kv     kvstore.Store
	store  store.Store // nil when no backend is configured
	nav    ui.Navigator
	alerts ui.Alerter
	logger *slog.Logger

	// previousLocation records the last successful post-login navigation
	// target.
	previousLocation string
}

// NewAuthenticator wires an Authenticator. st may be nil, in which case
// Login and CreateAccount become defined no-ops. A nil logger falls back to
// slog.Default.
func NewAuthenticator(policy Policy, kv kvstore.Store, st store.Store, nav ui.Navigator, alerts ui.Alerter, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		policy: policy,
		kv:     kv,
		store:  st,
		nav:    nav,
		alerts: alerts,
		logger: logger,
	}
}

// PreviousLocation returns the last route a successful login navigated to,
// or "" when no login has completed yet.
func (a *Authenticator) PreviousLocation() string {
	return a.previousLocation
}

// SubmitEmployee runs the employee validation sequence. First failing rule
// wins:
//
//  1. unknown email: alert and abort;
//  2. unknown password: alert but fall through; the missing abort is part of
//     the observable contract and must stay;
//  3. cross-assigned identities: alert and abort.
//
// When validation passes, the session is persisted, the remote login runs,
// and on its resolution the client navigates to the Bills view.
func (a *Authenticator) SubmitEmployee(ctx context.Context, creds models.Credentials) error {
	if !a.policy.KnownEmail(creds.Email) {
		a.alerts.Alert(MsgInvalidEmail)
		return nil
	}
	if !a.policy.KnownPassword(creds.Password) {
		a.alerts.Alert(MsgInvalidPassword)
		// no abort: falls through to the cross-assignment check
	}
	if a.policy.CrossAssigned(creds) {
		a.alerts.Alert(MsgIncorrectUser)
		return nil
	}

	return a.connect(ctx, models.Session{
		Type:     models.RoleEmployee,
		Email:    creds.Email,
		Password: creds.Password,
		Status:   models.StatusConnected,
	}, ui.RouteBills)
}

// SubmitAdmin runs the admin validation sequence. Rule order and messages
// deliberately differ from the employee sequence:
//
//  1. password must match the admin identity: alert and abort;
//  2. email must match the admin identity: alert and abort.
//
// When validation passes, the session is persisted, the remote login runs,
// and on its resolution the client navigates to the Dashboard view.
func (a *Authenticator) SubmitAdmin(ctx context.Context, creds models.Credentials) error {
	if !a.policy.PasswordMatches(models.RoleAdmin, creds.Password) {
		a.alerts.Alert(MsgWrongAdminPassword)
		return nil
	}
	if !a.policy.EmailMatches(models.RoleAdmin, creds.Email) {
		a.alerts.Alert(MsgWrongAdminEmail)
		return nil
	}

	return a.connect(ctx, models.Session{
		Type:     models.RoleAdmin,
		Email:    creds.Email,
		Password: creds.Password,
		Status:   models.StatusConnected,
	}, ui.RouteDashboard)
}

// connect persists the session, performs the remote login, and navigates to
// route once the login resolves. Without a configured store the session is
// still persisted but no navigation happens.
func (a *Authenticator) connect(ctx context.Context, sess models.Session, route string) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := a.kv.SetItem(SessionKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	ok, err := a.Login(ctx, sess)
	if err != nil {
		return err
	}
	if ok {
		a.nav.OnNavigate(route)
		a.previousLocation = route
		a.logger.Info("login succeeded", "type", sess.Type, "email", sess.Email, "route", route)
	}
	return nil
}

// Login exchanges the user's credentials for a token and persists it under
// the "jwt" key. It returns false with no side effects when no remote store
// is configured. Remote failures propagate to the caller.
func (a *Authenticator) Login(ctx context.Context, user models.Session) (bool, error) {
	if a.store == nil {
		return false, nil
	}

	tok, err := a.store.Login(ctx, store.LoginPayload{
		Email:    user.Email,
		Password: user.Password,
	})
	if err != nil {
		return false, err
	}
	if err := a.kv.SetItem(TokenKey, tok.JWT); err != nil {
		return false, fmt.Errorf("failed to persist token: %w", err)
	}
	return true, nil
}

// CreateAccount registers user with the remote store and, on success, chains
// into the login sequence for the same user. The account name is derived
// from the email's local part. It returns false with no side effects when no
// remote store is configured.
func (a *Authenticator) CreateAccount(ctx context.Context, user models.Session) (bool, error) {
	if a.store == nil {
		return false, nil
	}

	data, err := json.Marshal(struct {
		Type     models.Role `json:"type"`
		Name     string      `json:"name"`
		Email    string      `json:"email"`
		Password string      `json:"password"`
	}{
		Type:     user.Type,
		Name:     models.LocalPart(user.Email),
		Email:    user.Email,
		Password: user.Password,
	})
	if err != nil {
		return false, fmt.Errorf("failed to encode user: %w", err)
	}

	if err := a.store.Users().Create(ctx, store.CreateUserPayload{Data: string(data)}); err != nil {
		return false, err
	}
	a.logger.Info("user created", "email", user.Email)

	return a.Login(ctx, user)
}
