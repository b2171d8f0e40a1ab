// Package auth owns the client's authentication lifecycle: restoring a
// session from the credential store at startup, login/signup/logout against
// the backend, and the cached profile mutations.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Heipiao/taluo/internal/api"
	authmodel "github.com/Heipiao/taluo/internal/model/auth"
	"github.com/Heipiao/taluo/internal/store"
)

var (
	// ErrFieldsRequired mirrors the app's blocking validation alert.
	ErrFieldsRequired = errors.New("All fields are required!")
	// ErrNotAuthenticated guards operations that need a logged-in session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Manager mediates every session transition. All mutations go through the
// pure reducer in internal/model/auth; persistence failures are logged and
// never block a transition.
type Manager struct {
	mu      sync.Mutex
	session authmodel.Session

	client *api.Client
	creds  store.Store
}

// NewManager wires the manager to the backend client and credential store.
// The session starts Uninitialized with Loading set until RestoreSession runs.
func NewManager(client *api.Client, creds store.Store) *Manager {
	return &Manager{
		session: authmodel.InitialSession(),
		client:  client,
		creds:   creds,
	}
}

// Session returns a snapshot safe to hand to other goroutines.
func (m *Manager) Session() authmodel.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.session
	if snapshot.User != nil {
		user := *snapshot.User
		snapshot.User = &user
	}
	return snapshot
}

// Token returns the bearer token of the active session, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.User == nil {
		return ""
	}
	return m.session.User.Token
}

// RestoreSession rebuilds the session from the credential store, once at
// process start. Any read failure fails open to Unauthenticated so the UI is
// never blocked on storage.
func (m *Manager) RestoreSession(_ context.Context) {
	creds, err := m.creds.Load()
	if err != nil {
		if !errors.Is(err, store.ErrNoCredentials) {
			log.Printf("[auth] credential restore failed, starting logged out: %v", err)
		}
		m.dispatch(authmodel.LogoutAction{})
		return
	}
	if creds.User.UserID == "" {
		// Token without a cached profile: fail open rather than guess.
		log.Printf("[auth] stored token has no profile, starting logged out")
		m.dispatch(authmodel.LogoutAction{})
		return
	}

	m.dispatch(authmodel.LoginAction{Profile: authmodel.UserProfile{
		UserID:   creds.User.UserID,
		Username: creds.User.Username,
		Email:    creds.User.Email,
		Token:    creds.Token,
	}})
}

// Login authenticates with email and password.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ErrFieldsRequired
	}

	resp, err := m.client.EmailLogin(ctx, api.EmailLoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	m.establish(authmodel.UserProfile{
		UserID:   resp.UserID,
		Username: resp.Username,
		Email:    email,
		Token:    resp.Token,
	})
	return nil
}

// PhoneLogin authenticates with a phone number and SMS code; the backend
// creates the account on first login.
func (m *Manager) PhoneLogin(ctx context.Context, phone, code string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" || strings.TrimSpace(code) == "" {
		return ErrFieldsRequired
	}

	resp, err := m.client.PhoneLogin(ctx, api.PhoneLoginRequest{PhoneNumber: phone, Code: code})
	if err != nil {
		return err
	}

	m.establish(authmodel.UserProfile{
		UserID:   resp.UserID,
		Username: resp.Username,
		Token:    resp.Token,
	})
	return nil
}

// Signup registers an email account. Register issues no token, so the
// session stays logged out; callers follow up with Login.
func (m *Manager) Signup(ctx context.Context, username, email, password string) (string, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return "", ErrFieldsRequired
	}

	resp, err := m.client.Register(ctx, api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return "", err
	}
	return resp.Username, nil
}

// SendSMSCode requests a login code for the given phone number.
func (m *Manager) SendSMSCode(ctx context.Context, phone string) error {
	if strings.TrimSpace(phone) == "" {
		return ErrFieldsRequired
	}
	return m.client.SendSMSCode(ctx, phone)
}

// Logout clears stored credentials and resets the session. The transition
// happens even when the clear fails.
func (m *Manager) Logout(_ context.Context) {
	if err := m.creds.Clear(); err != nil {
		log.Printf("[auth] credential clear failed: %v", err)
	}
	m.dispatch(authmodel.LogoutAction{})
}

// UpdateProfile pushes new profile fields to the backend and echoes them to
// the local session and the credential store.
func (m *Manager) UpdateProfile(ctx context.Context, username, email string) error {
	session := m.Session()
	if session.User == nil {
		return ErrNotAuthenticated
	}

	if err := m.client.UpdateProfile(ctx, session.User.Token, api.UpdateProfileRequest{
		Username: username,
		Email:    email,
	}); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	m.dispatch(authmodel.UpdateProfileAction{Username: username, Email: email})
	m.persistSession()
	return nil
}

// RefreshCoinBalance pulls the balance from the backend into the session.
func (m *Manager) RefreshCoinBalance(ctx context.Context) error {
	token := m.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	balance, err := m.client.GetBalance(ctx, token)
	if err != nil {
		return fmt.Errorf("refresh balance: %w", err)
	}
	m.dispatch(authmodel.UpdateCoinsAction{Balance: balance})
	return nil
}

// UpdateCoinBalance mutates the cached balance locally, e.g. after a
// purchase confirmation. No-op when logged out.
func (m *Manager) UpdateCoinBalance(balance int) {
	m.dispatch(authmodel.UpdateCoinsAction{Balance: balance})
}

// InviteInfo fetches the account's invite code.
func (m *Manager) InviteInfo(ctx context.Context) (string, error) {
	token := m.Token()
	if token == "" {
		return "", ErrNotAuthenticated
	}
	return m.client.GetInviteCode(ctx, token)
}

// UseInviteCode redeems a referrer's invite code.
func (m *Manager) UseInviteCode(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrFieldsRequired
	}
	token := m.Token()
	if token == "" {
		return ErrNotAuthenticated
	}
	return m.client.SetReferrer(ctx, token, code)
}

// establish records a fresh login: persist first, then transition, so a
// restore that follows observes the write.
func (m *Manager) establish(profile authmodel.UserProfile) {
	if err := m.creds.Save(store.Credentials{
		Token: profile.Token,
		User: store.UserData{
			UserID:   profile.UserID,
			Username: profile.Username,
			Email:    profile.Email,
		},
	}); err != nil {
		log.Printf("[auth] credential save failed: %v", err)
	}
	m.dispatch(authmodel.LoginAction{Profile: profile})
}

// persistSession echoes the in-memory profile back to the store.
func (m *Manager) persistSession() {
	session := m.Session()
	if session.User == nil {
		return
	}
	if err := m.creds.Save(store.Credentials{
		Token: session.User.Token,
		User: store.UserData{
			UserID:   session.User.UserID,
			Username: session.User.Username,
			Email:    session.User.Email,
		},
	}); err != nil {
		log.Printf("[auth] credential save failed: %v", err)
	}
}

func (m *Manager) dispatch(action authmodel.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = authmodel.Apply(m.session, action)
}
