package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Heipiao/taluo/internal/api"
	"github.com/Heipiao/taluo/internal/service/auth"
	"github.com/Heipiao/taluo/internal/store"
)

func newManager(t *testing.T, handler http.Handler) (*auth.Manager, store.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	creds := store.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	client := api.NewClient(server.URL, 5*time.Second)
	return auth.NewManager(client, creds), creds
}

func loginHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/user/login":
			json.NewEncoder(w).Encode(api.LoginResponse{Token: "t1", UserID: "u1", Username: "Al"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestLoginEstablishesSession(t *testing.T) {
	mgr, _ := newManager(t, loginHandler(t))

	if err := mgr.Login(context.Background(), "a@b.com", "x"); err != nil {
		t.Fatalf("Login err: %v", err)
	}

	session := mgr.Session()
	if !session.Authenticated || session.User == nil {
		t.Fatalf("expected authenticated session: %+v", session)
	}
	if session.User.UserID != "u1" || session.User.Username != "Al" || session.User.Token != "t1" {
		t.Fatalf("unexpected profile: %+v", session.User)
	}
	if session.User.CoinBalance != 0 {
		t.Fatalf("fresh login should start with zero coins, got %d", session.User.CoinBalance)
	}
}

func TestLoginValidation(t *testing.T) {
	called := false
	mgr, _ := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	if err := mgr.Login(context.Background(), "", "x"); !errors.Is(err, auth.ErrFieldsRequired) {
		t.Fatalf("expected ErrFieldsRequired, got %v", err)
	}
	if called {
		t.Fatal("validation failure must not hit the network")
	}
	if mgr.Session().Authenticated {
		t.Fatal("session must stay unauthenticated")
	}
}

func TestLoginFailureSurfacesMessage(t *testing.T) {
	mgr, _ := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Login failed"})
	}))

	err := mgr.Login(context.Background(), "a@b.com", "bad")
	if err == nil {
		t.Fatal("expected error")
	}
	if mgr.Session().Authenticated {
		t.Fatal("failed login must not authenticate")
	}
}

func TestRestoreSessionRoundTrip(t *testing.T) {
	mgr, creds := newManager(t, loginHandler(t))

	if err := mgr.Login(context.Background(), "a@b.com", "x"); err != nil {
		t.Fatalf("Login err: %v", err)
	}

	// A fresh manager over the same store must pick the session back up.
	client := api.NewClient("http://127.0.0.1:0", time.Second)
	restored := auth.NewManager(client, creds)
	restored.RestoreSession(context.Background())

	session := restored.Session()
	if !session.Authenticated || session.User == nil {
		t.Fatalf("restore did not authenticate: %+v", session)
	}
	if session.Loading {
		t.Fatal("restore must clear loading")
	}
	if session.User.Token != "t1" || session.User.Email != "a@b.com" {
		t.Fatalf("unexpected restored profile: %+v", session.User)
	}
}

func TestLogoutThenRestore(t *testing.T) {
	mgr, creds := newManager(t, loginHandler(t))

	if err := mgr.Login(context.Background(), "a@b.com", "x"); err != nil {
		t.Fatalf("Login err: %v", err)
	}
	mgr.Logout(context.Background())

	session := mgr.Session()
	if session.Authenticated || session.User != nil {
		t.Fatalf("logout did not reset session: %+v", session)
	}

	restored := auth.NewManager(api.NewClient("http://127.0.0.1:0", time.Second), creds)
	restored.RestoreSession(context.Background())
	if got := restored.Session(); got.Authenticated || got.User != nil {
		t.Fatalf("restore after logout must stay logged out: %+v", got)
	}
}

func TestRestoreSessionNoCredentials(t *testing.T) {
	mgr, _ := newManager(t, loginHandler(t))

	mgr.RestoreSession(context.Background())

	session := mgr.Session()
	if session.Authenticated || session.User != nil || session.Loading {
		t.Fatalf("expected clean unauthenticated state: %+v", session)
	}
}

func TestRestoreSessionTokenWithoutProfile(t *testing.T) {
	creds := store.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	if err := creds.Save(store.Credentials{Token: "orphan"}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	mgr := auth.NewManager(api.NewClient("http://127.0.0.1:0", time.Second), creds)
	mgr.RestoreSession(context.Background())

	if got := mgr.Session(); got.Authenticated {
		t.Fatalf("token without profile must fail open: %+v", got)
	}
}

func TestSignupDoesNotAuthenticate(t *testing.T) {
	mgr, _ := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/user/register" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(api.RegisterResponse{Username: "Al"})
	}))

	username, err := mgr.Signup(context.Background(), "Al", "a@b.com", "x")
	if err != nil {
		t.Fatalf("Signup err: %v", err)
	}
	if username != "Al" {
		t.Fatalf("unexpected username %q", username)
	}
	if mgr.Session().Authenticated {
		t.Fatal("register issues no token, session must stay logged out")
	}
}

func TestRefreshCoinBalance(t *testing.T) {
	mgr, _ := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/user/login":
			json.NewEncoder(w).Encode(api.LoginResponse{Token: "t1", UserID: "u1", Username: "Al"})
		case "/admin/user/balance":
			if r.Header.Get("Authorization") != "Bearer t1" {
				t.Errorf("missing bearer token")
			}
			json.NewEncoder(w).Encode(api.BalanceResponse{Balance: 120})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	if err := mgr.Login(context.Background(), "a@b.com", "x"); err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if err := mgr.RefreshCoinBalance(context.Background()); err != nil {
		t.Fatalf("RefreshCoinBalance err: %v", err)
	}
	if got := mgr.Session().User.CoinBalance; got != 120 {
		t.Fatalf("unexpected balance %d", got)
	}
}

func TestUpdateCoinBalanceRequiresLogin(t *testing.T) {
	mgr, _ := newManager(t, loginHandler(t))

	mgr.UpdateCoinBalance(60)
	if mgr.Session().User != nil {
		t.Fatal("coin update while logged out must be a no-op")
	}
}
