package auth_test

import (
	"testing"

	"github.com/Heipiao/taluo/internal/model/auth"
)

func TestApplyLoginLogout(t *testing.T) {
	state := auth.InitialSession()
	if !state.Loading || state.Authenticated || state.User != nil {
		t.Fatalf("unexpected initial state: %+v", state)
	}

	state = auth.Apply(state, auth.LoginAction{Profile: auth.UserProfile{
		UserID:   "u1",
		Username: "阿明",
		Email:    "a@b.com",
		Token:    "t1",
	}})
	if !state.Authenticated || state.User == nil {
		t.Fatalf("login did not authenticate: %+v", state)
	}
	if state.Loading {
		t.Fatal("login should clear loading")
	}

	state = auth.Apply(state, auth.LogoutAction{})
	if state.Authenticated || state.User != nil {
		t.Fatalf("logout did not reset session: %+v", state)
	}
}

// The invariant Authenticated == (User != nil) must hold after every
// transition, for any sequence of actions.
func TestApplyInvariantAcrossSequences(t *testing.T) {
	actions := []auth.Action{
		auth.SetLoadingAction{Loading: false},
		auth.UpdateCoinsAction{Balance: 30},
		auth.LoginAction{Profile: auth.UserProfile{UserID: "u1", Username: "Al", Token: "t1"}},
		auth.UpdateCoinsAction{Balance: 60},
		auth.UpdateProfileAction{Username: "Alice"},
		auth.LogoutAction{},
		auth.UpdateProfileAction{Username: "ghost"},
		auth.LoginAction{Profile: auth.UserProfile{UserID: "u2", Username: "Bo", Token: "t2"}},
		auth.LogoutAction{},
	}

	state := auth.InitialSession()
	for i, action := range actions {
		state = auth.Apply(state, action)
		if state.Authenticated != (state.User != nil) {
			t.Fatalf("invariant broken after action %d (%T): %+v", i, action, state)
		}
	}
}

func TestApplyUpdateCoinsRequiresUser(t *testing.T) {
	state := auth.Apply(auth.InitialSession(), auth.UpdateCoinsAction{Balance: 99})
	if state.User != nil {
		t.Fatal("coin update on unauthenticated session must be a no-op")
	}
}

func TestApplyUpdateProfileDoesNotMutateShared(t *testing.T) {
	logged := auth.Apply(auth.InitialSession(), auth.LoginAction{Profile: auth.UserProfile{
		UserID:   "u1",
		Username: "Al",
		Email:    "a@b.com",
	}})

	updated := auth.Apply(logged, auth.UpdateProfileAction{Username: "Alice"})
	if logged.User.Username != "Al" {
		t.Fatalf("previous state mutated: %q", logged.User.Username)
	}
	if updated.User.Username != "Alice" || updated.User.Email != "a@b.com" {
		t.Fatalf("unexpected updated profile: %+v", updated.User)
	}
}
