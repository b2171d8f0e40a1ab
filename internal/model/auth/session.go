package auth

// UserProfile carries the cached identity of the logged-in user.
type UserProfile struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Token       string `json:"token"`
	CoinBalance int    `json:"coinBalance"`
}

// Session is the authenticated-or-not state of the current user.
// Invariant: Authenticated is true exactly when User is non-nil.
type Session struct {
	Authenticated bool
	User          *UserProfile
	Loading       bool
}

// InitialSession is the state at process start, before restore completes.
func InitialSession() Session {
	return Session{Authenticated: false, User: nil, Loading: true}
}

// Action is a tagged session transition. Implementations are the only
// way Session may change.
type Action interface {
	isAction()
}

// LoginAction transitions to an authenticated session with the given profile.
type LoginAction struct {
	Profile UserProfile
}

// LogoutAction resets the session to its unauthenticated form.
type LogoutAction struct{}

// SetLoadingAction toggles the restore-in-progress flag.
type SetLoadingAction struct {
	Loading bool
}

// UpdateCoinsAction replaces the cached coin balance.
type UpdateCoinsAction struct {
	Balance int
}

// UpdateProfileAction rewrites the mutable profile fields.
type UpdateProfileAction struct {
	Username string
	Email    string
}

func (LoginAction) isAction()         {}
func (LogoutAction) isAction()        {}
func (SetLoadingAction) isAction()    {}
func (UpdateCoinsAction) isAction()   {}
func (UpdateProfileAction) isAction() {}

// Apply is the pure session transition function. Actions that require an
// authenticated session are ignored when there is no user; unknown actions
// return the state unchanged.
func Apply(state Session, action Action) Session {
	switch a := action.(type) {
	case LoginAction:
		profile := a.Profile
		return Session{Authenticated: true, User: &profile, Loading: false}
	case LogoutAction:
		return Session{Authenticated: false, User: nil, Loading: false}
	case SetLoadingAction:
		state.Loading = a.Loading
		return state
	case UpdateCoinsAction:
		if state.User == nil {
			return state
		}
		user := *state.User
		user.CoinBalance = a.Balance
		state.User = &user
		return state
	case UpdateProfileAction:
		if state.User == nil {
			return state
		}
		user := *state.User
		if a.Username != "" {
			user.Username = a.Username
		}
		if a.Email != "" {
			user.Email = a.Email
		}
		state.User = &user
		return state
	default:
		return state
	}
}
