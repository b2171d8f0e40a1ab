// Package store persists the auth token and cached user profile across
// process restarts. It is the client's only durable state.
package store

import "errors"

// ErrNoCredentials reports that no credentials have been saved yet.
var ErrNoCredentials = errors.New("no stored credentials")

// UserData is the cached profile slice written alongside the token.
type UserData struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Credentials groups the two values that are always written and cleared
// together.
type Credentials struct {
	Token string   `json:"userToken"`
	User  UserData `json:"userData"`
}

// Store abstracts credential persistence. Implementations must sequence
// writes so that a later Load observes the most recent Save or Clear.
type Store interface {
	Save(creds Credentials) error
	Load() (Credentials, error)
	Clear() error
}
