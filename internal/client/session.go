package client

import (
	"errors"

	"academy/internal/model"
)

// SessionKey is the storage key of the session document.
const SessionKey = "session"

// SessionState is the bearer token together with the user it was issued for.
type SessionState struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Valid reports whether both halves are present.
func (s SessionState) Valid() bool {
	return s.Token != "" && s.User != nil && s.User.ID != ""
}

// Session stores SessionState under a single key so the token and the user
// are always written and removed together. Set and Clear are the only mutators.
type Session struct {
	store Store
}

// NewSession binds a session to store.
func NewSession(store Store) *Session {
	return &Session{store: store}
}

// Load returns the stored state. A partial or unreadable document counts as no session.
func (s *Session) Load() (SessionState, bool) {
	var state SessionState
	ok, err := getJSON(s.store, SessionKey, &state)
	if err != nil || !ok || !state.Valid() {
		return SessionState{}, false
	}
	return state, true
}

// Set replaces the session.
func (s *Session) Set(token string, user *model.User) error {
	state := SessionState{Token: token, User: user}
	if !state.Valid() {
		return errors.New("session needs both a token and a user")
	}
	return setJSON(s.store, SessionKey, state)
}

// Clear removes the session.
func (s *Session) Clear() error {
	return s.store.Delete(SessionKey)
}
