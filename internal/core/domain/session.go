package domain

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side state bound to one browser session. The client
// only ever holds an opaque signed token referencing the session ID; all
// fields live in the session store.
//
// Flash fields are one-shot: they are cleared the first time they are read.
type Session struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	Username     string    `json:"username"`
	FlashError   string    `json:"flash_error,omitempty"`
	FlashSuccess string    `json:"flash_success,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Authenticated reports whether an identity is bound to the session.
func (s *Session) Authenticated() bool {
	return s.UserID != 0
}

// Expired reports whether the session has outlived its TTL at time now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
