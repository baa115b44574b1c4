package session

import "github.com/taskdeck/todo-webapp/internal/core/domain"

// State is the per-request view of the client's session. Handlers mutate it
// freely; the session middleware persists the result once, after the handler
// returns.
type State struct {
	sess *domain.Session

	// loadedID is the session ID resolved from a valid cookie, empty when the
	// request arrived anonymous.
	loadedID string
	dirty    bool
	cleared  bool
}

func newState(sess *domain.Session, loadedID string) *State {
	if sess == nil {
		sess = &domain.Session{}
	}
	return &State{sess: sess, loadedID: loadedID}
}

// UserID returns the authenticated identity, if any.
func (s *State) UserID() (int64, bool) {
	if !s.sess.Authenticated() {
		return 0, false
	}
	return s.sess.UserID, true
}

// Username returns the authenticated display name, or "".
func (s *State) Username() string {
	return s.sess.Username
}

// Authenticate binds an identity to the session.
func (s *State) Authenticate(id int64, username string) {
	s.sess.UserID = id
	s.sess.Username = username
	s.dirty = true
}

// Clear drops the identity and all flash state. The previous server-side
// session is deleted and any state set afterwards lands in a fresh session
// under a new ID, so logging in never reuses a pre-auth session ID.
func (s *State) Clear() {
	s.cleared = true
	s.sess = &domain.Session{}
	s.dirty = false
}

// SetError stores a one-shot error flash.
func (s *State) SetError(msg string) {
	s.sess.FlashError = msg
	s.dirty = true
}

// SetSuccess stores a one-shot success flash.
func (s *State) SetSuccess(msg string) {
	s.sess.FlashSuccess = msg
	s.dirty = true
}

// TakeError returns and clears the error flash.
func (s *State) TakeError() string {
	msg := s.sess.FlashError
	if msg != "" {
		s.sess.FlashError = ""
		s.dirty = true
	}
	return msg
}

// TakeSuccess returns and clears the success flash.
func (s *State) TakeSuccess() string {
	msg := s.sess.FlashSuccess
	if msg != "" {
		s.sess.FlashSuccess = ""
		s.dirty = true
	}
	return msg
}
