package ports

import (
	"context"

	"github.com/taskdeck/todo-webapp/internal/core/domain"
)

// SessionStore persists server-side session state keyed by session ID.
type SessionStore interface {
	// Save creates or replaces the session.
	Save(ctx context.Context, sess *domain.Session) error

	// Find returns the session with the given ID, or domain.ErrSessionNotFound
	// when it does not exist or has expired.
	Find(ctx context.Context, id string) (*domain.Session, error)

	// Delete removes the session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}
