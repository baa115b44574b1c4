package ports

import (
	"context"

	"github.com/taskdeck/todo-webapp/internal/core/domain"
)

// UserRepository defines the interface for account persistence.
type UserRepository interface {
	// FindByUsername returns the user with the given username, or
	// domain.ErrUserNotFound when no such account exists.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// Create inserts a new account in a single atomic statement and returns
	// its new ID. A uniqueness violation on the username is reported as
	// domain.ErrUserExists.
	Create(ctx context.Context, username, passwordHash string) (int64, error)
}
