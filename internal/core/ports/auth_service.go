package ports

import (
	"context"

	"github.com/taskdeck/todo-webapp/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password, confirmation string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
}
