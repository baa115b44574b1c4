package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/todo-webapp/internal/core/domain"
	"github.com/taskdeck/todo-webapp/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, logger: logger}
}

// Register validates the submitted fields in order (username, password,
// confirmation, match), hashes the password, and creates the account with a
// single atomic insert. Username uniqueness is enforced by the store's
// constraint, not a pre-check, so concurrent registrations cannot race past
// each other.
func (s *AuthService) Register(ctx context.Context, username, password, confirmation string) (*domain.User, error) {
	switch {
	case username == "":
		return nil, domain.ErrUsernameRequired
	case password == "":
		return nil, domain.ErrPasswordRequired
	case confirmation == "":
		return nil, domain.ErrConfirmationRequired
	case password != confirmation:
		return nil, domain.ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, username, string(hash))
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, err
	}

	s.logger.Info().Int64("user_id", id).Str("username", username).Msg("user registered")

	return &domain.User{ID: id, Username: username, PasswordHash: string(hash)}, nil
}

// Login verifies the credentials and returns the matching user. Every failure
// branch returns early; a missing account and a wrong password both collapse
// to domain.ErrInvalidCredentials so the response never reveals whether a
// username is taken.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	switch {
	case username == "":
		return nil, domain.ErrUsernameRequired
	case password == "":
		return nil, domain.ErrPasswordRequired
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user logged in")

	return user, nil
}
