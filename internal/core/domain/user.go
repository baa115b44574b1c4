package domain

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid username/password")
	ErrUsernameRequired     = errors.New("must provide username")
	ErrPasswordRequired     = errors.New("must provide password")
	ErrConfirmationRequired = errors.New("must confirm password")
	ErrPasswordMismatch     = errors.New("passwords do not match")
)

// User models a registered account. Accounts are immutable once created —
// there are no update or delete paths.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
