package auth

import (
	"context"
	"errors"

	"github.com/kantin-app/kantin-backend/internal/modules/user"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Login verifies credentials and issues a signed session token.
	// The identifier may be an email address or a username.
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)

	// Logout revokes the given token for its remaining lifetime.
	Logout(ctx context.Context, tokenString string) error

	// Verify parses and validates a token, rejecting expired or revoked ones.
	Verify(ctx context.Context, tokenString string) (*Claims, error)
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// Failure conditions mapped to user-facing messages.
var (
	ErrUnknownIdentifier = errors.New("no account matches that email or username")
	ErrWrongPassword     = errors.New("incorrect password")
	ErrAccountDisabled   = errors.New("this account has been disabled")
	ErrSessionExpired    = errors.New("session expired, please log in again")
)
