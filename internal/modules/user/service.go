package user

import "context"

// Service defines the interface for user-related business logic.
type Service interface {
	// RegisterUser creates a regular customer account with a hashed password.
	RegisterUser(ctx context.Context, req RegisterRequest) (*User, error)

	// GetUser retrieves a user by UUID.
	GetUser(ctx context.Context, id string) (*User, error)

	// ListUsers returns all accounts, newest first.
	ListUsers(ctx context.Context) ([]*User, error)

	// ChangePassword verifies the old password before storing a new hash.
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error

	// Deactivate disables an account. A disabled account cannot log in.
	Deactivate(ctx context.Context, id string) error
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=32"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
