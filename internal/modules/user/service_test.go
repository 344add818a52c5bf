package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memRepo is an in-memory user repository.
type memRepo struct {
	users map[string]*User
}

func newMemRepo() *memRepo { return &memRepo{users: map[string]*User{}} }

func (r *memRepo) CreateUser(_ context.Context, u *User) error {
	r.users[u.ID.String()] = u
	return nil
}

func (r *memRepo) GetUserByID(_ context.Context, id string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	return u, nil
}

func (r *memRepo) GetUserByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("no rows")
}

func (r *memRepo) GetUserByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, fmt.Errorf("no rows")
}

func (r *memRepo) ListUsers(_ context.Context) ([]*User, error) {
	var out []*User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memRepo) UpdatePasswordHash(_ context.Context, id string, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("no rows")
	}
	u.PasswordHash = hash
	return nil
}

func (r *memRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("no rows")
	}
	u.IsActive = active
	return nil
}

func TestRegisterUser(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	req := RegisterRequest{
		Username:  "siti",
		Email:     "siti@example.com",
		Password:  "rahasia123",
		FirstName: "Siti",
		LastName:  "Aminah",
	}

	t.Run("creates an active customer account", func(t *testing.T) {
		u, err := svc.RegisterUser(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, RoleUser, u.Role)
		assert.True(t, u.IsActive)
		assert.NotEqual(t, "rahasia123", u.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("rahasia123")))
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		dup := req
		dup.Username = "siti2"
		_, err := svc.RegisterUser(ctx, dup)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("rejects a duplicate username", func(t *testing.T) {
		dup := req
		dup.Email = "siti2@example.com"
		_, err := svc.RegisterUser(ctx, dup)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already taken")
	})
}

func TestChangePassword(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	u, err := svc.RegisterUser(ctx, RegisterRequest{
		Username: "budi",
		Email:    "budi@example.com",
		Password: "lama12345",
	})
	require.NoError(t, err)

	t.Run("rejects the wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, u.ID.String(), "salah", "baru12345")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("stores the new hash", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, u.ID.String(), "lama12345", "baru12345"))

		got, err := svc.GetUser(ctx, u.ID.String())
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("baru12345")))
	})
}

func TestDeactivate(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	u, err := svc.RegisterUser(ctx, RegisterRequest{
		Username: "off",
		Email:    "off@example.com",
		Password: "rahasia123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, u.ID.String()))

	got, err := svc.GetUser(ctx, u.ID.String())
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Siti Aminah", (&User{Username: "siti", FirstName: "Siti", LastName: "Aminah"}).DisplayName())
	assert.Equal(t, "Siti", (&User{Username: "siti", FirstName: "Siti"}).DisplayName())
	assert.Equal(t, "siti", (&User{Username: "siti"}).DisplayName())
}
