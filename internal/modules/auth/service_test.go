package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kantin-app/kantin-backend/internal/modules/user"
)

// stubUserRepo serves fixed accounts keyed by email and username.
type stubUserRepo struct {
	users []*user.User
}

func (r *stubUserRepo) CreateUser(context.Context, *user.User) error { return nil }

func (r *stubUserRepo) GetUserByID(_ context.Context, id string) (*user.User, error) {
	for _, u := range r.users {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (r *stubUserRepo) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (r *stubUserRepo) GetUserByUsername(_ context.Context, username string) (*user.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (r *stubUserRepo) ListUsers(context.Context) ([]*user.User, error) { return r.users, nil }

func (r *stubUserRepo) UpdatePasswordHash(context.Context, string, string) error { return nil }

func (r *stubUserRepo) SetActive(context.Context, string, bool) error { return nil }

func setupTestService(t *testing.T) (Service, *stubUserRepo) {
	mr := miniredis.NewMiniRedis()
	err := mr.Start()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia123"), bcrypt.MinCost)
	require.NoError(t, err)

	storeID := uuid.New()
	repo := &stubUserRepo{users: []*user.User{
		{
			ID:           uuid.New(),
			Username:     "siti",
			Email:        "siti@example.com",
			PasswordHash: string(hash),
			Role:         user.RoleUser,
			IsActive:     true,
		},
		{
			ID:           uuid.New(),
			Username:     "budi",
			Email:        "budi@example.com",
			PasswordHash: string(hash),
			Role:         user.RoleStoreManager,
			StoreID:      &storeID,
			IsActive:     true,
		},
		{
			ID:           uuid.New(),
			Username:     "off",
			Email:        "off@example.com",
			PasswordHash: string(hash),
			Role:         user.RoleUser,
			IsActive:     false,
		},
	}}

	return NewService(repo, rdb, []byte("test-key")), repo
}

func TestLogin(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()

	t.Run("by email", func(t *testing.T) {
		res, err := svc.Login(ctx, "siti@example.com", "rahasia123")
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "siti", res.User.Username)
	})

	t.Run("by username", func(t *testing.T) {
		res, err := svc.Login(ctx, "siti", "rahasia123")
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("manager token carries the store id", func(t *testing.T) {
		res, err := svc.Login(ctx, "budi", "rahasia123")
		require.NoError(t, err)

		claims, err := svc.Verify(ctx, res.Token)
		require.NoError(t, err)
		assert.Equal(t, string(user.RoleStoreManager), claims.Role)
		assert.Equal(t, repo.users[1].StoreID.String(), claims.StoreID)
		assert.Equal(t, repo.users[1].ID.String(), claims.Subject)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "rahasia123")
		assert.ErrorIs(t, err, ErrUnknownIdentifier)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "siti", "salah")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("disabled account", func(t *testing.T) {
		_, err := svc.Login(ctx, "off", "rahasia123")
		assert.ErrorIs(t, err, ErrAccountDisabled)
	})
}

func TestVerify(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "siti", "rahasia123")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		claims, err := svc.Verify(ctx, res.Token)
		require.NoError(t, err)
		assert.Equal(t, "siti", claims.Username)
		assert.NotEmpty(t, claims.Id)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Verify(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		mr := miniredis.NewMiniRedis()
		require.NoError(t, mr.Start())
		t.Cleanup(mr.Close)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { rdb.Close() })

		other := NewService(&stubUserRepo{}, rdb, []byte("other-key"))
		_, err := other.Verify(ctx, res.Token)
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("token past its lifetime reads as no session", func(t *testing.T) {
		impl := svc.(*service)
		savedNow := impl.nowFunc
		defer func() { impl.nowFunc = savedNow }()
		impl.nowFunc = func() time.Time { return time.Now().Add(sessionTTL + time.Hour) }

		_, err := svc.Verify(ctx, res.Token)
		assert.ErrorIs(t, err, ErrSessionExpired)
	})
}

func TestLogout(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	t.Run("revoked token fails on the next read", func(t *testing.T) {
		res, err := svc.Login(ctx, "siti", "rahasia123")
		require.NoError(t, err)

		_, err = svc.Verify(ctx, res.Token)
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, res.Token))

		_, err = svc.Verify(ctx, res.Token)
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("revocation is per token", func(t *testing.T) {
		first, err := svc.Login(ctx, "siti", "rahasia123")
		require.NoError(t, err)
		second, err := svc.Login(ctx, "siti", "rahasia123")
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, first.Token))

		_, err = svc.Verify(ctx, first.Token)
		assert.ErrorIs(t, err, ErrSessionExpired)
		_, err = svc.Verify(ctx, second.Token)
		assert.NoError(t, err)
	})

	t.Run("logging out an invalid token is a no-op", func(t *testing.T) {
		assert.NoError(t, svc.Logout(ctx, "not-a-token"))
	})
}
