package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory store repository that can simulate an outage.
type memRepo struct {
	stores map[string]*Store
	down   bool
}

var errDown = errors.New("connection refused")

func newMemRepo() *memRepo { return &memRepo{stores: map[string]*Store{}} }

func (r *memRepo) Create(_ context.Context, s *Store) error {
	if r.down {
		return errDown
	}
	r.stores[s.ID.String()] = s
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Store, error) {
	if r.down {
		return nil, errDown
	}
	s, ok := r.stores[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	return s, nil
}

func (r *memRepo) List(_ context.Context) ([]*Store, error) {
	if r.down {
		return nil, errDown
	}
	var out []*Store
	for _, s := range r.stores {
		out = append(out, s)
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, s *Store) error {
	if r.down {
		return errDown
	}
	r.stores[s.ID.String()] = s
	return nil
}

func (r *memRepo) SetOpen(_ context.Context, id string, open bool) error {
	if r.down {
		return errDown
	}
	s, ok := r.stores[id]
	if !ok {
		return fmt.Errorf("no rows")
	}
	s.IsOpen = open
	return nil
}

func TestListStoresFallback(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	t.Run("empty table serves the demo stores", func(t *testing.T) {
		stores, err := svc.ListStores(ctx)
		require.NoError(t, err)
		require.Len(t, stores, 3)
		assert.Equal(t, "Kantin Bu Ani", stores[0].Name)
	})

	t.Run("database outage serves the demo stores", func(t *testing.T) {
		repo.down = true
		defer func() { repo.down = false }()

		stores, err := svc.ListStores(ctx)
		require.NoError(t, err)
		assert.Len(t, stores, 3)
	})

	t.Run("real rows win over the fallback", func(t *testing.T) {
		created, err := svc.CreateStore(ctx, CreateStoreRequest{
			Name: "Kantin Baru",
			Slug: "kantin-baru",
		})
		require.NoError(t, err)

		stores, err := svc.ListStores(ctx)
		require.NoError(t, err)
		require.Len(t, stores, 1)
		assert.Equal(t, created.ID, stores[0].ID)
	})
}

func TestGetStoreFallback(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	t.Run("resolves a demo store by its fixed id", func(t *testing.T) {
		st, err := svc.GetStore(ctx, FallbackStoreKedai.String())
		require.NoError(t, err)
		assert.Equal(t, "Kedai Kopi & Snack", st.Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetStore(ctx, uuid.New().String())
		assert.Error(t, err)
	})
}

func TestSetOpen(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateStore(ctx, CreateStoreRequest{Name: "Kantin Baru", Slug: "kantin-baru"})
	require.NoError(t, err)
	require.True(t, created.IsOpen)

	require.NoError(t, svc.SetOpen(ctx, created.ID.String(), false))

	st, err := svc.GetStore(ctx, created.ID.String())
	require.NoError(t, err)
	assert.False(t, st.IsOpen)
}

func TestFallbackCopiesAreIsolated(t *testing.T) {
	first := FallbackStores()
	first[0].Name = "mutated"

	second := FallbackStores()
	assert.Equal(t, "Kantin Bu Ani", second[0].Name)
}
