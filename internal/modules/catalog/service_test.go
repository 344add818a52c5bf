package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantin-app/kantin-backend/internal/modules/store"
)

// memRepo is an in-memory item repository that can simulate an outage.
type memRepo struct {
	items map[string]*Item
	down  bool
}

var errDown = errors.New("connection refused")

func newMemRepo() *memRepo { return &memRepo{items: map[string]*Item{}} }

func (r *memRepo) Create(_ context.Context, item *Item) error {
	if r.down {
		return errDown
	}
	r.items[item.ID.String()] = item
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Item, error) {
	if r.down {
		return nil, errDown
	}
	it, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	return it, nil
}

func (r *memRepo) List(_ context.Context, storeID string, featuredOnly, includeUnavailable bool) ([]*Item, error) {
	if r.down {
		return nil, errDown
	}
	var out []*Item
	for _, it := range r.items {
		if storeID != "" && it.StoreID.String() != storeID {
			continue
		}
		if featuredOnly && !it.IsFeatured {
			continue
		}
		if !includeUnavailable && !it.IsAvailable {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, item *Item) error {
	if r.down {
		return errDown
	}
	r.items[item.ID.String()] = item
	return nil
}

func (r *memRepo) SetAvailable(_ context.Context, id string, available bool) error {
	if r.down {
		return errDown
	}
	it, ok := r.items[id]
	if !ok {
		return fmt.Errorf("no rows")
	}
	it.IsAvailable = available
	return nil
}

func (r *memRepo) IncrementSales(_ context.Context, id string, n int) error {
	if r.down {
		return errDown
	}
	it, ok := r.items[id]
	if !ok {
		return fmt.Errorf("no rows")
	}
	it.SalesCount += n
	return nil
}

func TestListItemsFallback(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	t.Run("empty catalog serves the demo menu", func(t *testing.T) {
		items, err := svc.ListItems(ctx, "", false)
		require.NoError(t, err)
		assert.Len(t, items, 10)
	})

	t.Run("database outage serves the demo menu", func(t *testing.T) {
		repo.down = true
		defer func() { repo.down = false }()

		items, err := svc.ListItems(ctx, "", false)
		require.NoError(t, err)
		assert.Len(t, items, 10)
	})

	t.Run("fallback filters by store", func(t *testing.T) {
		items, err := svc.ListItems(ctx, store.FallbackStoreBudi.String(), false)
		require.NoError(t, err)
		require.Len(t, items, 4)
		for _, it := range items {
			assert.Equal(t, store.FallbackStoreBudi, it.StoreID)
		}
	})

	t.Run("fallback filters featured", func(t *testing.T) {
		items, err := svc.ListItems(ctx, "", true)
		require.NoError(t, err)
		for _, it := range items {
			assert.True(t, it.IsFeatured)
		}
		assert.Len(t, items, 6)
	})

	t.Run("real rows win over the fallback", func(t *testing.T) {
		created, err := svc.CreateItem(ctx, CreateItemRequest{
			StoreID: uuid.New().String(),
			Name:    "Nasi Uduk",
			Price:   13000,
		})
		require.NoError(t, err)

		items, err := svc.ListItems(ctx, "", false)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, created.ID, items[0].ID)
	})
}

func TestGetItemFallback(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	t.Run("resolves a demo item by its fixed id", func(t *testing.T) {
		demo := FallbackMenu("")[0]
		it, err := svc.GetItem(ctx, demo.ID.String())
		require.NoError(t, err)
		assert.Equal(t, demo.Name, it.Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetItem(ctx, uuid.New().String())
		assert.Error(t, err)
	})
}

func TestMutationsDuringOutage(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()
	repo.down = true

	_, err := svc.CreateItem(ctx, CreateItemRequest{StoreID: uuid.New().String(), Name: "X", Price: 1000})
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestDeleteItemSoftDeletes(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, CreateItemRequest{
		StoreID: uuid.New().String(),
		Name:    "Kerupuk",
		Price:   2000,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, created.ID.String()))

	// The row survives, flagged unavailable.
	it, err := svc.GetItem(ctx, created.ID.String())
	require.NoError(t, err)
	assert.False(t, it.IsAvailable)
}

func TestIncrementSales(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, CreateItemRequest{
		StoreID: uuid.New().String(),
		Name:    "Pisang Goreng",
		Price:   3000,
	})
	require.NoError(t, err)

	svc.IncrementSales(ctx, created.ID.String(), 3)
	it, err := svc.GetItem(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, it.SalesCount)
}
