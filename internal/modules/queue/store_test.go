package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a queue store backed by a miniredis instance.
func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr := miniredis.NewMiniRedis()
	err := mr.Start()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewStore(rdb), mr
}

func testEntry(storeID, orderID uuid.UUID, name string, createdAt time.Time) *Entry {
	return &Entry{
		ID:              uuid.New(),
		OrderID:         orderID,
		OrderNumber:     "ORD-20260829-TEST",
		StoreID:         storeID,
		ProductID:       uuid.New().String(),
		ProductName:     name,
		Quantity:        1,
		CustomerName:    "Siti",
		Status:          StatusWaiting,
		CreatedAt:       createdAt,
		StatusUpdatedAt: createdAt,
	}
}

func TestEnqueueAndList(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	storeA := uuid.New()
	storeB := uuid.New()
	orderID := uuid.New()
	base := time.Now()

	first := testEntry(storeA, orderID, "Nasi Goreng", base)
	second := testEntry(storeA, orderID, "Es Teh", base.Add(time.Second))
	other := testEntry(storeB, uuid.New(), "Bakso", base)

	require.NoError(t, store.Enqueue(ctx, []*Entry{first, second, other}))

	t.Run("lists entries in creation order per store", func(t *testing.T) {
		entries, err := store.ListForStore(ctx, storeA.String())
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, first.ID, entries[0].ID)
		assert.Equal(t, second.ID, entries[1].ID)
	})

	t.Run("count is derived from the index", func(t *testing.T) {
		count, err := store.Count(ctx, storeA.String())
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = store.Count(ctx, storeB.String())
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("round-trips entry fields", func(t *testing.T) {
		got, err := store.Get(ctx, first.ID.String())
		require.NoError(t, err)
		assert.Equal(t, first.OrderID, got.OrderID)
		assert.Equal(t, "Nasi Goreng", got.ProductName)
		assert.Equal(t, StatusWaiting, got.Status)
		assert.Equal(t, "Siti", got.CustomerName)
		assert.Equal(t, first.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())
	})

	t.Run("unknown entry id", func(t *testing.T) {
		_, err := store.Get(ctx, uuid.New().String())
		assert.ErrorIs(t, err, ErrEntryNotFound)
	})
}

func TestAdvance(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	e := testEntry(uuid.New(), uuid.New(), "Mie Ayam", time.Now())
	require.NoError(t, store.Enqueue(ctx, []*Entry{e}))
	id := e.ID.String()

	t.Run("advances waiting to preparing", func(t *testing.T) {
		got, err := store.Advance(ctx, id, StatusWaiting, StatusPreparing)
		require.NoError(t, err)
		assert.Equal(t, StatusPreparing, got.Status)
	})

	t.Run("stale writer loses the compare-and-swap", func(t *testing.T) {
		// A second operator still holding the waiting snapshot.
		_, err := store.Advance(ctx, id, StatusWaiting, StatusPreparing)
		require.ErrorIs(t, err, ErrInvalidTransition)
		assert.Contains(t, err.Error(), "preparing")
	})

	t.Run("advances preparing to ready", func(t *testing.T) {
		got, err := store.Advance(ctx, id, StatusPreparing, StatusReady)
		require.NoError(t, err)
		assert.Equal(t, StatusReady, got.Status)
	})

	t.Run("missing entry", func(t *testing.T) {
		_, err := store.Advance(ctx, uuid.New().String(), StatusWaiting, StatusPreparing)
		assert.ErrorIs(t, err, ErrEntryNotFound)
	})
}

func TestComplete(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	storeID := uuid.New()
	orderID := uuid.New()
	base := time.Now()
	first := testEntry(storeID, orderID, "Sate Ayam", base)
	second := testEntry(storeID, orderID, "Es Jeruk", base.Add(time.Second))
	require.NoError(t, store.Enqueue(ctx, []*Entry{first, second}))

	t.Run("removes exactly the targeted entry", func(t *testing.T) {
		removed, remaining, err := store.Complete(ctx, first.ID.String())
		require.NoError(t, err)
		assert.Equal(t, first.ID, removed.ID)
		assert.Equal(t, int64(1), remaining)

		count, err := store.Count(ctx, storeID.String())
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		entries, err := store.ListForStore(ctx, storeID.String())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, second.ID, entries[0].ID)
	})

	t.Run("duplicate complete of the same entry fails", func(t *testing.T) {
		_, _, err := store.Complete(ctx, first.ID.String())
		assert.ErrorIs(t, err, ErrEntryNotFound)

		// The queue is unchanged by the losing call.
		count, err := store.Count(ctx, storeID.String())
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("completing the last entry empties the queue", func(t *testing.T) {
		_, remaining, err := store.Complete(ctx, second.ID.String())
		require.NoError(t, err)
		assert.Equal(t, int64(0), remaining)

		count, err := store.Count(ctx, storeID.String())
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		entries, err := store.ListForStore(ctx, storeID.String())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestSubscribe(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	storeID := uuid.New()

	t.Run("receives added events for its store only", func(t *testing.T) {
		sub, err := store.Subscribe(ctx, storeID.String())
		require.NoError(t, err)
		defer sub.Close()

		mine := testEntry(storeID, uuid.New(), "Gado-Gado", time.Now())
		other := testEntry(uuid.New(), uuid.New(), "Soto", time.Now())
		require.NoError(t, store.Enqueue(ctx, []*Entry{mine, other}))

		select {
		case ev := <-sub.Events():
			assert.Equal(t, EventAdded, ev.Type)
			assert.Equal(t, mine.ID, ev.Entry.ID)
		case <-time.After(1 * time.Second):
			t.Fatal("timeout waiting for added event")
		}
	})

	t.Run("receives status and completed events", func(t *testing.T) {
		sub, err := store.Subscribe(ctx, storeID.String())
		require.NoError(t, err)
		defer sub.Close()

		e := testEntry(storeID, uuid.New(), "Rendang", time.Now())
		require.NoError(t, store.Enqueue(ctx, []*Entry{e}))

		_, err = store.Advance(ctx, e.ID.String(), StatusWaiting, StatusPreparing)
		require.NoError(t, err)
		_, _, err = store.Complete(ctx, e.ID.String())
		require.NoError(t, err)

		var types []EventType
		for len(types) < 3 {
			select {
			case ev := <-sub.Events():
				types = append(types, ev.Type)
			case <-time.After(1 * time.Second):
				t.Fatalf("timeout after events %v", types)
			}
		}
		assert.Equal(t, []EventType{EventAdded, EventStatus, EventCompleted}, types)
	})

	t.Run("close stops delivery", func(t *testing.T) {
		sub, err := store.Subscribe(ctx, storeID.String())
		require.NoError(t, err)
		require.NoError(t, sub.Close())

		select {
		case _, ok := <-sub.Events():
			assert.False(t, ok)
		case <-time.After(1 * time.Second):
			t.Fatal("events channel not closed")
		}
	})
}
