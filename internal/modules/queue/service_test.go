package queue

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestService(t *testing.T) Service {
	store, _ := setupTestStore(t)
	return NewService(store)
}

func testInputs(storeID, orderID uuid.UUID, names ...string) []NewEntryInput {
	inputs := make([]NewEntryInput, 0, len(names))
	for _, name := range names {
		inputs = append(inputs, NewEntryInput{
			OrderID:      orderID,
			OrderNumber:  "ORD-20260829-TEST",
			StoreID:      storeID,
			ProductID:    uuid.New().String(),
			ProductName:  name,
			Quantity:     1,
			CustomerName: "Budi",
		})
	}
	return inputs
}

// completionRecorder captures listener notifications.
type completionRecorder struct {
	orderID   string
	remaining int64
	calls     int
}

func (r *completionRecorder) EntryCompleted(_ context.Context, orderID string, remaining int64) {
	r.orderID = orderID
	r.remaining = remaining
	r.calls++
}

func TestServiceEnqueue(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	storeID := uuid.New()
	orderID := uuid.New()

	t.Run("creates one waiting entry per input", func(t *testing.T) {
		entries, err := svc.Enqueue(ctx, testInputs(storeID, orderID, "Nasi Goreng", "Nasi Goreng", "Es Teh"))
		require.NoError(t, err)
		require.Len(t, entries, 3)
		for _, e := range entries {
			assert.Equal(t, StatusWaiting, e.Status)
			assert.Equal(t, storeID, e.StoreID)
			assert.NotEqual(t, uuid.Nil, e.ID)
		}

		view, err := svc.ListForStore(ctx, storeID.String())
		require.NoError(t, err)
		assert.Equal(t, 3, view.Count)
		assert.Len(t, view.Entries, 3)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := svc.Enqueue(ctx, nil)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		bad := testInputs(storeID, orderID, "Bakso")
		bad[0].Quantity = 0
		_, err := svc.Enqueue(ctx, bad)
		assert.Error(t, err)
	})
}

func TestServiceAdvanceStatus(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	entries, err := svc.Enqueue(ctx, testInputs(uuid.New(), uuid.New(), "Mie Ayam"))
	require.NoError(t, err)
	id := entries[0].ID.String()

	t.Run("cannot skip preparing", func(t *testing.T) {
		_, err := svc.AdvanceStatus(ctx, id, StatusReady)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("cannot advance to waiting", func(t *testing.T) {
		_, err := svc.AdvanceStatus(ctx, id, StatusWaiting)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("walks the full ladder in order", func(t *testing.T) {
		e, err := svc.AdvanceStatus(ctx, id, StatusPreparing)
		require.NoError(t, err)
		assert.Equal(t, StatusPreparing, e.Status)

		e, err = svc.AdvanceStatus(ctx, id, StatusReady)
		require.NoError(t, err)
		assert.Equal(t, StatusReady, e.Status)
	})

	t.Run("cannot regress once ready", func(t *testing.T) {
		_, err := svc.AdvanceStatus(ctx, id, StatusPreparing)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestServiceComplete(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	storeID := uuid.New()
	orderID := uuid.New()
	rec := &completionRecorder{}
	svc.SetCompletionListener(rec)

	entries, err := svc.Enqueue(ctx, testInputs(storeID, orderID, "Sate Ayam", "Es Jeruk"))
	require.NoError(t, err)

	t.Run("notifies the listener with the remaining count", func(t *testing.T) {
		require.NoError(t, svc.Complete(ctx, entries[0].ID.String()))
		assert.Equal(t, 1, rec.calls)
		assert.Equal(t, orderID.String(), rec.orderID)
		assert.Equal(t, int64(1), rec.remaining)
	})

	t.Run("last completion reports zero remaining", func(t *testing.T) {
		require.NoError(t, svc.Complete(ctx, entries[1].ID.String()))
		assert.Equal(t, 2, rec.calls)
		assert.Equal(t, int64(0), rec.remaining)

		view, err := svc.ListForStore(ctx, storeID.String())
		require.NoError(t, err)
		assert.Equal(t, 0, view.Count)
		assert.Empty(t, view.Entries)
	})

	t.Run("completing a completed entry is not retried against the listener", func(t *testing.T) {
		err := svc.Complete(ctx, entries[1].ID.String())
		assert.ErrorIs(t, err, ErrEntryNotFound)
		assert.Equal(t, 2, rec.calls)
	})
}

func TestServiceStats(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	storeID := uuid.New()
	entries, err := svc.Enqueue(ctx, testInputs(storeID, uuid.New(), "Gado-Gado", "Soto", "Rendang"))
	require.NoError(t, err)

	_, err = svc.AdvanceStatus(ctx, entries[0].ID.String(), StatusPreparing)
	require.NoError(t, err)
	_, err = svc.AdvanceStatus(ctx, entries[0].ID.String(), StatusReady)
	require.NoError(t, err)
	_, err = svc.AdvanceStatus(ctx, entries[1].ID.String(), StatusPreparing)
	require.NoError(t, err)

	stats, err := svc.StatsForStore(ctx, storeID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 1, stats.Waiting)
	assert.Equal(t, 1, stats.Preparing)
	assert.Equal(t, 1, stats.Ready)
}

// Entries enqueued in one call share a creation timestamp.
func TestEnqueueSharedTimestamp(t *testing.T) {
	store, _ := setupTestStore(t)
	svc := NewService(store)
	ctx := context.Background()

	entries, err := svc.Enqueue(ctx, testInputs(uuid.New(), uuid.New(), "A", "B"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entries[0].CreatedAt, entries[1].CreatedAt)
	assert.WithinDuration(t, time.Now(), entries[0].CreatedAt, time.Minute)
}
