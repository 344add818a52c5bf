package order

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// idempotencyWindow is how long a checkout key is remembered. A replay inside
// the window returns the original order instead of creating a duplicate.
const idempotencyWindow = 24 * time.Hour

// IdempotencyStore reserves checkout idempotency keys in Redis.
type IdempotencyStore struct {
	rdb *redis.Client
}

// NewIdempotencyStore creates a Redis-backed idempotency store.
func NewIdempotencyStore(rdb *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb}
}

func idemKey(key string) string { return "order:idem:" + key }

// Reserve claims key for orderID. When the key was already claimed it returns
// created=false and the order ID of the original claim.
func (s *IdempotencyStore) Reserve(ctx context.Context, key, orderID string) (created bool, existingOrderID string, err error) {
	ok, err := s.rdb.SetNX(ctx, idemKey(key), orderID, idempotencyWindow).Result()
	if err != nil {
		return false, "", fmt.Errorf("reserve idempotency key: %w", err)
	}
	if ok {
		return true, "", nil
	}
	existing, err := s.rdb.Get(ctx, idemKey(key)).Result()
	if err != nil {
		return false, "", fmt.Errorf("read idempotency key: %w", err)
	}
	return false, existing, nil
}

// Release frees a reserved key after a failed checkout so the client can retry.
func (s *IdempotencyStore) Release(ctx context.Context, key string) {
	_ = s.rdb.Del(ctx, idemKey(key)).Err()
}
