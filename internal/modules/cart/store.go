package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// Store persists carts in Redis, one hash per user keyed by item id.
type Store struct {
	rdb *redis.Client
}

// NewStore creates a Redis-backed cart store.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func cartKey(userID string) string { return "cart:" + userID }

// Get loads all lines of a user's cart, sorted by item name for stable output.
func (s *Store) Get(ctx context.Context, userID string) ([]*Line, error) {
	fields, err := s.rdb.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	lines := make([]*Line, 0, len(fields))
	for _, raw := range fields {
		l := &Line{}
		if err := json.Unmarshal([]byte(raw), l); err != nil {
			return nil, fmt.Errorf("decode cart line: %w", err)
		}
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	return lines, nil
}

// GetLine returns a single line, or nil when the item is not in the cart.
func (s *Store) GetLine(ctx context.Context, userID, itemID string) (*Line, error) {
	raw, err := s.rdb.HGet(ctx, cartKey(userID), itemID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart line: %w", err)
	}
	l := &Line{}
	if err := json.Unmarshal([]byte(raw), l); err != nil {
		return nil, fmt.Errorf("decode cart line: %w", err)
	}
	return l, nil
}

// Put writes one line.
func (s *Store) Put(ctx context.Context, userID string, l *Line) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return s.rdb.HSet(ctx, cartKey(userID), l.ItemID, raw).Err()
}

// Remove deletes one line.
func (s *Store) Remove(ctx context.Context, userID, itemID string) error {
	return s.rdb.HDel(ctx, cartKey(userID), itemID).Err()
}

// Clear deletes the whole cart.
func (s *Store) Clear(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, cartKey(userID)).Err()
}
