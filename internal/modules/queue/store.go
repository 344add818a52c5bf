package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps the live order queue in Redis. Each entry is its own hash so
// entries have durable identity; a per-store sorted set scored by creation
// time provides FIFO ordering, and the entry count is always the set's
// cardinality rather than a separately maintained field.
type Store struct {
	rdb *redis.Client
}

// NewStore creates a Redis-backed queue store.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func entryKey(id string) string      { return "queue:entry:" + id }
func storeKey(storeID string) string { return "queue:store:" + storeID }
func orderKey(orderID string) string { return "queue:order:" + orderID }
func eventsChannel(storeID string) string {
	return "queue:events:" + storeID
}

// advanceScript compare-and-swaps an entry's status. It succeeds only when
// the current status equals the expected one, so a stale or duplicate writer
// fails instead of clobbering a concurrent transition.
// Returns "ok", "missing", or the actual current status.
var advanceScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'status')
if cur == false then
	return 'missing'
end
if cur ~= ARGV[1] then
	return cur
end
redis.call('HSET', KEYS[1], 'status', ARGV[2], 'status_updated_at', ARGV[3])
return 'ok'
`)

// completeScript atomically removes an entry and its index memberships.
// Exactly one caller can win; later callers see -1. On success it returns the
// number of entries still queued for the same order.
var completeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[2], ARGV[1])
redis.call('SREM', KEYS[3], ARGV[1])
return redis.call('SCARD', KEYS[3])
`)

// Enqueue appends entries to their stores' queues and publishes one added
// event per entry after the writes land.
func (s *Store) Enqueue(ctx context.Context, entries []*Entry) error {
	pipe := s.rdb.TxPipeline()
	for _, e := range entries {
		id := e.ID.String()
		pipe.HSet(ctx, entryKey(id), entryToHash(e))
		pipe.ZAdd(ctx, storeKey(e.StoreID.String()), redis.Z{
			Score:  float64(e.CreatedAt.UnixMilli()),
			Member: id,
		})
		pipe.SAdd(ctx, orderKey(e.OrderID.String()), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("enqueue entries: %w", err)
	}
	for _, e := range entries {
		s.publish(ctx, &Event{Type: EventAdded, Entry: e})
	}
	return nil
}

// Get retrieves an entry by ID.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	h, err := s.rdb.HGetAll(ctx, entryKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("read entry: %w", err)
	}
	if len(h) == 0 {
		return nil, ErrEntryNotFound
	}
	return hashToEntry(h)
}

// ListForStore returns a store's entries in creation order.
func (s *Store) ListForStore(ctx context.Context, storeID string) ([]*Entry, error) {
	ids, err := s.rdb.ZRange(ctx, storeKey(storeID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read store queue: %w", err)
	}

	entries := make([]*Entry, 0, len(ids))
	for _, id := range ids {
		e, err := s.Get(ctx, id)
		if err == ErrEntryNotFound {
			// Entry completed between the range read and the hash read.
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Count returns the number of queued entries for a store.
func (s *Store) Count(ctx context.Context, storeID string) (int64, error) {
	return s.rdb.ZCard(ctx, storeKey(storeID)).Result()
}

// Advance transitions an entry from the expected status to the next one.
func (s *Store) Advance(ctx context.Context, id string, from, to Status) (*Entry, error) {
	res, err := advanceScript.Run(ctx, s.rdb,
		[]string{entryKey(id)},
		string(from), string(to), time.Now().UnixMilli()).Text()
	if err != nil {
		return nil, fmt.Errorf("advance entry: %w", err)
	}
	switch res {
	case "ok":
	case "missing":
		return nil, ErrEntryNotFound
	default:
		return nil, fmt.Errorf("%w: entry is %s, not %s", ErrInvalidTransition, res, from)
	}

	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, &Event{Type: EventStatus, Entry: e})
	return e, nil
}

// Complete removes an entry. Exactly one concurrent caller succeeds; the
// rest get ErrEntryNotFound. Returns the removed entry and how many entries
// of the same order remain queued.
func (s *Store) Complete(ctx context.Context, id string) (*Entry, int64, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	remaining, err := completeScript.Run(ctx, s.rdb,
		[]string{entryKey(id), storeKey(e.StoreID.String()), orderKey(e.OrderID.String())},
		id).Int64()
	if err != nil {
		return nil, 0, fmt.Errorf("complete entry: %w", err)
	}
	if remaining < 0 {
		return nil, 0, ErrEntryNotFound
	}

	s.publish(ctx, &Event{Type: EventCompleted, Entry: e})
	return e, remaining, nil
}

func (s *Store) publish(ctx context.Context, ev *Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	// Event delivery is at-most-once; a missed publish only delays a
	// dashboard until its next full reload.
	_ = s.rdb.Publish(ctx, eventsChannel(ev.Entry.StoreID.String()), payload).Err()
}
