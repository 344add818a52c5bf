package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Subscription delivers a store's queue events until closed.
// Events arrive on a buffered channel; Redis pub/sub is at-most-once, so a
// slow consumer may miss events and should re-list on reconnect.
type Subscription struct {
	events chan *Event
	errors chan error
	cancel context.CancelFunc
	once   sync.Once
}

// Events returns the channel of queue events.
func (s *Subscription) Events() <-chan *Event {
	return s.events
}

// Errors returns the channel of subscription errors.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription and cleans up resources. Implements io.Closer.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// Subscribe starts a live subscription to one store's queue events.
// Caller must call Close when done; context cancellation also stops it.
func (s *Store) Subscribe(ctx context.Context, storeID string) (*Subscription, error) {
	pubsub := s.rdb.Subscribe(ctx, eventsChannel(storeID))

	eventsChan := make(chan *Event, 16)
	errorsChan := make(chan error, 4)
	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					select {
					case errorsChan <- fmt.Errorf("decode queue event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}
				select {
				case eventsChan <- &ev:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}
