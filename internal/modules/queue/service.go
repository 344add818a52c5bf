package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// CompletionListener is notified after an entry is removed from the queue.
// remaining is the number of entries still queued for the same order; the
// order module uses remaining == 0 to project the order to READY.
type CompletionListener interface {
	EntryCompleted(ctx context.Context, orderID string, remaining int64)
}

// NewEntryInput describes one line item to queue at checkout.
type NewEntryInput struct {
	OrderID       uuid.UUID
	OrderNumber   string
	StoreID       uuid.UUID
	ProductID     string
	ProductName   string
	Quantity      int
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// View is the queue state returned to dashboards. Count always equals
// len(Entries) because it is derived from the same index.
type View struct {
	Count   int      `json:"count"`
	Entries []*Entry `json:"items"`
}

// Stats summarizes a store's queue by status.
type Stats struct {
	Count     int `json:"count"`
	Waiting   int `json:"waiting"`
	Preparing int `json:"preparing"`
	Ready     int `json:"ready"`
}

// Service defines queue business logic.
type Service interface {
	// Enqueue creates one waiting entry per input. All entries of one call
	// share a creation timestamp ordering within their store's queue.
	Enqueue(ctx context.Context, inputs []NewEntryInput) ([]*Entry, error)

	// ListForStore returns a store's queue in creation order.
	ListForStore(ctx context.Context, storeID string) (*View, error)

	// GetEntry retrieves a single entry by ID.
	GetEntry(ctx context.Context, entryID string) (*Entry, error)

	// AdvanceStatus moves an entry to next. Only waiting->preparing and
	// preparing->ready are accepted; anything else is ErrInvalidTransition.
	AdvanceStatus(ctx context.Context, entryID string, next Status) (*Entry, error)

	// Complete removes an entry from the queue. Completion is deletion:
	// the durable record of the work is the order, not the queue.
	Complete(ctx context.Context, entryID string) error

	// StatsForStore returns per-status counts for a store.
	StatsForStore(ctx context.Context, storeID string) (*Stats, error)

	// Subscribe opens a live event stream for one store's queue.
	Subscribe(ctx context.Context, storeID string) (*Subscription, error)

	// SetCompletionListener registers the completion hook. Wired once at
	// startup, before the server accepts requests.
	SetCompletionListener(l CompletionListener)
}

type service struct {
	store    *Store
	listener CompletionListener
	nowFunc  func() time.Time
}

// NewService creates a new queue service.
func NewService(store *Store) Service {
	return &service{store: store, nowFunc: time.Now}
}

func (s *service) SetCompletionListener(l CompletionListener) {
	s.listener = l
}

func (s *service) Enqueue(ctx context.Context, inputs []NewEntryInput) ([]*Entry, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("nothing to enqueue")
	}
	now := s.nowFunc()
	entries := make([]*Entry, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity < 1 {
			return nil, fmt.Errorf("quantity must be >= 1 for %s", in.ProductName)
		}
		entries = append(entries, &Entry{
			ID:              uuid.New(),
			OrderID:         in.OrderID,
			OrderNumber:     in.OrderNumber,
			StoreID:         in.StoreID,
			ProductID:       in.ProductID,
			ProductName:     in.ProductName,
			Quantity:        in.Quantity,
			CustomerName:    in.CustomerName,
			CustomerEmail:   in.CustomerEmail,
			CustomerPhone:   in.CustomerPhone,
			Status:          StatusWaiting,
			CreatedAt:       now,
			StatusUpdatedAt: now,
		})
	}
	if err := s.store.Enqueue(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *service) ListForStore(ctx context.Context, storeID string) (*View, error) {
	entries, err := s.store.ListForStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &View{Count: len(entries), Entries: entries}, nil
}

func (s *service) GetEntry(ctx context.Context, entryID string) (*Entry, error) {
	return s.store.Get(ctx, entryID)
}

func (s *service) AdvanceStatus(ctx context.Context, entryID string, next Status) (*Entry, error) {
	from, ok := predecessor[next]
	if !ok {
		return nil, fmt.Errorf("%w: cannot advance to %s", ErrInvalidTransition, next)
	}
	return s.store.Advance(ctx, entryID, from, next)
}

func (s *service) Complete(ctx context.Context, entryID string) error {
	e, remaining, err := s.store.Complete(ctx, entryID)
	if err != nil {
		return err
	}
	if s.listener != nil {
		s.listener.EntryCompleted(ctx, e.OrderID.String(), remaining)
	}
	log.Printf("queue: completed entry %s (%s x%d), %d left for order %s",
		e.ID, e.ProductName, e.Quantity, remaining, e.OrderNumber)
	return nil
}

func (s *service) StatsForStore(ctx context.Context, storeID string) (*Stats, error) {
	entries, err := s.store.ListForStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	st := &Stats{Count: len(entries)}
	for _, e := range entries {
		switch e.Status {
		case StatusWaiting:
			st.Waiting++
		case StatusPreparing:
			st.Preparing++
		case StatusReady:
			st.Ready++
		}
	}
	return st, nil
}

func (s *service) Subscribe(ctx context.Context, storeID string) (*Subscription, error) {
	return s.store.Subscribe(ctx, storeID)
}
