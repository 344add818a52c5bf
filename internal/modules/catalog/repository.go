package catalog

import "context"

// Repository defines data access for menu items.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)

	// List returns items, optionally filtered by store and/or featured flag.
	// Soft-deleted (unavailable) items are excluded unless includeUnavailable.
	List(ctx context.Context, storeID string, featuredOnly, includeUnavailable bool) ([]*Item, error)

	Update(ctx context.Context, item *Item) error

	// SetAvailable soft-deletes or restores an item.
	SetAvailable(ctx context.Context, id string, available bool) error

	// IncrementSales adds n to the item's sales counter.
	IncrementSales(ctx context.Context, id string, n int) error
}
