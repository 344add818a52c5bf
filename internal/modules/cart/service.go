package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/kantin-app/kantin-backend/internal/modules/catalog"
)

// ErrStoreMismatch is returned when an item from another store is added to a
// non-empty cart without the force flag. The caller confirms and retries.
var ErrStoreMismatch = errors.New("cart holds items from another store; clear it first")

// Service defines cart business logic.
type Service interface {
	// Get assembles the user's cart with totals recomputed.
	Get(ctx context.Context, userID string) (*Cart, error)

	// AddItem puts an item in the cart. Adding the same item again increments
	// its quantity instead of duplicating the line.
	AddItem(ctx context.Context, userID string, req AddItemRequest) (*Cart, error)

	// SetQuantity changes a line's quantity, clamped to a minimum of 1.
	SetQuantity(ctx context.Context, userID, itemID string, quantity int) (*Cart, error)

	RemoveItem(ctx context.Context, userID, itemID string) (*Cart, error)
	Clear(ctx context.Context, userID string) error
}

type service struct {
	store   *Store
	catalog catalog.Service
}

// NewService creates a new cart service.
func NewService(store *Store, catalogService catalog.Service) Service {
	return &service{store: store, catalog: catalogService}
}

func (s *service) Get(ctx context.Context, userID string) (*Cart, error) {
	lines, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	c := &Cart{Lines: lines}
	c.compute()
	return c, nil
}

func (s *service) AddItem(ctx context.Context, userID string, req AddItemRequest) (*Cart, error) {
	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}

	item, err := s.catalog.GetItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsAvailable {
		return nil, fmt.Errorf("%s is currently unavailable", item.Name)
	}

	existing, err := s.store.GetLine(ctx, userID, req.ItemID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Quantity += qty
		if err := s.store.Put(ctx, userID, existing); err != nil {
			return nil, err
		}
		return s.Get(ctx, userID)
	}

	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current.StoreID != "" && current.StoreID != item.StoreID.String() {
		if !req.Force {
			return nil, ErrStoreMismatch
		}
		if err := s.store.Clear(ctx, userID); err != nil {
			return nil, err
		}
	}

	line := &Line{
		ItemID:   item.ID.String(),
		Name:     item.Name,
		Price:    item.Price,
		Image:    item.Image,
		StoreID:  item.StoreID.String(),
		Quantity: qty,
	}
	if err := s.store.Put(ctx, userID, line); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *service) SetQuantity(ctx context.Context, userID, itemID string, quantity int) (*Cart, error) {
	line, err := s.store.GetLine(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, fmt.Errorf("item %s is not in the cart", itemID)
	}
	if quantity < 1 {
		quantity = 1
	}
	line.Quantity = quantity
	if err := s.store.Put(ctx, userID, line); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID string) (*Cart, error) {
	if err := s.store.Remove(ctx, userID, itemID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID string) error {
	return s.store.Clear(ctx, userID)
}
