package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// ErrCatalogUnavailable is returned for mutations while the database is down.
// The fallback menu is read-only so the two copies cannot diverge.
var ErrCatalogUnavailable = errors.New("catalog is temporarily read-only")

// Service defines catalog business logic.
type Service interface {
	// ListItems returns menu items, optionally filtered by store. On database
	// failure or an empty catalog it serves the fixed fallback menu.
	ListItems(ctx context.Context, storeID string, featuredOnly bool) ([]*Item, error)

	GetItem(ctx context.Context, id string) (*Item, error)
	CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error)
	UpdateItem(ctx context.Context, id string, req CreateItemRequest) (*Item, error)

	// DeleteItem soft-deletes: the row stays, flagged unavailable.
	DeleteItem(ctx context.Context, id string) error

	// IncrementSales bumps the sales counter after a checkout, best-effort.
	IncrementSales(ctx context.Context, id string, n int)
}

type service struct{ repo Repository }

// NewService creates a new catalog service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) ListItems(ctx context.Context, storeID string, featuredOnly bool) ([]*Item, error) {
	items, err := s.repo.List(ctx, storeID, featuredOnly, false)
	if err != nil {
		log.Printf("catalog: list failed, serving fallback: %v", err)
		return filterFeatured(FallbackMenu(storeID), featuredOnly), nil
	}
	if len(items) == 0 {
		return filterFeatured(FallbackMenu(storeID), featuredOnly), nil
	}
	return items, nil
}

func (s *service) GetItem(ctx context.Context, id string) (*Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err == nil {
		return it, nil
	}
	for _, fb := range FallbackMenu("") {
		if fb.ID.String() == id {
			return fb, nil
		}
	}
	return nil, fmt.Errorf("item not found: %w", err)
}

func (s *service) CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, fmt.Errorf("invalid store_id: %w", err)
	}

	it := &Item{
		ID:          uuid.New(),
		StoreID:     storeID,
		Name:        req.Name,
		Price:       req.Price,
		Image:       req.Image,
		Description: req.Description,
		Stock:       req.Stock,
		IsFeatured:  req.IsFeatured,
		IsAvailable: true,
	}
	if req.CategoryID != "" {
		cid, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category_id: %w", err)
		}
		it.CategoryID = &cid
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return it, nil
}

func (s *service) UpdateItem(ctx context.Context, id string, req CreateItemRequest) (*Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item not found: %w", err)
	}
	it.Name = req.Name
	it.Price = req.Price
	it.Image = req.Image
	it.Description = req.Description
	it.Stock = req.Stock
	it.IsFeatured = req.IsFeatured
	if req.CategoryID != "" {
		cid, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category_id: %w", err)
		}
		it.CategoryID = &cid
	}
	if err := s.repo.Update(ctx, it); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return it, nil
}

func (s *service) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("item not found: %w", err)
	}
	return s.repo.SetAvailable(ctx, id, false)
}

func (s *service) IncrementSales(ctx context.Context, id string, n int) {
	if err := s.repo.IncrementSales(ctx, id, n); err != nil {
		log.Printf("catalog: sales counter update failed for %s: %v", id, err)
	}
}

func filterFeatured(items []*Item, featuredOnly bool) []*Item {
	if !featuredOnly {
		return items
	}
	var out []*Item
	for _, it := range items {
		if it.IsFeatured {
			out = append(out, it)
		}
	}
	return out
}
