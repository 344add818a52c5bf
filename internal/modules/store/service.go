package store

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// Service defines store business logic.
type Service interface {
	// ListStores returns all stores, falling back to the demo list when the
	// database is unreachable or has no rows.
	ListStores(ctx context.Context) ([]*Store, error)

	GetStore(ctx context.Context, id string) (*Store, error)
	CreateStore(ctx context.Context, req CreateStoreRequest) (*Store, error)
	UpdateStore(ctx context.Context, id string, req CreateStoreRequest) (*Store, error)

	// SetOpen flips a store's open flag.
	SetOpen(ctx context.Context, id string, open bool) error
}

type service struct{ repo Repository }

// NewService creates a new store service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) ListStores(ctx context.Context) ([]*Store, error) {
	stores, err := s.repo.List(ctx)
	if err != nil {
		log.Printf("store: list failed, serving fallback: %v", err)
		return FallbackStores(), nil
	}
	if len(stores) == 0 {
		return FallbackStores(), nil
	}
	return stores, nil
}

func (s *service) GetStore(ctx context.Context, id string) (*Store, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err == nil {
		return st, nil
	}
	for _, fb := range FallbackStores() {
		if fb.ID.String() == id {
			return fb, nil
		}
	}
	return nil, fmt.Errorf("store not found: %w", err)
}

func (s *service) CreateStore(ctx context.Context, req CreateStoreRequest) (*Store, error) {
	st := &Store{
		ID:          uuid.New(),
		Name:        req.Name,
		Slug:        req.Slug,
		Tagline:     req.Tagline,
		Description: req.Description,
		Logo:        req.Logo,
		Location:    req.Location,
		Hours:       req.Hours,
		Speciality:  req.Speciality,
		IsOpen:      true,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to persist store: %w", err)
	}
	return st, nil
}

func (s *service) UpdateStore(ctx context.Context, id string, req CreateStoreRequest) (*Store, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store not found: %w", err)
	}
	st.Name = req.Name
	st.Slug = req.Slug
	st.Tagline = req.Tagline
	st.Description = req.Description
	st.Logo = req.Logo
	st.Location = req.Location
	st.Hours = req.Hours
	st.Speciality = req.Speciality
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) SetOpen(ctx context.Context, id string, open bool) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("store not found: %w", err)
	}
	return s.repo.SetOpen(ctx, id, open)
}
