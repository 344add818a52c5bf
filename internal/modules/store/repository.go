package store

import "context"

// Repository defines data access for canteen stores.
type Repository interface {
	Create(ctx context.Context, s *Store) error
	GetByID(ctx context.Context, id string) (*Store, error)
	List(ctx context.Context) ([]*Store, error)
	Update(ctx context.Context, s *Store) error
	SetOpen(ctx context.Context, id string, open bool) error
}
