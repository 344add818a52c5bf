package activity

import "context"

// Repository defines data access for activity logs.
type Repository interface {
	Insert(ctx context.Context, l *Log) error
	ListRecent(ctx context.Context, limit int) ([]*Log, error)
}
