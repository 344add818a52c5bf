package activity

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// Service records and lists activity. Recording is always best-effort: a
// failed audit write must never fail the operation being audited.
type Service interface {
	Record(ctx context.Context, actorID, actorName, action, subject, detail string)
	ListRecent(ctx context.Context, limit int) ([]*Log, error)
}

type service struct {
	repo      Repository
	publisher Publisher // nil when event publishing is disabled
}

// NewService creates a new activity service. publisher may be nil.
func NewService(repo Repository, publisher Publisher) Service {
	return &service{repo: repo, publisher: publisher}
}

func (s *service) Record(ctx context.Context, actorID, actorName, action, subject, detail string) {
	l := &Log{
		ID:        uuid.New(),
		ActorID:   actorID,
		ActorName: actorName,
		Action:    action,
		Subject:   subject,
		Detail:    detail,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Insert(ctx, l); err != nil {
		log.Printf("activity: insert failed for %s %s: %v", action, subject, err)
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, l); err != nil {
			log.Printf("activity: publish failed for %s %s: %v", action, subject, err)
		}
	}
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]*Log, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListRecent(ctx, limit)
}
