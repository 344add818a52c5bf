package activity

import (
	"time"

	"github.com/google/uuid"
)

// Log is one audit record of something a user or operator did.
type Log struct {
	ID        uuid.UUID `json:"id"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Action    string    `json:"action"`
	Subject   string    `json:"subject"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
