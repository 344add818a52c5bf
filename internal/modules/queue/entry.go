package queue

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a queue entry. Entries advance strictly
// waiting -> preparing -> ready; completion removes the entry.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
)

// predecessor maps each advanceable status to the status it must come from.
var predecessor = map[Status]Status{
	StatusPreparing: StatusWaiting,
	StatusReady:     StatusPreparing,
}

// ParseStatus validates a client-supplied status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusWaiting, StatusPreparing, StatusReady:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

var (
	// ErrEntryNotFound is returned when the target entry no longer exists,
	// including when another operator completed it first.
	ErrEntryNotFound = errors.New("queue entry not found")

	// ErrInvalidTransition is returned when an advance would skip a state,
	// regress, or race a concurrent transition.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Entry is one line item waiting in a store's preparation queue. It is
// addressed by ID everywhere; positions in the queue are display order only.
type Entry struct {
	ID              uuid.UUID `json:"id"`
	OrderID         uuid.UUID `json:"order_id"`
	OrderNumber     string    `json:"order_number"`
	StoreID         uuid.UUID `json:"store_id"`
	ProductID       string    `json:"product_id"`
	ProductName     string    `json:"product_name"`
	Quantity        int       `json:"quantity"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email,omitempty"`
	CustomerPhone   string    `json:"customer_phone,omitempty"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	StatusUpdatedAt time.Time `json:"status_updated_at"`
}

// EventType classifies queue change notifications.
type EventType string

const (
	EventAdded     EventType = "added"
	EventStatus    EventType = "status"
	EventCompleted EventType = "completed"
)

// Event is the payload published to a store's queue channel on every change.
type Event struct {
	Type  EventType `json:"type"`
	Entry *Entry    `json:"entry"`
}

// entryToHash flattens an entry into Redis hash fields.
func entryToHash(e *Entry) map[string]interface{} {
	return map[string]interface{}{
		"id":                e.ID.String(),
		"order_id":          e.OrderID.String(),
		"order_number":      e.OrderNumber,
		"store_id":          e.StoreID.String(),
		"product_id":        e.ProductID,
		"product_name":      e.ProductName,
		"quantity":          strconv.Itoa(e.Quantity),
		"customer_name":     e.CustomerName,
		"customer_email":    e.CustomerEmail,
		"customer_phone":    e.CustomerPhone,
		"status":            string(e.Status),
		"created_at":        strconv.FormatInt(e.CreatedAt.UnixMilli(), 10),
		"status_updated_at": strconv.FormatInt(e.StatusUpdatedAt.UnixMilli(), 10),
	}
}

// hashToEntry rebuilds an entry from Redis hash fields.
func hashToEntry(h map[string]string) (*Entry, error) {
	id, err := uuid.Parse(h["id"])
	if err != nil {
		return nil, fmt.Errorf("bad entry id: %w", err)
	}
	orderID, err := uuid.Parse(h["order_id"])
	if err != nil {
		return nil, fmt.Errorf("bad order id: %w", err)
	}
	storeID, err := uuid.Parse(h["store_id"])
	if err != nil {
		return nil, fmt.Errorf("bad store id: %w", err)
	}
	status, err := ParseStatus(h["status"])
	if err != nil {
		return nil, err
	}
	qty, _ := strconv.Atoi(h["quantity"])
	createdAt, _ := strconv.ParseInt(h["created_at"], 10, 64)
	updatedAt, _ := strconv.ParseInt(h["status_updated_at"], 10, 64)

	return &Entry{
		ID:              id,
		OrderID:         orderID,
		OrderNumber:     h["order_number"],
		StoreID:         storeID,
		ProductID:       h["product_id"],
		ProductName:     h["product_name"],
		Quantity:        qty,
		CustomerName:    h["customer_name"],
		CustomerEmail:   h["customer_email"],
		CustomerPhone:   h["customer_phone"],
		Status:          status,
		CreatedAt:       time.UnixMilli(createdAt),
		StatusUpdatedAt: time.UnixMilli(updatedAt),
	}, nil
}
