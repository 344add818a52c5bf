package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Item is a sellable menu item belonging to one canteen store.
// Price is in the smallest currency unit (whole rupiah).
type Item struct {
	ID          uuid.UUID  `json:"id"`
	StoreID     uuid.UUID  `json:"store_id"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Name        string     `json:"name"`
	Price       int64      `json:"price"`
	Image       string     `json:"image,omitempty"`
	Description string     `json:"description,omitempty"`
	Stock       int        `json:"stock"`
	IsFeatured  bool       `json:"is_featured"`
	SalesCount  int        `json:"sales_count"`
	IsAvailable bool       `json:"is_available"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateItemRequest holds the data for creating or updating a menu item.
type CreateItemRequest struct {
	StoreID     string `json:"store_id" validate:"required,uuid"`
	CategoryID  string `json:"category_id" validate:"omitempty,uuid"`
	Name        string `json:"name" validate:"required"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Stock       int    `json:"stock" validate:"gte=0"`
	IsFeatured  bool   `json:"is_featured"`
}
