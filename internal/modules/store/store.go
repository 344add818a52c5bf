package store

import (
	"time"

	"github.com/google/uuid"
)

// Store represents a canteen store (a vendor stall) customers order from.
type Store struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Tagline     string    `json:"tagline,omitempty"`
	Description string    `json:"description,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	Location    string    `json:"location,omitempty"`
	Hours       string    `json:"hours,omitempty"`
	Speciality  string    `json:"speciality,omitempty"`
	IsOpen      bool      `json:"is_open"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateStoreRequest holds the data for creating or updating a store.
type CreateStoreRequest struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug" validate:"required"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	Location    string `json:"location"`
	Hours       string `json:"hours"`
	Speciality  string `json:"speciality"`
}
