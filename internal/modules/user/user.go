package user

import (
	"time"

	"github.com/google/uuid"
)

// Role gates access to management surfaces.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleStoreManager Role = "store_manager"
	RoleUser         Role = "user"
)

// User represents an account in the system. StoreID is set only for store
// managers and links them to the canteen store they operate.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	Role         Role       `json:"role"`
	StoreID      *uuid.UUID `json:"store_id,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// DisplayName is the name shown on orders and queue entries.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}
