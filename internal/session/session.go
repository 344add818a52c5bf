// Package session carries the authenticated identity through request contexts.
// It is a leaf package so both the auth module and route handlers can share it.
package session

import "context"

// Session is the identity attached to an authenticated request.
type Session struct {
	UserID   string
	Username string
	Role     string
	StoreID  string // empty unless the user is a store manager
	TokenID  string
}

type contextKey struct{}

// NewContext returns a context carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session attached to ctx, or nil if the request is
// unauthenticated.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}

// IsAdmin reports whether the session belongs to an administrator.
func (s *Session) IsAdmin() bool { return s != nil && s.Role == "admin" }

// CanManageStore reports whether the session may operate on the given store's
// queue and orders. Admins may operate on any store.
func (s *Session) CanManageStore(storeID string) bool {
	if s == nil {
		return false
	}
	if s.Role == "admin" {
		return true
	}
	return s.Role == "store_manager" && s.StoreID == storeID
}
