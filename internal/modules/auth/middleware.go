package auth

import (
	"net/http"
	"strings"

	"github.com/kantin-app/kantin-backend/internal/session"
)

// Middleware resolves bearer tokens into request sessions and enforces roles.
type Middleware struct {
	service Service
}

// NewMiddleware creates route guards backed by the auth service.
func NewMiddleware(service Service) *Middleware {
	return &Middleware{service: service}
}

// Authenticate rejects requests without a valid session token and attaches the
// resolved session to the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		claims, err := m.service.Verify(r.Context(), token)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		s := &session.Session{
			UserID:   claims.Subject,
			Username: claims.Username,
			Role:     claims.Role,
			StoreID:  claims.StoreID,
			TokenID:  claims.Id,
		}
		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
	})
}

// RequireRole builds on Authenticate and additionally rejects sessions whose
// role is not in the allowed set.
func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := session.FromContext(r.Context())
			if s == nil || !allowed[s.Role] {
				http.Error(w, "insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
