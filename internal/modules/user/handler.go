package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kantin-app/kantin-backend/internal/session"
	"github.com/kantin-app/kantin-backend/internal/validation"
)

// Handler exposes user HTTP endpoints. Route guards are injected as plain
// middleware so this package stays independent of the auth module.
type Handler struct {
	service      Service
	authenticate func(http.Handler) http.Handler
	requireAdmin func(http.Handler) http.Handler
}

func NewHandler(service Service, authenticate, requireAdmin func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authenticate: authenticate, requireAdmin: requireAdmin}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/register", h.registerUser)                            // POST  /api/v1/users/register
		r.With(h.authenticate).Get("/{id}", h.getUser)                 // GET   /api/v1/users/{id}
		r.With(h.authenticate).Post("/password", h.changePassword)     // POST  /api/v1/users/password
		r.With(h.requireAdmin).Get("/", h.listUsers)                   // GET   /api/v1/users
		r.With(h.requireAdmin).Patch("/{id}/deactivate", h.deactivate) // PATCH /api/v1/users/{id}/deactivate
	})
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := validation.DecodeAndValidate(r, &req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	u, err := h.service.RegisterUser(r.Context(), req)
	if err != nil {
		respond(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, u)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s := session.FromContext(r.Context())
	if !s.IsAdmin() && s.UserID != id {
		respond(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
		return
	}
	u, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, u)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := validation.DecodeAndValidate(r, &req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s := session.FromContext(r.Context())
	if err := h.service.ChangePassword(r.Context(), s.UserID, req.OldPassword, req.NewPassword); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrWrongPassword) {
			code = http.StatusForbidden
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "password updated"})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, users)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "user deactivated"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
