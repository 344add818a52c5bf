package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kantin-app/kantin-backend/internal/session"
	"github.com/kantin-app/kantin-backend/internal/validation"
)

// Handler exposes cart HTTP endpoints. All routes require an authenticated
// user; the cart is always the caller's own.
type Handler struct {
	service      Service
	authenticate func(http.Handler) http.Handler
}

func NewHandler(service Service, authenticate func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authenticate: authenticate}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(h.authenticate)
		r.Get("/", h.getCart)                        // GET    /api/v1/cart
		r.Post("/items", h.addItem)                  // POST   /api/v1/cart/items
		r.Patch("/items/{item_id}", h.setQuantity)   // PATCH  /api/v1/cart/items/{item_id}
		r.Delete("/items/{item_id}", h.removeItem)   // DELETE /api/v1/cart/items/{item_id}
		r.Delete("/", h.clearCart)                   // DELETE /api/v1/cart
	})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	c, err := h.service.Get(r.Context(), s.UserID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validation.DecodeAndValidate(r, &req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s := session.FromContext(r.Context())
	c, err := h.service.AddItem(r.Context(), s.UserID, req)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrStoreMismatch) {
			code = http.StatusConflict
		} else if strings.Contains(err.Error(), "not found") {
			code = http.StatusNotFound
		} else if strings.Contains(err.Error(), "unavailable") {
			code = http.StatusUnprocessableEntity
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s := session.FromContext(r.Context())
	c, err := h.service.SetQuantity(r.Context(), s.UserID, chi.URLParam(r, "item_id"), req.Quantity)
	if err != nil {
		code := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not in the cart") {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	c, err := h.service.RemoveItem(r.Context(), s.UserID, chi.URLParam(r, "item_id"))
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	if err := h.service.Clear(r.Context(), s.UserID); err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "cart cleared"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
