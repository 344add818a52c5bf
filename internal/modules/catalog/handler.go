package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kantin-app/kantin-backend/internal/validation"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service      Service
	requireAdmin func(http.Handler) http.Handler
}

func NewHandler(service Service, requireAdmin func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, requireAdmin: requireAdmin}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/", h.listItems)                              // GET    /api/v1/catalog?store_id=&featured=true
		r.Get("/{id}", h.getItem)                            // GET    /api/v1/catalog/{id}
		r.With(h.requireAdmin).Post("/", h.createItem)       // POST   /api/v1/catalog
		r.With(h.requireAdmin).Put("/{id}", h.updateItem)    // PUT    /api/v1/catalog/{id}
		r.With(h.requireAdmin).Delete("/{id}", h.deleteItem) // DELETE /api/v1/catalog/{id}
	})
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	storeID := r.URL.Query().Get("store_id")
	featured := r.URL.Query().Get("featured") == "true"
	items, err := h.service.ListItems(r.Context(), storeID, featured)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, items)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.service.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, it)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := validation.DecodeAndValidate(r, &req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	it, err := h.service.CreateItem(r.Context(), req)
	if err != nil {
		respond(w, mutationErrorCode(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, it)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := validation.DecodeAndValidate(r, &req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	it, err := h.service.UpdateItem(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respond(w, mutationErrorCode(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, it)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond(w, mutationErrorCode(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "item removed from menu"})
}

func mutationErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	case strings.Contains(err.Error(), "not found"):
		return http.StatusNotFound
	case strings.Contains(err.Error(), "invalid"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
