package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kantin-app/kantin-backend/internal/session"
	"github.com/kantin-app/kantin-backend/internal/validation"
)

// Handler exposes queue HTTP endpoints for manager dashboards.
type Handler struct {
	service       Service
	requireManage func(http.Handler) http.Handler // store_manager or admin
}

func NewHandler(service Service, requireManage func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, requireManage: requireManage}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/queue", func(r chi.Router) {
		r.Use(h.requireManage)
		r.Get("/store/{store_id}", h.listForStore)         // GET    /api/v1/queue/store/{store_id}
		r.Get("/store/{store_id}/stats", h.storeStats)     // GET    /api/v1/queue/store/{store_id}/stats
		r.Get("/store/{store_id}/stream", h.streamEvents)  // GET    /api/v1/queue/store/{store_id}/stream (SSE)
		r.Patch("/entries/{id}/status", h.advanceStatus)   // PATCH  /api/v1/queue/entries/{id}/status
		r.Delete("/entries/{id}", h.completeEntry)         // DELETE /api/v1/queue/entries/{id}
	})
}

func (h *Handler) listForStore(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "store_id")
	if !session.FromContext(r.Context()).CanManageStore(storeID) {
		respond(w, http.StatusForbidden, map[string]string{"error": "not your store"})
		return
	}
	view, err := h.service.ListForStore(r.Context(), storeID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) storeStats(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "store_id")
	if !session.FromContext(r.Context()).CanManageStore(storeID) {
		respond(w, http.StatusForbidden, map[string]string{"error": "not your store"})
		return
	}
	stats, err := h.service.StatsForStore(r.Context(), storeID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, stats)
}

type advanceRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) advanceStatus(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if err := validation.DecodeAndValidate(r, &req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	next, err := ParseStatus(req.Status)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	id := chi.URLParam(r, "id")
	entry, err := h.authorizedEntry(w, r, id)
	if entry == nil {
		return
	}

	updated, err := h.service.AdvanceStatus(r.Context(), id, next)
	if err != nil {
		respond(w, entryErrorCode(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, updated)
}

func (h *Handler) completeEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, _ := h.authorizedEntry(w, r, id)
	if entry == nil {
		return
	}
	if err := h.service.Complete(r.Context(), id); err != nil {
		respond(w, entryErrorCode(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "order completed"})
}

// streamEvents serves the live queue subscription as server-sent events.
func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "store_id")
	if !session.FromContext(r.Context()).CanManageStore(storeID) {
		respond(w, http.StatusForbidden, map[string]string{"error": "not your store"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respond(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	sub, err := h.service.Subscribe(r.Context(), storeID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case err, ok := <-sub.Errors():
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: error\ndata: %q\n\n", err.Error())
			flusher.Flush()
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
			flusher.Flush()
		}
	}
}

// authorizedEntry loads the entry and enforces that the caller manages its
// store. Writes the error response itself and returns nil when not allowed.
func (h *Handler) authorizedEntry(w http.ResponseWriter, r *http.Request, id string) (*Entry, error) {
	entry, err := h.service.GetEntry(r.Context(), id)
	if err != nil {
		respond(w, entryErrorCode(err), map[string]string{"error": err.Error()})
		return nil, err
	}
	if !session.FromContext(r.Context()).CanManageStore(entry.StoreID.String()) {
		respond(w, http.StatusForbidden, map[string]string{"error": "not your store"})
		return nil, nil
	}
	return entry, nil
}

func entryErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
