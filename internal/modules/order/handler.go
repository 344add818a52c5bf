package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kantin-app/kantin-backend/internal/session"
	"github.com/kantin-app/kantin-backend/internal/validation"
)

// Handler exposes order HTTP endpoints.
type Handler struct {
	service      Service
	authenticate func(http.Handler) http.Handler
}

func NewHandler(service Service, authenticate func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authenticate: authenticate}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(h.authenticate)
		r.Post("/", h.placeOrder)                      // POST   /api/v1/orders
		r.Get("/{id}", h.getOrder)                     // GET    /api/v1/orders/{id}
		r.Delete("/{id}", h.cancelOrder)               // DELETE /api/v1/orders/{id}
		r.Post("/{id}/payment", h.confirmPayment)      // POST   /api/v1/orders/{id}/payment
		r.Patch("/{id}/status", h.updateStatus)        // PATCH  /api/v1/orders/{id}/status
		r.Get("/{id}/qrcode", h.pickupQR)              // GET    /api/v1/orders/{id}/qrcode
		r.Get("/number/{order_number}", h.getByNumber) // GET    /api/v1/orders/number/{order_number}
		r.Get("/store/{store_id}", h.listStoreOrders)  // GET    /api/v1/orders/store/{store_id}
		r.Get("/customer/{id}", h.listCustomerOrders)  // GET    /api/v1/orders/customer/{id}
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := validation.DecodeAndValidate(r, &req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sess := session.FromContext(r.Context())
	key := r.Header.Get("Idempotency-Key")
	result, err := h.service.PlaceOrder(r.Context(), sess.UserID, req, key)
	if err != nil {
		respond(w, orderErrorCode(err), map[string]string{"error": err.Error()})
		return
	}
	if result.Replayed {
		respond(w, http.StatusOK, result)
		return
	}
	respond(w, http.StatusCreated, result)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o := h.visibleOrder(w, r, chi.URLParam(r, "id"))
	if o == nil {
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) getByNumber(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrderByNumber(r.Context(), chi.URLParam(r, "order_number"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	if !canViewOrder(session.FromContext(r.Context()), o) {
		respond(w, http.StatusForbidden, map[string]string{"error": "not your order"})
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o := h.visibleOrder(w, r, id)
	if o == nil {
		return
	}
	updated, err := h.service.ConfirmPayment(r.Context(), id)
	if err != nil {
		respond(w, orderErrorCode(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, updated)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := validation.DecodeAndValidate(r, &req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	id := chi.URLParam(r, "id")
	o, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	if !session.FromContext(r.Context()).CanManageStore(o.StoreID.String()) {
		respond(w, http.StatusForbidden, map[string]string{"error": "not your store"})
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), id, req)
	if err != nil {
		respond(w, orderErrorCode(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, updated)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	sess := session.FromContext(r.Context())
	if o.CustomerID.String() != sess.UserID && !sess.IsAdmin() {
		respond(w, http.StatusForbidden, map[string]string{"error": "not your order"})
		return
	}
	if err := h.service.CancelOrder(r.Context(), id); err != nil {
		respond(w, orderErrorCode(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "order cancelled"})
}

func (h *Handler) pickupQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if h.visibleOrder(w, r, id) == nil {
		return
	}
	png, err := h.service.PickupQR(r.Context(), id)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) listStoreOrders(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "store_id")
	if !session.FromContext(r.Context()).CanManageStore(storeID) {
		respond(w, http.StatusForbidden, map[string]string{"error": "not your store"})
		return
	}
	orders, err := h.service.ListStoreOrders(r.Context(), storeID, r.URL.Query().Get("status"))
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) listCustomerOrders(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	sess := session.FromContext(r.Context())
	if customerID != sess.UserID && !sess.IsAdmin() {
		respond(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return
	}
	orders, err := h.service.ListCustomerOrders(r.Context(), customerID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, orders)
}

// visibleOrder loads the order and enforces that the caller owns it or manages
// its store. Writes the error response itself and returns nil when not allowed.
func (h *Handler) visibleOrder(w http.ResponseWriter, r *http.Request, id string) *Order {
	o, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return nil
	}
	if !canViewOrder(session.FromContext(r.Context()), o) {
		respond(w, http.StatusForbidden, map[string]string{"error": "not your order"})
		return nil
	}
	return o
}

func canViewOrder(sess *session.Session, o *Order) bool {
	if sess == nil {
		return false
	}
	return o.CustomerID.String() == sess.UserID || sess.CanManageStore(o.StoreID.String())
}

func orderErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrEmptyCart):
		return http.StatusConflict
	case strings.Contains(err.Error(), "not found"):
		return http.StatusNotFound
	case strings.Contains(err.Error(), "cannot"):
		return http.StatusUnprocessableEntity
	case strings.Contains(err.Error(), "only PENDING"):
		return http.StatusUnprocessableEntity
	case strings.Contains(err.Error(), "unavailable"), strings.Contains(err.Error(), "no longer"):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
