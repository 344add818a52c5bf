package order

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusReady     OrderStatus = "READY"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// PaymentStatus tracks whether the order has been paid for.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// ServiceFee is the fixed per-order fee in smallest currency units.
const ServiceFee int64 = 1000

// Order is a customer's checkout at one canteen store. Amounts are integers
// in the smallest currency unit.
type Order struct {
	ID            uuid.UUID     `json:"id"`
	StoreID       uuid.UUID     `json:"store_id"`
	CustomerID    uuid.UUID     `json:"customer_id"`
	OrderNumber   string        `json:"order_number"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email,omitempty"`
	CustomerPhone string        `json:"customer_phone,omitempty"`
	Note          string        `json:"note,omitempty"`
	Subtotal      int64         `json:"subtotal"`
	ServiceFee    int64         `json:"service_fee"`
	Total         int64         `json:"total"`
	Items         []*OrderItem  `json:"items,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
}

// OrderItem is a snapshot of one cart line at checkout time.
type OrderItem struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Image       string    `json:"image,omitempty"`
	Quantity    int       `json:"quantity"`
	UnitPrice   int64     `json:"unit_price"`
	LineTotal   int64     `json:"line_total"`
}

// PlaceOrderRequest is the checkout payload. The items come from the
// caller's server-side cart, not from the request.
type PlaceOrderRequest struct {
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone string `json:"customer_phone"`
	Note          string `json:"note"`
}

// PlaceOrderResult is returned from checkout. QueuedItems reports how many
// queue entries were created; Replayed is true when an idempotency key was
// seen before and the original order is returned instead of a new one.
type PlaceOrderResult struct {
	Order       *Order `json:"order"`
	QueuedItems int    `json:"queued_items"`
	Replayed    bool   `json:"replayed,omitempty"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
