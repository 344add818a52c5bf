package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kantin-app/kantin-backend/internal/modules/activity"
	"github.com/kantin-app/kantin-backend/internal/modules/cart"
	"github.com/kantin-app/kantin-backend/internal/modules/catalog"
	"github.com/kantin-app/kantin-backend/internal/modules/queue"
)

// ErrEmptyCart is returned when checkout is attempted with nothing in the cart.
var ErrEmptyCart = errors.New("cart is empty")

// Service defines the order management business logic.
type Service interface {
	// PlaceOrder converts the caller's cart into an order: prices each line,
	// persists the order atomically, fans one queue entry out per line, and
	// clears the cart. An idempotency key replays the original order.
	PlaceOrder(ctx context.Context, customerID string, req PlaceOrderRequest, idempotencyKey string) (*PlaceOrderResult, error)

	// GetOrder retrieves a full order with its items by UUID.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// GetOrderByNumber retrieves an order by its human-readable number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListStoreOrders returns all orders for a store, optionally filtered by status.
	ListStoreOrders(ctx context.Context, storeID string, status string) ([]*Order, error)

	// ListCustomerOrders returns all orders placed by a customer.
	ListCustomerOrders(ctx context.Context, customerID string) ([]*Order, error)

	// ConfirmPayment marks an order paid and bumps the sold items' counters.
	// Confirming an already-paid order is a no-op, not an error.
	ConfirmPayment(ctx context.Context, id string) (*Order, error)

	// UpdateStatus advances an order to a new lifecycle status.
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error)

	// CancelOrder cancels a PENDING order.
	CancelOrder(ctx context.Context, id string) error

	// PickupQR renders the order's pickup code as a PNG.
	PickupQR(ctx context.Context, id string) ([]byte, error)
}

type service struct {
	repo     Repository
	carts    cart.Service
	catalog  catalog.Service
	queue    queue.Service
	activity activity.Service
	idem     *IdempotencyStore
	qr       QRGenerator
}

// NewService creates a new order service.
func NewService(repo Repository, carts cart.Service, catalogService catalog.Service,
	queueService queue.Service, activityService activity.Service,
	idem *IdempotencyStore, qr QRGenerator) Service {
	return &service{
		repo:     repo,
		carts:    carts,
		catalog:  catalogService,
		queue:    queueService,
		activity: activityService,
		idem:     idem,
		qr:       qr,
	}
}

// validTransitions defines the allowed status state machine.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPaid, StatusReady, StatusCancelled},
	StatusPaid:      {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

func (s *service) PlaceOrder(ctx context.Context, customerID string, req PlaceOrderRequest, idempotencyKey string) (*PlaceOrderResult, error) {
	custID, err := uuid.Parse(customerID)
	if err != nil {
		return nil, fmt.Errorf("invalid customer id: %w", err)
	}

	orderID := uuid.New()
	if idempotencyKey != "" {
		created, existing, err := s.idem.Reserve(ctx, idempotencyKey, orderID.String())
		if err != nil {
			return nil, err
		}
		if !created {
			o, err := s.repo.GetOrderByID(ctx, existing)
			if err != nil {
				return nil, fmt.Errorf("replayed order not found: %w", err)
			}
			queued := 0
			for _, item := range o.Items {
				queued += item.Quantity
			}
			return &PlaceOrderResult{Order: o, QueuedItems: queued, Replayed: true}, nil
		}
	}

	result, err := s.placeOrder(ctx, orderID, custID, req)
	if err != nil && idempotencyKey != "" {
		// Free the key so the client's retry is not stuck replaying a failure.
		s.idem.Release(ctx, idempotencyKey)
	}
	return result, err
}

func (s *service) placeOrder(ctx context.Context, orderID, custID uuid.UUID, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	c, err := s.carts.Get(ctx, custID.String())
	if err != nil {
		return nil, err
	}
	if len(c.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	storeID, err := uuid.Parse(c.StoreID)
	if err != nil {
		return nil, fmt.Errorf("cart has no store: %w", err)
	}

	// ── Price lines against the current catalog ──────────────────────────────
	var items []*OrderItem
	var subtotal int64
	for _, line := range c.Lines {
		item, err := s.catalog.GetItem(ctx, line.ItemID)
		if err != nil {
			return nil, fmt.Errorf("%s is no longer on the menu", line.Name)
		}
		if !item.IsAvailable {
			return nil, fmt.Errorf("%s is currently unavailable", item.Name)
		}
		lineTotal := item.Price * int64(line.Quantity)
		subtotal += lineTotal
		items = append(items, &OrderItem{
			ID:          uuid.New(),
			OrderID:     orderID,
			ProductID:   item.ID,
			ProductName: item.Name,
			Image:       item.Image,
			Quantity:    line.Quantity,
			UnitPrice:   item.Price,
			LineTotal:   lineTotal,
		})
	}

	o := &Order{
		ID:            orderID,
		StoreID:       storeID,
		CustomerID:    custID,
		OrderNumber:   generateOrderNumber(),
		Status:        StatusPending,
		PaymentStatus: PaymentUnpaid,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Note:          req.Note,
		Subtotal:      subtotal,
		ServiceFee:    ServiceFee,
		Total:         subtotal + ServiceFee,
		Items:         items,
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	// ── Fan out queue entries, one per unit, best-effort ─────────────────────
	// Each unit is queued separately so the kitchen works one dish at a time
	// and can complete them independently.
	var inputs []queue.NewEntryInput
	for _, item := range items {
		for n := 0; n < item.Quantity; n++ {
			inputs = append(inputs, queue.NewEntryInput{
				OrderID:       o.ID,
				OrderNumber:   o.OrderNumber,
				StoreID:       o.StoreID,
				ProductID:     item.ProductID.String(),
				ProductName:   item.ProductName,
				Quantity:      1,
				CustomerName:  o.CustomerName,
				CustomerEmail: o.CustomerEmail,
				CustomerPhone: o.CustomerPhone,
			})
		}
	}
	queued := 0
	if entries, err := s.queue.Enqueue(ctx, inputs); err != nil {
		log.Printf("order: queue fan-out failed for %s: %v", o.OrderNumber, err)
	} else {
		queued = len(entries)
	}

	if err := s.carts.Clear(ctx, custID.String()); err != nil {
		log.Printf("order: cart clear failed for %s: %v", custID, err)
	}

	s.activity.Record(ctx, custID.String(), o.CustomerName, "order.placed", o.OrderNumber,
		fmt.Sprintf("%d items, total %d", len(items), o.Total))

	return &PlaceOrderResult{Order: o, QueuedItems: queued}, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *service) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.repo.GetOrderByNumber(ctx, orderNumber)
}

func (s *service) ListStoreOrders(ctx context.Context, storeID string, status string) ([]*Order, error) {
	return s.repo.ListOrdersByStore(ctx, storeID, status)
}

func (s *service) ListCustomerOrders(ctx context.Context, customerID string) ([]*Order, error) {
	return s.repo.ListOrdersByCustomer(ctx, customerID)
}

func (s *service) ConfirmPayment(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	if o.PaymentStatus == PaymentPaid {
		return o, nil
	}
	if o.Status == StatusCancelled {
		return nil, fmt.Errorf("cannot pay a cancelled order")
	}

	if err := s.repo.SetPaid(ctx, id); err != nil {
		return nil, err
	}
	if o.Status == StatusPending {
		if err := s.repo.UpdateStatus(ctx, id, StatusPaid); err != nil {
			return nil, err
		}
		o.Status = StatusPaid
	}
	o.PaymentStatus = PaymentPaid
	now := time.Now()
	o.PaidAt = &now

	for _, item := range o.Items {
		s.catalog.IncrementSales(ctx, item.ProductID.String(), item.Quantity)
	}
	s.activity.Record(ctx, o.CustomerID.String(), o.CustomerName, "order.paid", o.OrderNumber, "")
	return o, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}

	newStatus := OrderStatus(strings.ToUpper(req.Status))
	allowed := validTransitions[o.Status]
	valid := false
	for _, st := range allowed {
		if st == newStatus {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("cannot transition order from %s to %s", o.Status, newStatus)
	}

	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}
	o.Status = newStatus
	return o, nil
}

func (s *service) CancelOrder(ctx context.Context, id string) error {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return fmt.Errorf("order not found: %w", err)
	}
	if o.Status != StatusPending {
		return fmt.Errorf("only PENDING orders can be cancelled (current: %s)", o.Status)
	}
	return s.repo.UpdateStatus(ctx, id, StatusCancelled)
}

func (s *service) PickupQR(ctx context.Context, id string) ([]byte, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	return s.qr.Generate(o.OrderNumber)
}

// EntryCompleted implements queue.CompletionListener: when the last queue
// entry of an order is completed the order is projected to READY.
func (s *service) EntryCompleted(ctx context.Context, orderID string, remaining int64) {
	if remaining != 0 {
		return
	}
	o, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		log.Printf("order: projection lookup failed for %s: %v", orderID, err)
		return
	}
	if o.Status != StatusPending && o.Status != StatusPaid {
		return
	}
	if err := s.repo.UpdateStatus(ctx, orderID, StatusReady); err != nil {
		log.Printf("order: projection to READY failed for %s: %v", orderID, err)
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

// generateOrderNumber creates a human-readable order number: ORD-YYYYMMDD-XXXX
func generateOrderNumber() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("ORD-%s-%s", date, suffix)
}
