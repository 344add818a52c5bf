package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `id, store_id, customer_id, order_number, status, payment_status,
		customer_name, customer_email, customer_phone, note,
		subtotal, service_fee, total, created_at, updated_at, paid_at`

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, store_id, customer_id, order_number, status, payment_status,
		   customer_name, customer_email, customer_phone, note, subtotal, service_fee, total)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		o.ID, o.StoreID, o.CustomerID, o.OrderNumber, o.Status, o.PaymentStatus,
		o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.Note,
		o.Subtotal, o.ServiceFee, o.Total)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, product_id, product_name, image, quantity, unit_price, line_total)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			item.ID, o.ID, item.ProductID, item.ProductName, item.Image,
			item.Quantity, item.UnitPrice, item.LineTotal)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	o, err := r.scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID.String())
	return o, err
}

func (r *postgresRepo) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := r.scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_number=$1`, orderNumber))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID.String())
	return o, err
}

func (r *postgresRepo) ListOrdersByStore(ctx context.Context, storeID string, status string) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE store_id=$1`
	args := []interface{}{storeID}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, args...)
}

func (r *postgresRepo) ListOrdersByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id=$1 ORDER BY created_at DESC`,
		customerID)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status OrderStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now(), id)
	return err
}

func (r *postgresRepo) SetPaid(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_status=$1, paid_at=NOW(), updated_at=NOW() WHERE id=$2`,
		PaymentPaid, id)
	return err
}

// ── helpers ──────────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrderFields(row rowScanner) (*Order, error) {
	o := &Order{}
	var paidAt sql.NullTime
	err := row.Scan(
		&o.ID, &o.StoreID, &o.CustomerID, &o.OrderNumber, &o.Status, &o.PaymentStatus,
		&o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.Note,
		&o.Subtotal, &o.ServiceFee, &o.Total, &o.CreatedAt, &o.UpdatedAt, &paidAt)
	if err != nil {
		return nil, err
	}
	if paidAt.Valid {
		t := paidAt.Time
		o.PaidAt = &t
	}
	return o, nil
}

func (r *postgresRepo) scanOrder(row *sql.Row) (*Order, error) {
	return scanOrderFields(row)
}

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrderFields(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) listItems(ctx context.Context, orderID string) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, image, quantity, unit_price, line_total
		FROM order_items WHERE order_id=$1 ORDER BY product_name ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*OrderItem
	for rows.Next() {
		item := &OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Image, &item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
