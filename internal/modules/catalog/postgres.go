package catalog

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL catalog repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const itemColumns = `id, store_id, category_id, name, price, image, description, stock, is_featured, sales_count, is_available, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, item *Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products
		  (id, store_id, category_id, name, price, image, description, stock, is_featured, sales_count, is_available)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		item.ID, item.StoreID, item.CategoryID, item.Name, item.Price,
		item.Image, item.Description, item.Stock, item.IsFeatured,
		item.SalesCount, item.IsAvailable)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Item, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return r.scanItem(r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM products WHERE id=$1`, uid))
}

func (r *postgresRepo) List(ctx context.Context, storeID string, featuredOnly, includeUnavailable bool) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM products WHERE 1=1`
	var args []interface{}
	if storeID != "" {
		args = append(args, storeID)
		query += ` AND store_id=$1`
	}
	if featuredOnly {
		query += ` AND is_featured`
	}
	if !includeUnavailable {
		query += ` AND is_available`
	}
	query += ` ORDER BY sales_count DESC, name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it := &Item{}
		var categoryID sql.NullString
		if err := rows.Scan(
			&it.ID, &it.StoreID, &categoryID, &it.Name, &it.Price,
			&it.Image, &it.Description, &it.Stock, &it.IsFeatured,
			&it.SalesCount, &it.IsAvailable, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		if categoryID.Valid {
			cid, _ := uuid.Parse(categoryID.String)
			it.CategoryID = &cid
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, item *Item) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products SET category_id=$1, name=$2, price=$3, image=$4,
		       description=$5, stock=$6, is_featured=$7, updated_at=NOW()
		WHERE id=$8`,
		item.CategoryID, item.Name, item.Price, item.Image,
		item.Description, item.Stock, item.IsFeatured, item.ID)
	return err
}

func (r *postgresRepo) SetAvailable(ctx context.Context, id string, available bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_available=$1, updated_at=NOW() WHERE id=$2`, available, id)
	return err
}

func (r *postgresRepo) IncrementSales(ctx context.Context, id string, n int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET sales_count=sales_count+$1, updated_at=NOW() WHERE id=$2`, n, id)
	return err
}

func (r *postgresRepo) scanItem(row *sql.Row) (*Item, error) {
	it := &Item{}
	var categoryID sql.NullString
	err := row.Scan(
		&it.ID, &it.StoreID, &categoryID, &it.Name, &it.Price,
		&it.Image, &it.Description, &it.Stock, &it.IsFeatured,
		&it.SalesCount, &it.IsAvailable, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		cid, _ := uuid.Parse(categoryID.String)
		it.CategoryID = &cid
	}
	return it, nil
}
