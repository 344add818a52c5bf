package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL store repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const storeColumns = `id, name, slug, tagline, description, logo, location, hours, speciality, is_open, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, s *Store) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stores (id, name, slug, tagline, description, logo, location, hours, speciality, is_open)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		s.ID, s.Name, s.Slug, s.Tagline, s.Description, s.Logo,
		s.Location, s.Hours, s.Speciality, s.IsOpen)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Store, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	s := &Store{}
	err = r.db.QueryRowContext(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE id=$1`, uid).Scan(
		&s.ID, &s.Name, &s.Slug, &s.Tagline, &s.Description, &s.Logo,
		&s.Location, &s.Hours, &s.Speciality, &s.IsOpen, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]*Store, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+storeColumns+` FROM stores ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []*Store
	for rows.Next() {
		s := &Store{}
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Slug, &s.Tagline, &s.Description, &s.Logo,
			&s.Location, &s.Hours, &s.Speciality, &s.IsOpen, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, s *Store) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE stores SET name=$1, slug=$2, tagline=$3, description=$4, logo=$5,
		       location=$6, hours=$7, speciality=$8, updated_at=NOW()
		WHERE id=$9`,
		s.Name, s.Slug, s.Tagline, s.Description, s.Logo,
		s.Location, s.Hours, s.Speciality, s.ID)
	return err
}

func (r *postgresRepo) SetOpen(ctx context.Context, id string, open bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE stores SET is_open=$1, updated_at=NOW() WHERE id=$2`, open, id)
	return err
}
