package activity

import (
	"context"
	"database/sql"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL activity log repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Insert(ctx context.Context, l *Log) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_logs (id, actor_id, actor_name, action, subject, detail)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		l.ID, l.ActorID, l.ActorName, l.Action, l.Subject, l.Detail)
	return err
}

func (r *postgresRepo) ListRecent(ctx context.Context, limit int) ([]*Log, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor_id, actor_name, action, subject, detail, created_at
		FROM activity_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*Log
	for rows.Next() {
		l := &Log{}
		if err := rows.Scan(&l.ID, &l.ActorID, &l.ActorName, &l.Action,
			&l.Subject, &l.Detail, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
