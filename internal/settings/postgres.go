package settings

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores user settings in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed settings repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SetNotifications upserts the notification preference row.
func (r *PostgresRepository) SetNotifications(ctx context.Context, userID int64, enabled bool) error {
	_, err := r.db.Exec(ctx, `INSERT INTO user_settings (user_id, notifications_enabled, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (user_id) DO UPDATE SET notifications_enabled = EXCLUDED.notifications_enabled, updated_at = now()`,
		userID, enabled)
	return err
}
