package webhook

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores webhook tokens in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed webhook token repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert replaces the user's token atomically via the user_id primary key.
func (r *PostgresRepository) Upsert(ctx context.Context, t Token) error {
	_, err := r.db.Exec(ctx, `INSERT INTO webhook_tokens (user_id, token, created_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, created_at = EXCLUDED.created_at`,
		t.UserID, t.Token, t.CreatedAt.UTC())
	return err
}

// FindByToken resolves a token to its row.
func (r *PostgresRepository) FindByToken(ctx context.Context, tok string) (Token, error) {
	row := r.db.QueryRow(ctx, `SELECT user_id, token, created_at FROM webhook_tokens WHERE token = $1`, tok)
	var t Token
	if err := row.Scan(&t.UserID, &t.Token, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Token{}, ErrUnknownToken
		}
		return Token{}, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}
