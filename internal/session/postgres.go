package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores sessions in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed session repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a session row.
func (r *PostgresRepository) Create(ctx context.Context, s Session) (Session, error) {
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	row := r.db.QueryRow(ctx, `INSERT INTO sessions (user_id, token, expires_at, created_at)
        VALUES ($1, $2, $3, $4) RETURNING id`,
		s.UserID, s.Token, s.ExpiresAt.UTC(), createdAt.UTC())
	if err := row.Scan(&s.ID); err != nil {
		return Session{}, err
	}
	s.CreatedAt = createdAt.UTC()
	return s, nil
}

// FindByToken returns the unexpired row for the token.
func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (Session, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, token, expires_at, created_at
        FROM sessions WHERE token = $1 AND expires_at > now()`, token)
	var s Session
	if err := row.Scan(&s.ID, &s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	s.ExpiresAt = s.ExpiresAt.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

// Extend slides the expiry forward; it never shortens an expiry already
// further out.
func (r *PostgresRepository) Extend(ctx context.Context, token string, until time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE sessions SET expires_at = GREATEST(expires_at, $2)
        WHERE token = $1`, token, until.UTC())
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// Delete removes the row for the token. Absent rows are not an error.
func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// DeleteOthers removes the user's sibling sessions.
func (r *PostgresRepository) DeleteOthers(ctx context.Context, userID int64, keepToken string) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1 AND token <> $2`, userID, keepToken)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// ListByUser returns the user's live sessions newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]Session, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, token, expires_at, created_at
        FROM sessions WHERE user_id = $1 AND expires_at > now()
        ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.ExpiresAt = s.ExpiresAt.UTC()
		s.CreatedAt = s.CreatedAt.UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}
