package login

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores login requests in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed login-request repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a login request row.
func (r *PostgresRepository) Create(ctx context.Context, req Request) (Request, error) {
	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	row := r.db.QueryRow(ctx, `INSERT INTO login_requests (phone, is_verified, expires_at, created_at)
        VALUES ($1, $2, $3, $4) RETURNING id`,
		req.Phone, req.Verified, req.ExpiresAt.UTC(), createdAt.UTC())
	if err := row.Scan(&req.ID); err != nil {
		return Request{}, err
	}
	req.CreatedAt = createdAt.UTC()
	return req, nil
}

// LatestActive returns the newest unverified, unexpired request for the phone.
func (r *PostgresRepository) LatestActive(ctx context.Context, phone string) (Request, error) {
	row := r.db.QueryRow(ctx, `SELECT id, phone, is_verified, expires_at, created_at
        FROM login_requests
        WHERE phone = $1 AND is_verified = false AND expires_at > now()
        ORDER BY created_at DESC LIMIT 1`, phone)
	var req Request
	if err := row.Scan(&req.ID, &req.Phone, &req.Verified, &req.ExpiresAt, &req.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, ErrNoActiveRequest
		}
		return Request{}, err
	}
	req.ExpiresAt = req.ExpiresAt.UTC()
	req.CreatedAt = req.CreatedAt.UTC()
	return req, nil
}
