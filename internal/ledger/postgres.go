package ledger

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Execer is the executor subset the ledger writes through. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so an entry can join a caller's
// transaction when it must commit together with another write.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Insert appends a transaction through q.
func Insert(ctx context.Context, q Execer, tx Transaction) error {
	createdAt := tx.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := q.Exec(ctx, `INSERT INTO auth_credit_transactions (user_id, type, amount, reason, created_at)
        VALUES ($1, $2, $3, $4, $5)`, tx.UserID, string(tx.Type), tx.Amount, tx.Reason, createdAt.UTC())
	return err
}

// PostgresRepository stores credit transactions in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed ledger repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Record appends a transaction.
func (r *PostgresRepository) Record(ctx context.Context, tx Transaction) error {
	return Insert(ctx, r.db, tx)
}

// ListByUser returns the user's transactions newest first, optionally
// filtered by type.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64, typeFilter Type, limit int) ([]Transaction, error) {
	const base = `SELECT id, user_id, type, amount, reason, created_at
        FROM auth_credit_transactions WHERE user_id = $1`

	var (
		query string
		args  []any
	)
	if typeFilter == "" {
		query = base + ` ORDER BY created_at DESC LIMIT $2`
		args = []any{userID, limit}
	} else {
		query = base + ` AND type = $2 ORDER BY created_at DESC LIMIT $3`
		args = []any{userID, string(typeFilter), limit}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var tx Transaction
		var kind string
		if err := rows.Scan(&tx.ID, &tx.UserID, &kind, &tx.Amount, &tx.Reason, &tx.CreatedAt); err != nil {
			return nil, err
		}
		tx.Type = Type(kind)
		tx.CreatedAt = tx.CreatedAt.UTC()
		out = append(out, tx)
	}
	return out, rows.Err()
}
