package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Package is a purchasable credit bundle. The purchase flow lives outside
// this service; the catalog is read-only here.
type Package struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Credits    int64  `json:"credits"`
	PriceCents int64  `json:"price_cents"`
	Active     bool   `json:"-"`
}

// Repository lists credit packages.
type Repository interface {
	ListActive(ctx context.Context) ([]Package, error)
}

// PostgresRepository reads packages from PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed catalog repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListActive returns the active packages, cheapest first.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]Package, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, credits, price_cents, active
        FROM packages WHERE active = true ORDER BY price_cents ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Package
	for rows.Next() {
		var p Package
		if err := rows.Scan(&p.ID, &p.Name, &p.Credits, &p.PriceCents, &p.Active); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
