package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waport/waport/internal/ledger"
)

var (
	// ErrNotFound indicates no user matched the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken indicates the email already belongs to an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrPhoneTaken indicates the phone number already belongs to an account.
	ErrPhoneTaken = errors.New("phone already registered")
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	// CreateWithCredit inserts the user and its opening ledger entry as one
	// atomic write. Neither row exists if either write fails.
	CreateWithCredit(ctx context.Context, u User, grant ledger.Transaction) (User, error)
	FindByID(ctx context.Context, id int64) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByPhone(ctx context.Context, phone string) (User, error)
}

const uniqueViolation = "23505"

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Create inserts a new user and returns it with the assigned identifier.
func (r *PostgresRepository) Create(ctx context.Context, u User) (User, error) {
	return insertUser(ctx, r.db, u)
}

// CreateWithCredit inserts the user and the opening ledger entry in one
// transaction, so a failed credit write leaves no orphaned account behind.
func (r *PostgresRepository) CreateWithCredit(ctx context.Context, u User, grant ledger.Transaction) (User, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return User{}, err
	}
	defer tx.Rollback(ctx)

	created, err := insertUser(ctx, tx, u)
	if err != nil {
		return User{}, err
	}
	grant.UserID = created.ID
	if err := ledger.Insert(ctx, tx, grant); err != nil {
		return User{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return User{}, err
	}
	return created, nil
}

func insertUser(ctx context.Context, q rowQuerier, u User) (User, error) {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	row := q.QueryRow(ctx, `INSERT INTO users (phone, name, email, password_hash, role, created_at)
        VALUES (NULLIF($1, ''), NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, $6)
        RETURNING id`,
		u.Phone, u.Name, u.Email, string(u.PasswordHash), u.Role, createdAt.UTC())
	if err := row.Scan(&u.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "phone") {
				return User{}, ErrPhoneTaken
			}
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	u.CreatedAt = createdAt.UTC()
	return u, nil
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (User, error) {
	return r.scanOne(r.db.QueryRow(ctx, selectUser+` WHERE id = $1`, id))
}

// FindByEmail fetches a user by email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.scanOne(r.db.QueryRow(ctx, selectUser+` WHERE email = $1`, email))
}

// FindByPhone fetches a user by normalized phone number.
func (r *PostgresRepository) FindByPhone(ctx context.Context, phone string) (User, error) {
	return r.scanOne(r.db.QueryRow(ctx, selectUser+` WHERE phone = $1`, phone))
}

const selectUser = `SELECT id, COALESCE(phone, ''), COALESCE(name, ''), COALESCE(email, ''),
    COALESCE(password_hash, ''), role, created_at FROM users`

func (r *PostgresRepository) scanOne(row pgx.Row) (User, error) {
	var u User
	var hash string
	if err := row.Scan(&u.ID, &u.Phone, &u.Name, &u.Email, &hash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if hash != "" {
		u.PasswordHash = []byte(hash)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}
