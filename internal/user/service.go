package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/waport/waport/internal/ledger"
	"github.com/waport/waport/internal/notification"
)

var (
	// ErrMissingFields indicates the registration request lacked a required field.
	ErrMissingFields = errors.New("email and password are required")
	// ErrInvalidCredentials indicates a failed email/password login.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service manages account lifecycle.
type Service struct {
	repo     Repository
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService creates a user service.
func NewService(repo Repository, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// RegisterInput carries the registration request fields.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Register creates an account and records the welcome bonus. The bonus is
// part of the registration postcondition: both rows commit together, so a
// failed ledger write leaves no account behind and the caller may retry.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return User{}, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.CreateWithCredit(ctx, User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         RoleUser,
		CreatedAt:    time.Now().UTC(),
	}, ledger.Transaction{
		Type:   ledger.TypeCredit,
		Amount: ledger.WelcomeBonus,
		Reason: ledger.ReasonWelcomeBonus,
	})
	if err != nil {
		return User{}, err
	}

	if s.notifier != nil {
		if err := s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindWelcome,
			Destination: created.Email,
			Body:        fmt.Sprintf("welcome, you received %d credits", ledger.WelcomeBonus),
		}); err != nil {
			s.logger.Warn("welcome notification failed", "user_id", created.ID, "error", err)
		}
	}

	return created, nil
}

// Authenticate verifies an email/password pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if len(u.PasswordHash) == 0 {
		// Phone-only account, no password login.
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}
