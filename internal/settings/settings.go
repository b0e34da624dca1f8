package settings

import (
	"context"
	"log/slog"

	"github.com/waport/waport/internal/login"
	"github.com/waport/waport/internal/notification"
	"github.com/waport/waport/internal/user"
)

// Repository persists per-user preference rows.
type Repository interface {
	// SetNotifications upserts the user's notification preference.
	SetNotifications(ctx context.Context, userID int64, enabled bool) error
}

// Service handles the bot-initiated notification opt-out.
type Service struct {
	users              user.Repository
	repo               Repository
	notifier           notification.Notifier
	defaultCountryCode string
	logger             *slog.Logger
}

// NewService builds the settings service.
func NewService(users user.Repository, repo Repository, notifier notification.Notifier, defaultCountryCode string, logger *slog.Logger) *Service {
	return &Service{users: users, repo: repo, notifier: notifier, defaultCountryCode: defaultCountryCode, logger: logger}
}

// OptOut disables notifications for the account owning the phone number.
// Returns user.ErrNotFound when no account matches. Repeating the call is
// harmless.
func (s *Service) OptOut(ctx context.Context, rawPhone string) error {
	phone := login.NormalizePhone(rawPhone, s.defaultCountryCode)
	if phone == "" {
		return user.ErrNotFound
	}

	u, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		return err
	}

	if err := s.repo.SetNotifications(ctx, u.ID, false); err != nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindOptOut,
			Destination: phone,
			Body:        "notifications disabled",
		}); err != nil {
			s.logger.Warn("opt-out confirmation failed", "user_id", u.ID, "error", err)
		}
	}
	return nil
}
