package routes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/waport/waport/internal/webhook"
)

// RegisterWebhookRoutes wires the inbound webhook receiver. The path token is
// the only credential on this endpoint.
func RegisterWebhookRoutes(r fiber.Router, m *webhook.Manager, logger *slog.Logger) {
	r.Post("/webhook/incoming/:token", func(c *fiber.Ctx) error {
		userID, err := m.VerifyInbound(c.UserContext(), c.Params("token"))
		if err != nil {
			if errors.Is(err, webhook.ErrUnknownToken) {
				return fiber.NewError(http.StatusForbidden, err.Error())
			}
			return err
		}

		// The payload is accepted as-is; downstream processing is the
		// messaging pipeline's concern.
		logger.Info("inbound webhook accepted", "user_id", userID, "bytes", len(c.Body()))
		return c.Status(http.StatusOK).JSON(fiber.Map{"status": "received"})
	})
}
