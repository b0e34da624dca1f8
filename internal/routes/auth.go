package routes

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/waport/waport/internal/auth"
	"github.com/waport/waport/internal/login"
	"github.com/waport/waport/internal/middleware"
)

// RegisterAuthRoutes wires authentication endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, tracker *login.Tracker, guard *auth.Guard, cache *redis.Client) {
	group := r.Group("/auth")
	group.Post("/login", h.Login)
	group.Post("/logout", h.Logout)
	group.Post("/revoke-others", guard.RequireAuth(), h.RevokeOthers)

	// QR handshake polling: rate limited per phone so a stray client loop
	// cannot hammer the login_requests table.
	qrLimiter := middleware.RateLimit(cache, "qr-status", 60, func(c *fiber.Ctx) string {
		return c.Params("phone")
	})
	group.Get("/qr-status/:phone", qrLimiter, func(c *fiber.Ctx) error {
		status, err := tracker.Status(c.UserContext(), c.Params("phone"))
		if err != nil {
			return err
		}
		if status.State != login.StateActive {
			return c.Status(http.StatusOK).JSON(fiber.Map{"status": login.StateExpired})
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     status.State,
			"timeLeftMs": status.TimeLeftMs,
			"expiresAt":  status.ExpiresAt.UTC().Format(time.RFC3339Nano),
		})
	})
}
