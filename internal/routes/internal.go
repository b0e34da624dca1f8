package routes

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/waport/waport/internal/settings"
	"github.com/waport/waport/internal/user"
)

const internalKeyHeader = "x-internal-key"

// RegisterInternalRoutes wires endpoints reserved for the collaborating
// messaging bot, gated by a shared secret header instead of user auth.
func RegisterInternalRoutes(r fiber.Router, svc *settings.Service, internalKey string) {
	group := r.Group("/internal", func(c *fiber.Ctx) error {
		presented := c.Get(internalKeyHeader)
		if internalKey == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(internalKey)) != 1 {
			return fiber.NewError(http.StatusForbidden, "invalid internal key")
		}
		return c.Next()
	})

	group.Post("/opt-out", func(c *fiber.Ctx) error {
		var req struct {
			Phone string `json:"phone"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if req.Phone == "" {
			return fiber.NewError(http.StatusBadRequest, "phone is required")
		}
		if err := svc.OptOut(c.UserContext(), req.Phone); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return fiber.NewError(http.StatusNotFound, err.Error())
			}
			return err
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{"status": "opted_out"})
	})
}
