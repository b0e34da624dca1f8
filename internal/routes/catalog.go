package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/waport/waport/internal/catalog"
)

// RegisterCatalogRoutes wires the public credit-package listing.
func RegisterCatalogRoutes(r fiber.Router, repo catalog.Repository) {
	r.Get("/packages", func(c *fiber.Ctx) error {
		pkgs, err := repo.ListActive(c.UserContext())
		if err != nil {
			return err
		}
		if pkgs == nil {
			pkgs = []catalog.Package{}
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{"packages": pkgs})
	})
}
