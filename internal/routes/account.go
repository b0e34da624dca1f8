package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/waport/waport/internal/auth"
	"github.com/waport/waport/internal/ledger"
)

// RegisterAccountRoutes wires the authenticated account endpoints that read
// the credit ledger.
func RegisterAccountRoutes(r fiber.Router, credits ledger.Repository) {
	r.Get("/usage-logs", func(c *fiber.Ctx) error {
		u, ok := auth.UserFromCtx(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, auth.ErrMissingToken.Error())
		}

		var typeFilter ledger.Type
		switch q := c.Query("type"); q {
		case "":
		case string(ledger.TypeCredit):
			typeFilter = ledger.TypeCredit
		case string(ledger.TypeDebit):
			typeFilter = ledger.TypeDebit
		default:
			return fiber.NewError(http.StatusBadRequest, "type must be credit or debit")
		}

		limit := c.QueryInt("limit", 200)
		if limit < 1 {
			limit = 1
		}
		if limit > 1000 {
			limit = 1000
		}

		txs, err := credits.ListByUser(c.UserContext(), u.ID, typeFilter, limit)
		if err != nil {
			return err
		}
		if txs == nil {
			txs = []ledger.Transaction{}
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{"transactions": txs})
	})
}
