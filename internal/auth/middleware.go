package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/waport/waport/internal/user"
)

const (
	localUser  = "auth_user"
	localToken = "auth_token"
)

// RequireAuth authenticates the request exactly once and stores the resolved
// user and token in Locals. Authentication failures become 401 with a fixed
// message; anything else propagates to the generic 500 handler.
func (g *Guard) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, tok, err := g.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			if errors.Is(err, ErrMissingToken) || errors.Is(err, ErrInvalidSession) {
				return fiber.NewError(http.StatusUnauthorized, err.Error())
			}
			g.logger.Error("authentication failed", "error", err)
			return fiber.NewError(http.StatusInternalServerError, "internal server error")
		}
		c.Locals(localUser, u)
		c.Locals(localToken, tok)
		return c.Next()
	}
}

// UserFromCtx returns the authenticated user stored by RequireAuth.
func UserFromCtx(c *fiber.Ctx) (user.User, bool) {
	u, ok := c.Locals(localUser).(user.User)
	return u, ok
}

// TokenFromCtx returns the presented bearer token stored by RequireAuth.
func TokenFromCtx(c *fiber.Ctx) (string, bool) {
	tok, ok := c.Locals(localToken).(string)
	return tok, ok && tok != ""
}
