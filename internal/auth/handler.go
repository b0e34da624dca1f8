package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/waport/waport/internal/session"
	"github.com/waport/waport/internal/token"
	"github.com/waport/waport/internal/user"
)

// Handler exposes the auth endpoints: login, logout, revoke-others, sessions.
type Handler struct {
	users    *user.Service
	codec    *token.Codec
	sessions *session.Service
	tokenTTL time.Duration
}

// NewHandler constructs the auth HTTP handler.
func NewHandler(users *user.Service, codec *token.Codec, sessions *session.Service, tokenTTL time.Duration) *Handler {
	return &Handler{users: users, codec: codec, sessions: sessions, tokenTTL: tokenTTL}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID    int64     `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login verifies credentials, signs a token and creates the session row. The
// signed token string itself keys the session.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	u, err := h.users.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		return err
	}

	signed, err := h.codec.Sign(token.Claims{UserID: u.ID, Phone: u.Phone, Email: u.Email})
	if err != nil {
		return err
	}

	sess, err := h.sessions.Create(c.UserContext(), u.ID, signed, h.tokenTTL)
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(loginResponse{UserID: u.ID, Token: signed, ExpiresAt: sess.ExpiresAt})
}

// Logout deletes the caller's session row if a token was presented. It always
// succeeds: absent, expired or forged tokens still get a 200.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if tok, ok := BearerToken(c.Get(fiber.HeaderAuthorization)); ok {
		if err := h.sessions.Delete(c.UserContext(), tok); err != nil {
			return err
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "logged_out"})
}

// RevokeOthers deletes every session of the caller except the one presented.
func (h *Handler) RevokeOthers(c *fiber.Ctx) error {
	u, ok := UserFromCtx(c)
	tok, okTok := TokenFromCtx(c)
	if !ok || !okTok {
		return fiber.NewError(http.StatusUnauthorized, ErrMissingToken.Error())
	}

	revoked, err := h.sessions.RevokeOthers(c.UserContext(), u.ID, tok)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"revoked": revoked})
}

type sessionResponse struct {
	ID        int64     `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Current   bool      `json:"current"`
}

// Sessions lists the caller's live sessions, newest first.
func (h *Handler) Sessions(c *fiber.Ctx) error {
	u, ok := UserFromCtx(c)
	tok, okTok := TokenFromCtx(c)
	if !ok || !okTok {
		return fiber.NewError(http.StatusUnauthorized, ErrMissingToken.Error())
	}

	limit := c.QueryInt("limit", 50)
	if limit < 1 {
		limit = 1
	}
	if limit > 200 {
		limit = 200
	}

	sessions, err := h.sessions.List(c.UserContext(), u.ID, limit)
	if err != nil {
		return err
	}

	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResponse{
			ID:        s.ID,
			ExpiresAt: s.ExpiresAt,
			CreatedAt: s.CreatedAt,
			Current:   s.Token == tok,
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"sessions": out})
}
