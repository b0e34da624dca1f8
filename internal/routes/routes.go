package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/waport/waport/internal/auth"
	"github.com/waport/waport/internal/catalog"
	"github.com/waport/waport/internal/config"
	"github.com/waport/waport/internal/ledger"
	"github.com/waport/waport/internal/login"
	"github.com/waport/waport/internal/middleware"
	"github.com/waport/waport/internal/notification"
	"github.com/waport/waport/internal/session"
	"github.com/waport/waport/internal/settings"
	"github.com/waport/waport/internal/token"
	"github.com/waport/waport/internal/user"
	"github.com/waport/waport/internal/webhook"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	// Repositories
	var (
		userRepo    user.Repository
		sessionRepo session.Repository
		loginRepo   login.Repository
		webhookRepo webhook.Repository
		creditRepo  ledger.Repository
	)
	if d.DB != nil {
		userRepo = user.NewPostgresRepository(d.DB)
		sessionRepo = session.NewPostgresRepository(d.DB)
		loginRepo = login.NewPostgresRepository(d.DB)
		webhookRepo = webhook.NewPostgresRepository(d.DB)
		creditRepo = ledger.NewPostgresRepository(d.DB)
	} else {
		creditRepo = ledger.NewMemoryRepository()
		userRepo = user.NewMemoryRepository(creditRepo)
		sessionRepo = session.NewMemoryRepository()
		loginRepo = login.NewMemoryRepository()
		webhookRepo = webhook.NewMemoryRepository()
	}

	// Services
	codec, err := token.NewCodec(d.Cfg.Secrets(), d.Cfg.TokenTTL)
	if err != nil {
		return err
	}
	notifier := notification.NewLoggerNotifier(d.Logger)
	userSvc := user.NewService(userRepo, notifier, d.Logger)
	sessionSvc := session.NewService(sessionRepo, d.Cfg.SessionExtension, d.Logger)
	guard := auth.NewGuard(codec, sessionSvc, userRepo, d.Logger)
	tracker := login.NewTracker(loginRepo, d.Cfg.DefaultCountryCode)
	webhooks := webhook.NewManager(webhookRepo, d.Cfg.WebhookBaseURL)

	var settingsRepo settings.Repository
	if d.DB != nil {
		settingsRepo = settings.NewPostgresRepository(d.DB)
	} else {
		settingsRepo = settings.NewMemoryRepository()
	}
	settingsSvc := settings.NewService(userRepo, settingsRepo, notifier, d.Cfg.DefaultCountryCode, d.Logger)

	var catalogRepo catalog.Repository
	if d.DB != nil {
		catalogRepo = catalog.NewPostgresRepository(d.DB)
	} else {
		catalogRepo = catalog.NewMemoryRepository()
	}

	// Handlers
	authHandler := auth.NewHandler(userSvc, codec, sessionSvc, d.Cfg.TokenTTL)
	userHandler := user.NewHandler(userSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	registerLimiter := middleware.RateLimit(d.Cache, "register", 5, nil)
	api.Post("/register", registerLimiter, userHandler.Register)
	RegisterAuthRoutes(api, authHandler, tracker, guard, d.Cache)
	RegisterWebhookRoutes(api, webhooks, d.Logger)
	RegisterCatalogRoutes(api, catalogRepo)
	RegisterInternalRoutes(api, settingsSvc, d.Cfg.InternalAPIKey)

	// Protected routes
	protected := api.Group("", guard.RequireAuth())
	protected.Get("/sessions", authHandler.Sessions)
	RegisterAccountRoutes(protected, creditRepo)
	protected.Post("/credentials/rotate-webhook", func(c *fiber.Ctx) error {
		u, ok := auth.UserFromCtx(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, auth.ErrMissingToken.Error())
		}
		url, err := webhooks.Rotate(c.UserContext(), u.ID)
		if err != nil {
			return err
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{"webhookUrl": url})
	})

	return nil
}
