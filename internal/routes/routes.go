package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/galvan-ai/accounts/internal/account"
	"github.com/galvan-ai/accounts/internal/admin"
	"github.com/galvan-ai/accounts/internal/auth"
	"github.com/galvan-ai/accounts/internal/config"
	"github.com/galvan-ai/accounts/internal/middleware"
	"github.com/galvan-ai/accounts/internal/notification"
	"github.com/galvan-ai/accounts/internal/otp"
	"github.com/galvan-ai/accounts/internal/token"
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
	// Outside of dev the in-memory fallbacks are not acceptable.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Stores
	var accounts account.Repository
	var otps otp.Repository
	if d.DB != nil {
		accounts = account.NewPostgresRepository(d.DB)
		otps = otp.NewPostgresRepository(d.DB)
	} else {
		accounts = account.NewMemoryRepository()
		otps = otp.NewMemoryRepository(accounts)
		if err := account.EnsureSuperadmin(context.Background(), accounts, d.Cfg); err != nil {
			return fmt.Errorf("seed superadmin: %w", err)
		}
	}

	var revocations token.RevocationStore
	if d.Cache != nil {
		revocations = token.NewRedisRevocations(d.Cache)
	} else {
		revocations = token.NewMemoryRevocations()
	}

	// Services and handlers
	tokens := token.NewService(d.Cfg.JWTSecret, d.Cfg.AccessTokenTTL, d.Cfg.RefreshTokenTTL, revocations)

	var notifier notification.Notifier
	if d.Cfg.MailHost != "" {
		notifier = notification.NewSMTPNotifier(d.Cfg)
	} else {
		notifier = notification.NewLogNotifier(d.Logger)
	}

	authSvc := auth.NewService(accounts, otps, tokens, otp.NewGenerator(), notifier, d.Logger, d.Cfg.OTPTTL)
	adminSvc := admin.NewService(accounts, authSvc, d.Logger)
	authHandler := auth.NewHandler(authSvc)
	adminHandler := admin.NewHandler(adminSvc)

	// API routes
	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	jwtAuth := middleware.JWTAuth(tokens)
	rateLimit := middleware.LoginRateLimit(d.Cache, 5)

	RegisterAuthRoutes(api, authHandler, rateLimit, jwtAuth)
	RegisterAdminRoutes(api, adminHandler, jwtAuth)

	return nil
}
