package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"salescast/config"
	"salescast/logging"
	"salescast/middleware"
	"salescast/routes"
)

// shutdownTimeout bounds how long in-flight requests get on shutdown.
const shutdownTimeout = 10 * time.Second

// New builds the fiber app with the shared middleware and all routes.
func New(cfg config.ServerConfig, deps routes.Deps) *fiber.App {
	deps.Logger = logging.OrNop(deps.Logger)
	if deps.PublicDir == "" {
		deps.PublicDir = cfg.PublicDir
	}

	app := fiber.New(fiber.Config{
		AppName:               "salescast",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(deps.Logger))
	app.Use(cors.New())
	app.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	routes.SetupRoutes(app, deps)
	return app
}

// Run serves app on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, app *fiber.App, addr string, logger *zap.Logger) error {
	logger = logging.OrNop(logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}
	return <-errCh
}
