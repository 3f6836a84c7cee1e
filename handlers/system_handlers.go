package handlers

import (
	"context"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HandleVersion prints the build information of the running binary.
// GET /version
func HandleVersion(c *fiber.Ctx) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("no build information available")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
	return c.SendString("<pre>\n" + info.String() + "</pre>\n")
}

// HandleHealth reports liveness, the active model and, when a database is
// configured, whether it answers a ping.
// GET /healthz
func HandleHealth(model string, db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := fiber.Map{"status": "ok", "model": model}
		if db != nil {
			if err := db.Ping(c.UserContext()); err != nil {
				body["status"] = "degraded"
				body["database"] = "Database ping failed: " + err.Error()
				return c.Status(fiber.StatusServiceUnavailable).JSON(body)
			}
			body["database"] = "ok"
		}
		return c.JSON(body)
	}
}
