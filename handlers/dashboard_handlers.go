package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"salescast/workflow"
)

// HandleDashboardCharts loads the aggregate statistics and returns the
// chart series in dashboard order. Each request mounts a fresh dashboard.
// GET /api/v1/dashboard/charts
func HandleDashboardCharts(source workflow.StatsSource, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := workflow.NewDashboard(source, logger)
		if err := d.Mount(c.UserContext()); err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": d.Message()})
		}
		charts, err := d.Charts()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"charts": charts})
	}
}
