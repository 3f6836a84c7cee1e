package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"salescast/handlers"
	"salescast/middleware"
	"salescast/static"
	"salescast/workflow"
)

// Deps are the collaborators the routes are wired to.
type Deps struct {
	Predict   *handlers.PredictHandler
	PublicDir string
	Stats     workflow.StatsSource
	ModelName string
	DB        handlers.Pinger
	Logger    *zap.Logger
}

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", handlers.HandleHealth(d.ModelName, d.DB))
	app.Get("/version", handlers.HandleVersion)

	// --- Live prediction ---
	app.Post("/predict", d.Predict.HandlePredict)

	// --- Precomputed documents ---
	app.Get("/"+static.PredictionFile, middleware.NoStore, handlers.HandleStaticDocument(d.PublicDir, static.PredictionFile))
	app.Get("/"+static.StatsFile, middleware.NoStore, handlers.HandleStaticDocument(d.PublicDir, static.StatsFile))

	// --- Dashboard ---
	api := app.Group("/api/v1")
	dashboard := api.Group("/dashboard", middleware.NoStore)
	dashboard.Get("/charts", handlers.HandleDashboardCharts(d.Stats, d.Logger))
}
