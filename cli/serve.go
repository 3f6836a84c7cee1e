package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salescast/config"
	"salescast/database"
	"salescast/handlers"
	"salescast/routes"
	"salescast/scoring"
	"salescast/server"
	"salescast/static"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve /predict, the precomputed documents and the dashboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	scorer, closeScorer := buildScorer(ctx, a.cfg.Scoring, a.logger)
	defer closeScorer()

	deps := routes.Deps{
		PublicDir: a.cfg.Server.PublicDir,
		Stats:     static.NewSource(a.cfg.Server.PublicDir, nil, a.logger),
		Logger:    a.logger,
		ModelName: "none",
	}
	// a nil scorer answers 503 until a model is available
	deps.Predict = handlers.NewPredictHandler(scorer, a.logger)
	if scorer != nil {
		deps.ModelName = scorer.Name()
	}

	if a.cfg.Database.URL != "" {
		pool, err := database.Connect(ctx, a.cfg.Database.URL, a.logger)
		if err != nil {
			a.logger.Warn("database unavailable, health will not report it", zap.Error(err))
		} else {
			defer database.Close(pool, a.logger)
			deps.DB = pool
		}
	}

	app := server.New(a.cfg.Server, deps)
	return server.Run(ctx, app, a.cfg.Server.Addr, a.logger)
}

// buildScorer loads the configured model. It returns a nil scorer when the
// model cannot be loaded so the server still starts.
func buildScorer(ctx context.Context, cfg config.ScoringConfig, logger *zap.Logger) (scoring.Scorer, func()) {
	noop := func() {}
	switch cfg.Backend {
	case config.BackendGemini:
		g, err := scoring.NewGeminiScorer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("failed to load model", zap.String("backend", cfg.Backend), zap.Error(err))
			return nil, noop
		}
		return g, func() {
			if err := g.Close(); err != nil {
				logger.Warn("closing Gemini client", zap.Error(err))
			}
		}
	default:
		m, err := scoring.LoadLinearModel(cfg.ModelPath)
		if err != nil {
			logger.Error("failed to load model", zap.String("path", cfg.ModelPath), zap.Error(err))
			return nil, noop
		}
		logger.Info("model loaded", zap.String("model", m.Name()))
		return m, noop
	}
}
