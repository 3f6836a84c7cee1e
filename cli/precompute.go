package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salescast/database"
	"salescast/models"
	"salescast/precompute"
	"salescast/scoring"
)

func newPrecomputeCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "precompute",
		Short: "Generate the static predict.json and eda.json documents",
	}
	cmd.PersistentFlags().StringVarP(&out, "out", "o", "", "Output directory (default: server.public_dir)")

	outDir := func() string {
		if out != "" {
			return out
		}
		return a.cfg.Server.PublicDir
	}
	cmd.AddCommand(newPrecomputeEDACmd(a, outDir), newPrecomputePredictCmd(a, outDir))
	return cmd
}

func newPrecomputeEDACmd(a *app, outDir func() string) *cobra.Command {
	var (
		input string
		sheet string
	)
	cmd := &cobra.Command{
		Use:   "eda",
		Short: "Aggregate sales history into eda.json",
		Long: `Aggregate sales history into eda.json.

The history is read from --input (.csv or .xlsx) or, without --input, from
the configured database table. When the history cannot be read the file
is written with an error so the dashboard shows it.

Age groups use right-closed bins (18,25], (25,35], (35,45], (45,55],
(55,70]; rows aged 18 or younger, or over 70, are left out of
sales_by_age_group.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stats, err := a.aggregate(ctx, input, sheet)
			if werr := precompute.WriteStats(outDir(), stats, err); werr != nil {
				return werr
			}
			if err != nil {
				return fmt.Errorf("eda: %w", err)
			}
			a.logger.Info("eda.json written", zap.String("dir", outDir()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Sales history file (.csv or .xlsx)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet to read from an .xlsx input (default: first)")
	return cmd
}

func (a *app) aggregate(ctx context.Context, input, sheet string) (models.AggregateStats, error) {
	if input != "" {
		src, err := fileSource(input, sheet)
		if err != nil {
			return models.AggregateStats{}, err
		}
		return precompute.FromSource(ctx, src)
	}

	pool, err := database.Connect(ctx, a.cfg.Database.URL, a.logger)
	if err != nil {
		return models.AggregateStats{}, err
	}
	defer database.Close(pool, a.logger)
	return precompute.FromSource(ctx, precompute.PostgresSource{DB: pool, Table: a.cfg.Database.SalesTable})
}

func fileSource(path, sheet string) (precompute.RecordSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return precompute.CSVSource{Path: path}, nil
	case ".xlsx", ".xlsm":
		return precompute.XLSXSource{Path: path, Sheet: sheet}, nil
	}
	return nil, fmt.Errorf("unsupported input %s: want .csv or .xlsx", path)
}

func newPrecomputePredictCmd(a *app, outDir func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score a representative customer into predict.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			form := models.NewFormInput()
			if err := applyFormFlags(cmd, &form); err != nil {
				return err
			}

			scorer, closeScorer := buildScorer(cmd.Context(), a.cfg.Scoring, a.logger)
			defer closeScorer()

			amount, err := scoreForm(cmd.Context(), scorer, form)
			if werr := precompute.WritePrediction(outDir(), amount, err); werr != nil {
				return werr
			}
			if err != nil {
				return fmt.Errorf("predict: %w", err)
			}
			a.logger.Info("predict.json written", zap.String("dir", outDir()), zap.Float64("prediction", amount))
			return nil
		},
	}
	addFormFlags(cmd)
	return cmd
}

func scoreForm(ctx context.Context, scorer scoring.Scorer, form models.FormInput) (float64, error) {
	if scorer == nil {
		return 0, scoring.ErrUnavailable
	}
	raw := map[string]any{}
	for _, field := range models.FieldNames {
		v, _ := form.Get(field)
		if v == "" {
			continue
		}
		raw[field] = v
	}
	return precompute.ScoreBaseline(ctx, scorer, raw)
}
