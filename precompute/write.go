package precompute

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"salescast/models"
	"salescast/scoring"
	"salescast/static"
)

// WriteStats writes eda.json into dir. When cause is non-nil the file
// carries {"error": ...} instead, which the dashboard shows as-is.
func WriteStats(dir string, stats models.AggregateStats, cause error) error {
	var (
		data []byte
		err  error
	)
	if cause != nil {
		data, err = json.Marshal(map[string]string{"error": fmt.Sprintf("EDA error: %v", cause)})
	} else {
		data, err = json.Marshal(stats)
	}
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(dir, static.StatsFile), data)
}

// WritePrediction writes predict.json into dir, or {"error": ...} when
// cause is non-nil.
func WritePrediction(dir string, amount float64, cause error) error {
	resp := models.PredictionResponse{}
	if cause != nil {
		resp.Error = fmt.Sprintf("Predict error: %v", cause)
	} else {
		resp.Prediction = &amount
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(dir, static.PredictionFile), data)
}

// ScoreBaseline scores a request with scorer for predict.json.
func ScoreBaseline(ctx context.Context, scorer scoring.Scorer, raw map[string]any) (float64, error) {
	req, err := scoring.ParseRequest(raw)
	if err != nil {
		return 0, err
	}
	return scorer.Score(ctx, req)
}

// writeAtomic replaces path so readers never see a partial document.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
