package static

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"salescast/logging"
	"salescast/models"
)

// Resource names under the static base.
const (
	PredictionFile = "predict.json"
	StatsFile      = "eda.json"
)

// Source loads the precomputed fallback documents. The base is either an
// http(s) URL or a local directory (optionally written as file://).
type Source struct {
	base   string
	remote bool
	client *http.Client
	logger *zap.Logger
}

// NewSource creates a source for base. A nil client gets a 30s default.
func NewSource(base string, client *http.Client, logger *zap.Logger) *Source {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	remote := strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://")
	if !remote {
		base = strings.TrimPrefix(base, "file://")
	}
	return &Source{
		base:   base,
		remote: remote,
		client: client,
		logger: logging.OrNop(logger),
	}
}

// LoadPrediction loads the baseline prediction from predict.json.
func (s *Source) LoadPrediction(ctx context.Context) (models.Prediction, error) {
	body, where, err := s.load(ctx, PredictionFile)
	if err != nil {
		return models.Prediction{}, err
	}

	value := gjson.GetBytes(body, "prediction")
	if value.Type != gjson.Number {
		return models.Prediction{}, &models.LoadError{Kind: models.KindDecode, URL: where, Message: "missing numeric prediction"}
	}
	p, err := models.NewPrediction(value.Float())
	if err != nil {
		return models.Prediction{}, &models.LoadError{Kind: models.KindDecode, URL: where, Err: err}
	}
	return p, nil
}

// LoadAggregateStats loads the dashboard statistics from eda.json.
func (s *Source) LoadAggregateStats(ctx context.Context) (models.AggregateStats, error) {
	body, where, err := s.load(ctx, StatsFile)
	if err != nil {
		return models.AggregateStats{}, err
	}
	stats, err := models.ParseAggregateStats(body)
	if err != nil {
		return models.AggregateStats{}, &models.LoadError{Kind: models.KindDecode, URL: where, Err: err}
	}
	return stats, nil
}

// load reads one resource and rejects transport failures, non-2xx answers
// and documents that declare an error.
func (s *Source) load(ctx context.Context, name string) ([]byte, string, error) {
	var (
		body  []byte
		where string
		err   error
	)
	if s.remote {
		body, where, err = s.fetch(ctx, name)
	} else {
		where = filepath.Join(s.base, name)
		body, err = os.ReadFile(where)
		if err != nil {
			err = &models.LoadError{Kind: models.KindTransport, URL: where, Err: err}
		}
	}
	if err != nil {
		s.logger.Warn("static load failed", zap.String("resource", where), zap.Error(err))
		return nil, where, err
	}

	if !gjson.ValidBytes(body) {
		return nil, where, &models.LoadError{Kind: models.KindDecode, URL: where, Message: "invalid json"}
	}
	if msg, ok := models.DeclaredError(body); ok {
		s.logger.Warn("static resource declares an error", zap.String("resource", where), zap.String("error", msg))
		return nil, where, &models.LoadError{Kind: models.KindPayload, URL: where, Message: msg}
	}
	s.logger.Debug("static resource loaded", zap.String("resource", where), zap.Int("bytes", len(body)))
	return body, where, nil
}

func (s *Source) fetch(ctx context.Context, name string) ([]byte, string, error) {
	target, err := url.JoinPath(s.base, name)
	if err != nil {
		return nil, s.base, &models.LoadError{Kind: models.KindTransport, URL: s.base, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, target, &models.LoadError{Kind: models.KindTransport, URL: target, Err: err}
	}
	// Always revalidate: the fallback file is redeployed in place.
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, target, &models.LoadError{Kind: models.KindTransport, URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, target, &models.LoadError{Kind: models.KindHTTP, Status: resp.StatusCode, URL: target}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, target, &models.LoadError{Kind: models.KindTransport, URL: target, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, target, nil
}
