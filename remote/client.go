package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"salescast/logging"
	"salescast/models"
)

// PredictPath is appended to the configured endpoint.
const PredictPath = "/predict"

// Client posts forms to a scoring endpoint. It never retries; that is the
// caller's decision.
type Client struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewClient creates a client for endpoint, the base URL of the scoring
// service (local or hosted). Deadlines come from the caller's context, so
// the http.Client should carry no timeout of its own.
func NewClient(endpoint string, client *http.Client, logger *zap.Logger) *Client {
	if client == nil {
		client = &http.Client{}
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   client,
		logger:   logging.OrNop(logger),
	}
}

// Endpoint returns the full URL submissions are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint + PredictPath
}

// Submit sends the normalized form and returns the predicted amount.
func (c *Client) Submit(ctx context.Context, form models.FormInput) (models.Prediction, error) {
	payload, err := json.Marshal(form.Request())
	if err != nil {
		return models.Prediction{}, &models.SubmitError{Kind: models.KindDecode, Err: fmt.Errorf("encode request: %w", err)}
	}

	target, err := url.Parse(c.Endpoint())
	if err != nil {
		return models.Prediction{}, &models.SubmitError{Kind: models.KindTransport, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(payload))
	if err != nil {
		return models.Prediction{}, &models.SubmitError{Kind: models.KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.Prediction{}, &models.SubmitError{Kind: models.KindTimeout, Message: "no response from " + c.Endpoint(), Err: err}
		}
		return models.Prediction{}, &models.SubmitError{Kind: models.KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.Prediction{}, &models.SubmitError{Kind: models.KindTimeout, Message: "response body from " + c.Endpoint(), Err: err}
		}
		return models.Prediction{}, &models.SubmitError{Kind: models.KindTransport, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := models.UnknownErrorMessage
		if gjson.ValidBytes(body) {
			if e := gjson.GetBytes(body, "error"); e.Exists() && e.String() != "" {
				msg = e.String()
			}
		}
		c.logger.Warn("scoring request rejected", zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return models.Prediction{}, &models.SubmitError{Kind: models.KindHTTP, Status: resp.StatusCode, Message: msg}
	}

	if !gjson.ValidBytes(body) {
		return models.Prediction{}, &models.SubmitError{Kind: models.KindDecode, Message: "invalid json in response"}
	}
	if msg, ok := models.DeclaredError(body); ok {
		return models.Prediction{}, &models.SubmitError{Kind: models.KindPayload, Message: msg}
	}

	value := gjson.GetBytes(body, "prediction")
	if value.Type != gjson.Number {
		return models.Prediction{}, &models.SubmitError{Kind: models.KindDecode, Message: "response has no numeric prediction"}
	}
	p, err := models.NewPrediction(value.Float())
	if err != nil {
		return models.Prediction{}, &models.SubmitError{Kind: models.KindDecode, Err: err}
	}

	c.logger.Debug("scoring request succeeded", zap.Float64("amount", p.Amount))
	return p, nil
}
