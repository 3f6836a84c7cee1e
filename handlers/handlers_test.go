package handlers

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"salescast/models"
	"salescast/scoring"
	"salescast/static"
)

type stubScorer struct {
	amount float64
	err    error
}

func (s stubScorer) Name() string { return "stub" }

func (s stubScorer) Score(context.Context, models.PredictionRequest) (float64, error) {
	return s.amount, s.err
}

const validBody = `{"age":30,"gender":"M","maritalStatus":"Married","state":"Delhi",
	"productCategory":"Food","ageGroup":"26-35","orders":5}`

func postPredict(t *testing.T, h *PredictHandler, body string) (int, string) {
	t.Helper()
	app := fiber.New()
	app.Post("/predict", h.HandlePredict)

	req := httptest.NewRequest("POST", "/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestHandlePredict(t *testing.T) {
	status, body := postPredict(t, NewPredictHandler(stubScorer{amount: 42.5}, nil), validBody)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"prediction": 42.5}`, body)
}

func TestHandlePredictWithDefaultModel(t *testing.T) {
	m, err := scoring.LoadLinearModel("")
	require.NoError(t, err)

	status, body := postPredict(t, NewPredictHandler(m, nil), validBody)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, gjson.Number, gjson.Get(body, "prediction").Type)
}

func TestHandlePredictErrors(t *testing.T) {
	cases := []struct {
		name   string
		scorer scoring.Scorer
		body   string
		status int
		msg    string
	}{
		{"no model", nil, validBody, fiber.StatusServiceUnavailable, "model unavailable"},
		{"bad json", stubScorer{}, `{`, fiber.StatusBadRequest, "Invalid request body"},
		{"missing field", stubScorer{}, `{"age":30}`, fiber.StatusBadRequest, "Missing required fields"},
		{"scorer unavailable", stubScorer{err: scoring.ErrUnavailable}, validBody, fiber.StatusServiceUnavailable, "model unavailable"},
		{"scorer failure", stubScorer{err: errors.New("boom")}, validBody, fiber.StatusInternalServerError, "boom"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			status, body := postPredict(t, NewPredictHandler(c.scorer, nil), c.body)
			assert.Equal(t, c.status, status)
			assert.Contains(t, gjson.Get(body, "error").String(), c.msg)
		})
	}
}

func TestHandleStaticDocument(t *testing.T) {
	dir := t.TempDir()
	app := fiber.New()
	app.Get("/predict.json", HandleStaticDocument(dir, static.PredictionFile))

	resp, err := app.Test(httptest.NewRequest("GET", "/predict.json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	require.NoError(t, os.WriteFile(filepath.Join(dir, static.PredictionFile), []byte(`{"prediction": 100}`), 0o644))
	resp, err = app.Test(httptest.NewRequest("GET", "/predict.json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, fiber.MIMEApplicationJSON, resp.Header.Get(fiber.HeaderContentType))
	data, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"prediction": 100}`, string(data))

	require.NoError(t, os.WriteFile(filepath.Join(dir, static.PredictionFile), []byte(`not json`), 0o644))
	resp, err = app.Test(httptest.NewRequest("GET", "/predict.json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestHandleDashboardCharts(t *testing.T) {
	dir := t.TempDir()
	app := fiber.New()
	app.Get("/charts", HandleDashboardCharts(static.NewSource(dir, nil, nil), nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/charts", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	data, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(gjson.GetBytes(data, "error").String(), "Failed to load EDA data: "))

	eda := `{"sales_by_gender":{"M":10,"F":5},"sales_by_state":{"Delhi":15},
		"sales_by_category":{"Food":15},"sales_by_age_group":{"18-25":15}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, static.StatsFile), []byte(eda), 0o644))

	resp, err = app.Test(httptest.NewRequest("GET", "/charts", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data, _ = io.ReadAll(resp.Body)
	charts := gjson.GetBytes(data, "charts")
	require.Equal(t, 4, len(charts.Array()))
	assert.Equal(t, "Sales by Gender", charts.Get("0.title").String())
	assert.Equal(t, `["M","F"]`, charts.Get("0.labels").Raw)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHandleHealth(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", HandleHealth("stub", nil))
	app.Get("/healthz/db", HandleHealth("stub", stubPinger{err: errors.New("refused")}))

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":"ok","model":"stub"}`, string(data))

	resp, err = app.Test(httptest.NewRequest("GET", "/healthz/db", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	data, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "degraded", gjson.GetBytes(data, "status").String())
}

func TestHandleVersion(t *testing.T) {
	app := fiber.New()
	app.Get("/version", HandleVersion)

	resp, err := app.Test(httptest.NewRequest("GET", "/version", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
