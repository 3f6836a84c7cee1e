package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"salescast/models"
	"salescast/static"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	args = append(args, "--config", filepath.Join(t.TempDir(), "absent.toml"))
	err := run(root, args, io.Discard)
	return out.String(), err
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "age", flagName(models.FieldAge))
	assert.Equal(t, "marital-status", flagName(models.FieldMaritalStatus))
	assert.Equal(t, "product-category", flagName(models.FieldProductCategory))
	assert.Equal(t, "age-group", flagName(models.FieldAgeGroup))
}

func TestApplyFormFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	addFormFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--age", "30", "--marital-status", "Single"}))

	form := models.NewFormInput()
	require.NoError(t, applyFormFlags(cmd, &form))
	assert.Equal(t, "30", form.Age)
	assert.Equal(t, "Single", form.MaritalStatus)
	assert.Equal(t, "Electronics", form.ProductCategory)
}

func TestFileSource(t *testing.T) {
	_, err := fileSource("sales.csv", "")
	assert.NoError(t, err)
	_, err = fileSource("Sales.XLSX", "Data")
	assert.NoError(t, err)
	_, err = fileSource("sales.parquet", "")
	assert.ErrorContains(t, err, "unsupported input")
}

func TestScoreFormWithoutScorer(t *testing.T) {
	_, err := scoreForm(context.Background(), nil, models.NewFormInput())
	assert.ErrorContains(t, err, "model unavailable")
}

func TestPredictCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/predict.json":
			_, _ = w.Write([]byte(`{"prediction": 100}`))
		case "/predict":
			_, _ = w.Write([]byte(`{"prediction": 42.5}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	t.Setenv("PREDICT_ENDPOINT", srv.URL)
	t.Setenv("STATIC_BASE_URL", srv.URL)

	out, err := execute(t, "predict", "--age", "30", "--orders", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "$100.00")
	assert.Contains(t, out, "$42.50")
}

func TestPredictCommandValidation(t *testing.T) {
	t.Setenv("STATIC_BASE_URL", t.TempDir())

	_, err := execute(t, "predict", "--orders", "5")
	assert.ErrorContains(t, err, "age")
}

func TestPrecomputeEDACommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "sales_data.csv")
	require.NoError(t, os.WriteFile(input, []byte(`Age,Gender,State,Product_Category,Amount
30,M,Delhi,Food,100
40,F,Goa,Home,50
`), 0o644))

	_, err := execute(t, "precompute", "eda", "--input", input, "--out", dir)
	require.NoError(t, err)

	stats, err := static.NewSource(dir, nil, nil).LoadAggregateStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"F", "M"}, stats.Gender.Labels())
}

func TestPrecomputeEDACommandWritesError(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "precompute", "eda", "--input", filepath.Join(dir, "missing.csv"), "--out", dir)
	require.Error(t, err)

	data, err := os.ReadFile(filepath.Join(dir, static.StatsFile))
	require.NoError(t, err)
	assert.Contains(t, gjson.GetBytes(data, "error").String(), "EDA error: ")
}

func TestPrecomputePredictCommand(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "precompute", "predict", "--out", dir,
		"--age", "30", "--orders", "5", "--state", "Uttar Pradesh",
		"--product-category", "Food", "--age-group", "26-35")
	require.NoError(t, err)

	p, err := static.NewSource(dir, nil, nil).LoadPrediction(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 29961.25, p.Amount, 1e-9)
}

func TestDashboardCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, static.StatsFile), []byte(
		`{"sales_by_gender":{"M":10,"F":5},"sales_by_state":{"Delhi":15},"sales_by_category":{"Food":15},"sales_by_age_group":{"18-25":15}}`), 0o644))
	t.Setenv("STATIC_BASE_URL", dir)

	out, err := execute(t, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Sales by Gender")
	assert.Contains(t, out, "Delhi")

	xlsx := filepath.Join(t.TempDir(), "charts.xlsx")
	_, err = execute(t, "dashboard", "--xlsx", xlsx)
	require.NoError(t, err)
	assert.FileExists(t, xlsx)
}

func TestOverviewCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, static.PredictionFile), []byte(`{"prediction": 12.5}`), 0o644))
	t.Setenv("STATIC_BASE_URL", dir)

	out, err := execute(t, "overview")
	require.NoError(t, err)
	assert.Contains(t, out, "$12.50")
	assert.Contains(t, out, "Failed to load EDA data")
}
