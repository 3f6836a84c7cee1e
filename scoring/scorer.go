package scoring

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"salescast/models"
)

// ErrUnavailable means no model can score right now; the server answers
// 503 with the error text.
var ErrUnavailable = errors.New("model unavailable")

// Scorer turns a validated request into a predicted amount.
type Scorer interface {
	Score(ctx context.Context, req models.PredictionRequest) (float64, error)
	Name() string
}

//go:embed default_model.json
var defaultModel []byte

// LinearModel is a linear regression over age, orders and one-hot encoded
// categories. A level missing from Levels is the reference level and
// contributes nothing.
type LinearModel struct {
	ModelName string                        `json:"name"`
	Intercept float64                       `json:"intercept"`
	Age       float64                       `json:"age"`
	Orders    float64                       `json:"orders"`
	Levels    map[string]map[string]float64 `json:"levels"`
}

// LoadLinearModel reads coefficients from path, or the built-in defaults
// when path is empty.
func LoadLinearModel(path string) (*LinearModel, error) {
	data := defaultModel
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	var m LinearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
	}
	if m.ModelName == "" {
		m.ModelName = "linear"
	}
	return &m, nil
}

// Name identifies the model in logs.
func (m *LinearModel) Name() string { return m.ModelName }

// Score evaluates the model. Negative predictions are clamped to zero.
func (m *LinearModel) Score(_ context.Context, req models.PredictionRequest) (float64, error) {
	y := m.Intercept + m.Age*float64(req.Age) + m.Orders*float64(req.Orders)
	for field, level := range map[string]string{
		models.FieldGender:          req.Gender,
		models.FieldMaritalStatus:   req.MaritalStatus,
		models.FieldState:           req.State,
		models.FieldProductCategory: req.ProductCategory,
		models.FieldAgeGroup:        req.AgeGroup,
	} {
		y += m.Levels[field][level]
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("%w: non-finite prediction", ErrUnavailable)
	}
	return math.Max(y, 0), nil
}
