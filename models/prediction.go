package models

import "fmt"

// PredictionRequest is the body of POST /predict.
type PredictionRequest struct {
	Age             int    `json:"age"`
	Gender          string `json:"gender"`
	MaritalStatus   string `json:"maritalStatus"`
	State           string `json:"state"`
	ProductCategory string `json:"productCategory"`
	AgeGroup        string `json:"ageGroup"`
	Orders          int    `json:"orders"`
	Festival        string `json:"festival,omitempty"`
}

// PredictionResponse is the body returned by the scoring endpoint and the
// shape of predict.json. Exactly one of the fields is set.
type PredictionResponse struct {
	Prediction *float64 `json:"prediction,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Prediction is a predicted sales amount. It is a value: each attempt
// produces a new one.
type Prediction struct {
	Amount float64 `json:"amount"`
}

// NewPrediction rejects negative amounts.
func NewPrediction(amount float64) (Prediction, error) {
	if amount < 0 {
		return Prediction{}, fmt.Errorf("prediction %v is negative", amount)
	}
	return Prediction{Amount: amount}, nil
}

// String renders the amount as currency, e.g. "$42.50".
func (p Prediction) String() string {
	return fmt.Sprintf("$%.2f", p.Amount)
}
