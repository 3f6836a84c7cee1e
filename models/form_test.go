package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledForm() FormInput {
	f := NewFormInput()
	f.Age = "30"
	f.State = "Uttar Pradesh"
	f.ProductCategory = "Food"
	f.AgeGroup = "26-35"
	f.Orders = "5"
	return f
}

func TestNewFormInputDefaults(t *testing.T) {
	f := NewFormInput()
	assert.Equal(t, "M", f.Gender)
	assert.Equal(t, "Married", f.MaritalStatus)
	assert.Equal(t, "Delhi", f.State)
	assert.Equal(t, "Electronics", f.ProductCategory)
	assert.Equal(t, "18-25", f.AgeGroup)
	assert.Equal(t, "Diwali", f.Festival)
	assert.Empty(t, f.Age)
	assert.Empty(t, f.Orders)
}

func TestSetField(t *testing.T) {
	f := NewFormInput()
	require.NoError(t, f.SetField(FieldOrders, "12"))
	require.NoError(t, f.SetField(FieldGender, "F"))
	assert.Equal(t, "12", f.Orders)
	assert.Equal(t, "F", f.Gender)

	err := f.SetField("colour", "red")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		edit    func(*FormInput)
		field   string
		wantErr bool
	}{
		{"valid", func(*FormInput) {}, "", false},
		{"empty age", func(f *FormInput) { f.Age = "" }, FieldAge, true},
		{"blank state", func(f *FormInput) { f.State = "  " }, FieldState, true},
		{"zero age", func(f *FormInput) { f.Age = "0" }, FieldAge, true},
		{"malformed age", func(f *FormInput) { f.Age = "thirty" }, FieldAge, true},
		{"negative orders", func(f *FormInput) { f.Orders = "-2" }, FieldOrders, true},
		{"zero orders", func(f *FormInput) { f.Orders = "0" }, "", false},
		{"festival optional", func(f *FormInput) { f.Festival = "" }, "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := filledForm()
			c.edit(&f)
			err := f.Validate(false)
			if !c.wantErr {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, c.field, ve.Field)
		})
	}
}

func TestValidateRequiresFestivalWhenConfigured(t *testing.T) {
	f := filledForm()
	f.Festival = ""
	var ve *ValidationError
	require.True(t, errors.As(f.Validate(true), &ve))
	assert.Equal(t, FieldFestival, ve.Field)
}

func TestRequestSerializesNumbersAsIntegers(t *testing.T) {
	body, err := json.Marshal(filledForm().Request())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, float64(30), decoded["age"])
	assert.Equal(t, float64(5), decoded["orders"])
	assert.Equal(t, "Uttar Pradesh", decoded["state"])
	assert.Equal(t, "26-35", decoded["ageGroup"])
	assert.Contains(t, string(body), `"age":30`)
	assert.Contains(t, string(body), `"orders":5`)
}

func TestRequestCoercesMalformedNumbersToZero(t *testing.T) {
	f := filledForm()
	f.Age = ""
	f.Orders = "lots"
	req := f.Request()
	assert.Equal(t, 0, req.Age)
	assert.Equal(t, 0, req.Orders)
}

func TestRequestOmitsEmptyFestival(t *testing.T) {
	f := filledForm()
	f.Festival = ""
	body, err := json.Marshal(f.Request())
	require.NoError(t, err)
	assert.NotContains(t, string(body), "festival")
}

func TestPredictionString(t *testing.T) {
	p, err := NewPrediction(42.5)
	require.NoError(t, err)
	assert.Equal(t, "$42.50", p.String())

	_, err = NewPrediction(-1)
	assert.Error(t, err)
}
