package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"salescast/models"
	"salescast/utils"
)

// RequiredFields must be present in every scoring request.
var RequiredFields = []string{
	models.FieldAge, models.FieldGender, models.FieldMaritalStatus, models.FieldState,
	models.FieldProductCategory, models.FieldAgeGroup, models.FieldOrders,
}

// AgeRange is an inclusive age span.
type AgeRange struct {
	Min, Max int
}

// AgeGroupRanges maps each age group to the ages it admits.
var AgeGroupRanges = map[string]AgeRange{
	"18-25": {18, 25},
	"26-35": {26, 35},
	"36-45": {36, 45},
	"46-55": {46, 55},
	"56-70": {56, 70},
}

var (
	genders           = utils.NewStringSet(models.Genders...)
	maritalStatuses   = utils.NewStringSet(models.MaritalStatuses...)
	states            = utils.NewStringSet(models.States...)
	productCategories = utils.NewStringSet(models.ProductCategories...)
	festivals         = utils.NewStringSet(models.Festivals...)

	genderAliases = map[string]string{"Female": "F", "Male": "M"}
)

// InvalidRequestError is a client mistake; the server answers 400.
type InvalidRequestError struct {
	Message string
}

func (e *InvalidRequestError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &InvalidRequestError{Message: fmt.Sprintf(format, args...)}
}

// ParseRequest validates a decoded JSON body and returns the typed request.
// Numeric fields may arrive as numbers or numeric strings.
func ParseRequest(raw map[string]any) (models.PredictionRequest, error) {
	var missing []string
	for _, f := range RequiredFields {
		if v, ok := raw[f]; !ok || v == nil {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return models.PredictionRequest{}, invalid("Missing required fields: %s", strings.Join(missing, ", "))
	}

	age, ageOK := wholeNumber(raw[models.FieldAge])
	orders, ordersOK := wholeNumber(raw[models.FieldOrders])
	if !ageOK || !ordersOK {
		return models.PredictionRequest{}, invalid("Invalid numeric values for age or orders")
	}
	if orders < 0 {
		return models.PredictionRequest{}, invalid("Invalid orders: %d is negative", orders)
	}

	req := models.PredictionRequest{Age: age, Orders: orders}
	text := map[string]*string{
		models.FieldGender:          &req.Gender,
		models.FieldMaritalStatus:   &req.MaritalStatus,
		models.FieldState:           &req.State,
		models.FieldProductCategory: &req.ProductCategory,
		models.FieldAgeGroup:        &req.AgeGroup,
	}
	for name, dst := range text {
		s, ok := raw[name].(string)
		if !ok {
			return models.PredictionRequest{}, invalid("Invalid %s value: %v", name, raw[name])
		}
		*dst = s
	}
	if v, ok := raw[models.FieldFestival]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return models.PredictionRequest{}, invalid("Invalid festival value: %v", v)
		}
		req.Festival = s
	}

	span, ok := AgeGroupRanges[req.AgeGroup]
	if !ok {
		return models.PredictionRequest{}, invalid("Invalid ageGroup: %s, expected: %v", req.AgeGroup, models.AgeGroups)
	}
	if req.Age < span.Min || req.Age > span.Max {
		return models.PredictionRequest{}, invalid("Age %d does not match ageGroup %s (expected %d-%d)", req.Age, req.AgeGroup, span.Min, span.Max)
	}
	if req.Age < 18 && req.MaritalStatus == "Married" {
		return models.PredictionRequest{}, invalid("Invalid maritalStatus: Married not allowed for age < 18")
	}

	if alias, ok := genderAliases[req.Gender]; ok {
		req.Gender = alias
	}
	checks := []struct {
		field string
		value string
		set   utils.StringSet
	}{
		{models.FieldGender, req.Gender, genders},
		{models.FieldMaritalStatus, req.MaritalStatus, maritalStatuses},
		{models.FieldState, req.State, states},
		{models.FieldProductCategory, req.ProductCategory, productCategories},
	}
	for _, c := range checks {
		if !c.set.Has(c.value) {
			return models.PredictionRequest{}, invalid("Invalid %s value: %s, expected: %v", c.field, c.value, c.set.Sorted())
		}
	}
	if req.Festival != "" && !festivals.Has(req.Festival) {
		return models.PredictionRequest{}, invalid("Invalid festival value: %s, expected: %v", req.Festival, festivals.Sorted())
	}
	return req, nil
}

func wholeNumber(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		return n, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
