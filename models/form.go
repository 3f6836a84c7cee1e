package models

import (
	"fmt"
	"strings"

	"salescast/utils"
)

// Form field wire names. They double as the JSON keys of PredictionRequest.
const (
	FieldAge             = "age"
	FieldGender          = "gender"
	FieldMaritalStatus   = "maritalStatus"
	FieldState           = "state"
	FieldProductCategory = "productCategory"
	FieldAgeGroup        = "ageGroup"
	FieldOrders          = "orders"
	FieldFestival        = "festival"
)

// Vocabularies offered by the form.
var (
	Genders           = []string{"M", "F"}
	MaritalStatuses   = []string{"Married", "Single"}
	States            = []string{"Delhi", "Haryana", "Karnataka", "Uttar Pradesh", "Maharashtra"}
	ProductCategories = []string{"Electronics", "Clothing", "Home", "Food"}
	AgeGroups         = []string{"18-25", "26-35", "36-45", "46-55", "56-70"}
	Festivals         = []string{"Diwali", "Holi", "Christmas", "Eid", "None"}
)

// FieldNames lists the form fields in display order.
var FieldNames = []string{
	FieldAge, FieldGender, FieldMaritalStatus, FieldState,
	FieldProductCategory, FieldAgeGroup, FieldOrders, FieldFestival,
}

// FormInput holds the form exactly as edited. Every field is kept as text;
// numeric coercion happens once, in Request.
type FormInput struct {
	Age             string `json:"age"`
	Gender          string `json:"gender"`
	MaritalStatus   string `json:"maritalStatus"`
	State           string `json:"state"`
	ProductCategory string `json:"productCategory"`
	AgeGroup        string `json:"ageGroup"`
	Orders          string `json:"orders"`
	Festival        string `json:"festival"`
}

// NewFormInput returns the form as it looks when the view mounts.
func NewFormInput() FormInput {
	return FormInput{
		Gender:          "M",
		MaritalStatus:   "Married",
		State:           "Delhi",
		ProductCategory: "Electronics",
		AgeGroup:        "18-25",
		Festival:        "Diwali",
	}
}

func (f *FormInput) field(name string) (*string, error) {
	switch name {
	case FieldAge:
		return &f.Age, nil
	case FieldGender:
		return &f.Gender, nil
	case FieldMaritalStatus:
		return &f.MaritalStatus, nil
	case FieldState:
		return &f.State, nil
	case FieldProductCategory:
		return &f.ProductCategory, nil
	case FieldAgeGroup:
		return &f.AgeGroup, nil
	case FieldOrders:
		return &f.Orders, nil
	case FieldFestival:
		return &f.Festival, nil
	}
	return nil, fmt.Errorf("unknown form field %q", name)
}

// SetField edits one field by its wire name.
func (f *FormInput) SetField(name, value string) error {
	p, err := f.field(name)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

// Get returns the raw value of a field.
func (f FormInput) Get(name string) (string, error) {
	p, err := f.field(name)
	if err != nil {
		return "", err
	}
	return *p, nil
}

// Validate checks a form before submission: every required field is set,
// age is a positive integer and orders a non-negative one. The festival
// field is only required when requireFestival is set.
func (f FormInput) Validate(requireFestival bool) error {
	for _, name := range FieldNames {
		if name == FieldFestival && !requireFestival {
			continue
		}
		v, _ := f.Get(name)
		if strings.TrimSpace(v) == "" {
			return &ValidationError{Field: name, Reason: "is required"}
		}
	}

	age, err := utils.ParseNonNegativeInt(f.Age)
	if err != nil {
		return &ValidationError{Field: FieldAge, Reason: "must be a whole number", Err: err}
	}
	if age == 0 {
		return &ValidationError{Field: FieldAge, Reason: "must be greater than zero"}
	}
	if _, err := utils.ParseNonNegativeInt(f.Orders); err != nil {
		return &ValidationError{Field: FieldOrders, Reason: "must be a non-negative whole number", Err: err}
	}
	return nil
}

// Request normalizes the form into the canonical scoring payload. Numeric
// fields that are empty or malformed become 0; enum fields pass through.
func (f FormInput) Request() PredictionRequest {
	return PredictionRequest{
		Age:             utils.CoerceInt(f.Age),
		Gender:          f.Gender,
		MaritalStatus:   f.MaritalStatus,
		State:           f.State,
		ProductCategory: f.ProductCategory,
		AgeGroup:        f.AgeGroup,
		Orders:          utils.CoerceInt(f.Orders),
		Festival:        f.Festival,
	}
}
