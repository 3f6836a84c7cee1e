package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"salescast/models"
)

// flagName turns a form field name into a flag name: maritalStatus
// becomes marital-status.
func flagName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// addFormFlags registers one string flag per form field, defaulting to the
// form's initial values.
func addFormFlags(cmd *cobra.Command) {
	defaults := models.NewFormInput()
	for _, field := range models.FieldNames {
		def, _ := defaults.Get(field)
		cmd.Flags().String(flagName(field), def, formFlagUsage(field))
	}
}

func formFlagUsage(field string) string {
	switch field {
	case models.FieldGender:
		return "Gender: " + strings.Join(models.Genders, ", ")
	case models.FieldMaritalStatus:
		return "Marital status: " + strings.Join(models.MaritalStatuses, ", ")
	case models.FieldState:
		return "State: " + strings.Join(models.States, ", ")
	case models.FieldProductCategory:
		return "Product category: " + strings.Join(models.ProductCategories, ", ")
	case models.FieldAgeGroup:
		return "Age group: " + strings.Join(models.AgeGroups, ", ")
	case models.FieldFestival:
		return "Festival: " + strings.Join(models.Festivals, ", ")
	case models.FieldAge:
		return "Customer age"
	case models.FieldOrders:
		return "Number of orders"
	}
	return field
}

// fieldSetter is satisfied by *models.FormInput and *workflow.Workflow.
type fieldSetter interface {
	SetField(name, value string) error
}

// applyFormFlags copies the flags the user set onto dst, leaving the rest
// at their form defaults.
func applyFormFlags(cmd *cobra.Command, dst fieldSetter) error {
	for _, field := range models.FieldNames {
		name := flagName(field)
		if !cmd.Flags().Changed(name) {
			continue
		}
		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return err
		}
		if err := dst.SetField(field, value); err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
	}
	return nil
}
