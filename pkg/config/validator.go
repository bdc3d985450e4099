package config

import (
	"github.com/go-playground/validator/v10"
)

// OutputFormats lists the accepted translate.output_format values.
var OutputFormats = []string{"auto", "json", "yaml", "summary"}

// RegisterCustomValidators registers custom validation functions
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("output_format", validateOutputFormat)
}

func validateOutputFormat(fl validator.FieldLevel) bool {
	format := fl.Field().String()
	for _, f := range OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}
