package config

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	if c.General == nil {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "general",
			Message:   "configuration must contain 'general' section",
		})
		return validationErrors
	}

	validationErrors = append(validationErrors, ValidateStruct(c.General, "general", "")...)

	if c.Firewall != nil {
		validationErrors = append(validationErrors, ValidateStruct(c.Firewall, "firewall", "")...)
	}

	if c.API != nil {
		validationErrors = append(validationErrors, ValidateStruct(c.API, "api", "")...)
		if c.API.Enable && c.API.Listen == "" {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: "api.listen",
				Message:   "listen address is required when api is enabled",
			})
		}
	}

	if c.General.DataDir != "" && c.General.RunDir != "" && c.GetAbsDataDir() == c.GetAbsRunDir() {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "general.run_dir",
			Message:   "run_dir must differ from data_dir",
		})
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

// convertValidatorErrors converts go-playground/validator errors to our ValidationError format
func convertValidatorErrors(err error, fieldPrefix string, itemName string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			if e.Field() != "" {
				// e.Field() returns the TOML tag name because we registered TagNameFunc
				if fieldPrefix != "" {
					fieldPath = fieldPrefix + "." + e.Field()
				} else {
					fieldPath = e.Field()
				}
			}

			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fieldPath,
				Message:   getValidationMessage(e),
			})
		}
	} else {
		validationErrors = append(validationErrors, ValidationError{
			ItemName:  itemName,
			FieldPath: fieldPrefix,
			Message:   err.Error(),
		})
	}

	return validationErrors
}
