// Package utils provides small validation helpers shared across modules.
package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/isupersid/stalker-test-client/pkg/errors"
)

// Validator holds the singleton instance of the validator.
var defaultValidator *validator.Validate

// macHexPattern matches 12 hex digits with no separators.
var macHexPattern = regexp.MustCompile(`^[0-9A-Fa-f]{12}$`)

func init() {
	defaultValidator = validator.New()
	defaultValidator.RegisterValidation("mac12", validateMAC)
}

// ValidateStruct validates a struct using the default validator.
// It returns a kind-tagged ProbeError if validation fails.
func ValidateStruct(s interface{}) error {
	if err := defaultValidator.Struct(s); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return errors.New(errors.KindConfig, "configuration validation failed").WithCause(err)
		}
		details := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			details = append(details, fmt.Sprintf("%s %s", fe.Field(), formatValidationError(fe)))
		}
		return errors.Newf(errors.KindConfig, "invalid configuration: %s", strings.Join(details, "; "))
	}
	return nil
}

// validateMAC is a custom validation function for MAC addresses. It accepts
// colon, hyphen, dot or no separators, as long as 12 hex digits remain.
func validateMAC(fl validator.FieldLevel) bool {
	return IsMACLike(fl.Field().String())
}

// IsMACLike reports whether s contains exactly 12 hex digits once common
// separators are stripped.
func IsMACLike(s string) bool {
	clean := strings.NewReplacer(":", "", "-", "", ".", "").Replace(strings.TrimSpace(s))
	return macHexPattern.MatchString(clean)
}

// formatValidationError creates a user-friendly error message for a validation error.
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "mac12":
		return "must be a MAC address (12 hex digits)"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}
