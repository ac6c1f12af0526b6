// Package validation provides custom validation rules for the application.
package validation

import (
	"fmt"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/isohub/securitycore/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// allDigits reports whether s is non-empty and contains only ASCII digits.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DigitsExact validates that a string is exactly n ASCII digits.
func DigitsExact(n int) validation.Rule {
	return validation.NewStringRuleWithError(
		func(s string) bool {
			return allDigits(s) && len(s) == n
		},
		validation.NewError(
			"validation_digits_exact",
			fmt.Sprintf("must be exactly %d digits", n),
		),
	)
}

// DigitsBetween validates that a string is min..max ASCII digits.
func DigitsBetween(min, max int) validation.Rule {
	return validation.NewStringRuleWithError(
		func(s string) bool {
			return allDigits(s) && len(s) >= min && len(s) <= max
		},
		validation.NewError(
			"validation_digits_between",
			fmt.Sprintf("must be between %d and %d digits", min, max),
		),
	)
}

// NotBlank validates that a string is not empty after trimming whitespace.
// Pair with validation.Required: like all string rules, it skips empty values.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
