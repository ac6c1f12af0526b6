// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/isohub/securitycore/internal/validation"
)

// ValidateStateRequest carries the state parameter received on an OAuth
// callback, to be validated before any authorization-code exchange.
type ValidateStateRequest struct {
	State string `json:"state"`
}

// Validate checks the request fields.
func (r ValidateStateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.State, validation.Required, customValidation.NotBlank),
	)
}
