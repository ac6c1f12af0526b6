// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"
)

// VerifyPasswordRequest carries the password for step-up re-verification.
type VerifyPasswordRequest struct {
	Password string `json:"password"`
}

// Validate checks the request fields.
func (r VerifyPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required),
	)
}

// VerifyTOTPRequest carries the one-time code for step-up re-verification.
type VerifyTOTPRequest struct {
	Code string `json:"code"`
}

// Validate checks the request fields.
func (r VerifyTOTPRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(6, 6)),
	)
}
