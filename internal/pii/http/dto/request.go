// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/isohub/securitycore/internal/validation"
)

// Field type values accepted by the encrypt and reveal endpoints.
const (
	FieldTypeSSN           = "ssn"
	FieldTypeEIN           = "ein"
	FieldTypeBankAccount   = "bank_account"
	FieldTypeRoutingNumber = "routing_number"
)

// EncryptFieldRequest carries a plaintext PII value to be encrypted for storage.
type EncryptFieldRequest struct {
	FieldType string `json:"field_type"`
	Value     string `json:"value"`
}

// Validate checks the request fields.
func (r EncryptFieldRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FieldType,
			validation.Required,
			validation.By(validateFieldType),
		),
		validation.Field(&r.Value, validation.Required, customValidation.NotBlank),
	)
}

// RevealFieldRequest carries a stored encrypted blob to be decrypted for display.
type RevealFieldRequest struct {
	FieldType      string `json:"field_type"`
	EncryptedValue string `json:"encrypted_value"`
}

// Validate checks the request fields.
func (r RevealFieldRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FieldType,
			validation.Required,
			validation.By(validateFieldType),
		),
		validation.Field(&r.EncryptedValue, validation.Required, customValidation.NotBlank),
	)
}

// validateFieldType validates that the field type is a supported PII category.
func validateFieldType(value interface{}) error {
	fieldType, ok := value.(string)
	if !ok {
		return validation.NewError("validation_field_type", "must be a string")
	}

	switch fieldType {
	case FieldTypeSSN, FieldTypeEIN, FieldTypeBankAccount, FieldTypeRoutingNumber:
		return nil
	default:
		return validation.NewError("validation_field_type",
			"must be one of: ssn, ein, bank_account, routing_number")
	}
}
