package dto

// EncryptFieldResponse returns the storable encrypted blob.
type EncryptFieldResponse struct {
	FieldType      string `json:"field_type"`
	EncryptedValue string `json:"encrypted_value"`
}

// RevealFieldResponse returns the decrypted value in the requested display mode.
type RevealFieldResponse struct {
	FieldType string `json:"field_type"`
	Value     string `json:"value"`
	Mode      string `json:"mode"`
}
