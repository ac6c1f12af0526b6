package dto

import (
	stateDomain "github.com/isohub/securitycore/internal/oauthstate/domain"
)

// GenerateStateResponse returns the issued state token and its lifetime.
type GenerateStateResponse struct {
	State     string `json:"state"`
	ExpiresIn int64  `json:"expires_in"`
}

// ValidatedStateResponse returns the tenant binding a validated state proves.
type ValidatedStateResponse struct {
	Nonce    string `json:"nonce"`
	AgencyID string `json:"agency_id"`
	UserID   string `json:"user_id"`
}

// MapValidatedState converts a validated state to its response form.
func MapValidatedState(state *stateDomain.ValidatedState) ValidatedStateResponse {
	return ValidatedStateResponse{
		Nonce:    state.Nonce,
		AgencyID: state.AgencyID.String(),
		UserID:   state.UserID.String(),
	}
}
