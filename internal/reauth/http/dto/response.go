package dto

import (
	"github.com/isohub/securitycore/internal/reauth/domain"
)

// GrantResponse returns an issued step-up grant.
type GrantResponse struct {
	ReauthToken string `json:"reauth_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// MapGrant converts a domain grant to its response form.
func MapGrant(grant *domain.Grant) GrantResponse {
	return GrantResponse{
		ReauthToken: grant.Token,
		ExpiresIn:   grant.ExpiresIn,
	}
}
