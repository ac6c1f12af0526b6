// Package http provides HTTP handlers for OAuth state token operations.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/isohub/securitycore/internal/errors"
	"github.com/isohub/securitycore/internal/httputil"
	"github.com/isohub/securitycore/internal/identity"
	stateDomain "github.com/isohub/securitycore/internal/oauthstate/domain"
	"github.com/isohub/securitycore/internal/oauthstate/http/dto"
	stateUseCase "github.com/isohub/securitycore/internal/oauthstate/usecase"
	customValidation "github.com/isohub/securitycore/internal/validation"
)

// StateHandler handles HTTP requests for OAuth state token operations.
type StateHandler struct {
	useCase stateUseCase.StateUseCase
	ttl     int64
	logger  *slog.Logger
}

// NewStateHandler creates a new OAuth state handler.
func NewStateHandler(useCase stateUseCase.StateUseCase, ttlSeconds int64, logger *slog.Logger) *StateHandler {
	return &StateHandler{
		useCase: useCase,
		ttl:     ttlSeconds,
		logger:  logger,
	}
}

// GenerateHandler issues a state token bound to the authenticated tenant.
// POST /v1/oauth/state
// The agency and user binding comes from the session identity, never from the
// request body.
func (h *StateHandler) GenerateHandler(c *gin.Context) {
	id, ok := identity.FromContext(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	token, err := h.useCase.GenerateState(c.Request.Context(), &stateDomain.GenerateStateInput{
		AgencyID: id.AgencyID,
		UserID:   id.UserID,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.GenerateStateResponse{
		State:     token,
		ExpiresIn: h.ttl,
	})
}

// ValidateCallbackHandler validates and consumes a state token received on an
// OAuth provider callback.
// POST /v1/oauth/callback/validate
//
// Every validation failure collapses to one generic "invalid or expired link"
// response. The five failure modes stay distinguishable server-side.
func (h *StateHandler) ValidateCallbackHandler(c *gin.Context) {
	var req dto.ValidateStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	validated, err := h.useCase.ValidateState(c.Request.Context(), req.State)
	if err != nil {
		// Expired and malformed states get the same generic response as
		// forgery and replay; nothing here should help an attacker triage.
		if errors.Is(err, stateDomain.ErrExpiredState) || errors.Is(err, stateDomain.ErrMalformedState) {
			err = apperrors.Wrap(apperrors.ErrSecurityViolation, "oauth state rejected")
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapValidatedState(validated))
}
