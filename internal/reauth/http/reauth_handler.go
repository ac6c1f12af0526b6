// Package http provides HTTP handlers and middleware for step-up reauthentication.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/isohub/securitycore/internal/errors"
	"github.com/isohub/securitycore/internal/httputil"
	"github.com/isohub/securitycore/internal/identity"
	"github.com/isohub/securitycore/internal/reauth/http/dto"
	reauthUseCase "github.com/isohub/securitycore/internal/reauth/usecase"
	customValidation "github.com/isohub/securitycore/internal/validation"
)

// ReauthHandler handles HTTP requests for step-up reauthentication.
type ReauthHandler struct {
	useCase reauthUseCase.ReauthUseCase
	logger  *slog.Logger
}

// NewReauthHandler creates a new step-up reauthentication handler.
func NewReauthHandler(useCase reauthUseCase.ReauthUseCase, logger *slog.Logger) *ReauthHandler {
	return &ReauthHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// VerifyPasswordHandler re-proves identity with the account password.
// POST /v1/reauth/password
func (h *ReauthHandler) VerifyPasswordHandler(c *gin.Context) {
	id, ok := identity.FromContext(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.VerifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	grant, err := h.useCase.VerifyPassword(c.Request.Context(), id.UserID, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapGrant(grant))
}

// VerifyTOTPHandler re-proves identity with a one-time code.
// POST /v1/reauth/totp
func (h *ReauthHandler) VerifyTOTPHandler(c *gin.Context) {
	id, ok := identity.FromContext(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.VerifyTOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	grant, err := h.useCase.VerifyTOTP(c.Request.Context(), id.UserID, req.Code)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapGrant(grant))
}
