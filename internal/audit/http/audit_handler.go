// Package http provides the HTTP handler for the security assessment endpoint.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	auditUseCase "github.com/isohub/securitycore/internal/audit/usecase"
	apperrors "github.com/isohub/securitycore/internal/errors"
	"github.com/isohub/securitycore/internal/httputil"
	"github.com/isohub/securitycore/internal/identity"
)

// AuditHandler handles HTTP requests for the security assessment.
type AuditHandler struct {
	useCase auditUseCase.AuditUseCase
	logger  *slog.Logger
}

// NewAuditHandler creates a new security assessment handler.
func NewAuditHandler(useCase auditUseCase.AuditUseCase, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// AssessmentHandler runs the read-only security assessment.
// GET /v1/security/assessment - restricted to agency admins and super admins.
func (h *AuditHandler) AssessmentHandler(c *gin.Context) {
	id, ok := identity.FromContext(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}
	if !id.IsSuperAdmin && !id.IsAgencyAdmin {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	report, err := h.useCase.RunAssessment(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, report)
}
