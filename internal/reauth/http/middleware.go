package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/isohub/securitycore/internal/errors"
	"github.com/isohub/securitycore/internal/httputil"
	"github.com/isohub/securitycore/internal/identity"
	reauthDomain "github.com/isohub/securitycore/internal/reauth/domain"
	reauthUseCase "github.com/isohub/securitycore/internal/reauth/usecase"
)

// ReauthTokenHeader supplies the step-up grant on sensitive mutations.
const ReauthTokenHeader = "X-Reauth-Token"

// RequireReauth gates a sensitive route on a valid step-up grant.
//
// The token is validated against the authenticated user and consumed before
// the handler runs, so a grant authorizes at most one sensitive action. The
// losing side of a concurrent double-submit sees the same 401 as a missing
// token.
//
// MUST be used after AuthenticationMiddleware.
func RequireReauth(useCase reauthUseCase.ReauthUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity.FromContext(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		token := c.GetHeader(ReauthTokenHeader)
		if token == "" {
			logger.Debug("sensitive route called without reauth token",
				slog.String("path", c.Request.URL.Path),
				slog.String("user_id", id.UserID.String()))
			httputil.HandleErrorGin(c, reauthDomain.ErrInvalidReauthToken, logger)
			c.Abort()
			return
		}

		_, consumed, err := useCase.ConsumeReauthToken(c.Request.Context(), token, &id.UserID)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}
		if !consumed {
			// Lost a race with another request holding the same grant.
			httputil.HandleErrorGin(c, reauthDomain.ErrInvalidReauthToken, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
