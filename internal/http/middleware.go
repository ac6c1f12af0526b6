// Package http provides the HTTP server, routing, and shared middleware.
package http

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/isohub/securitycore/internal/errors"
	"github.com/isohub/securitycore/internal/httputil"
	"github.com/isohub/securitycore/internal/identity"
)

// platformClaims is the payload of a platform session JWT. Tenant scoping is
// derived from these claims only, never from request parameters.
type platformClaims struct {
	AgencyID      string `json:"agency_id"`
	SubaccountID  string `json:"subaccount_id,omitempty"`
	IsSuperAdmin  bool   `json:"is_super_admin,omitempty"`
	IsAgencyAdmin bool   `json:"is_agency_admin,omitempty"`
	jwt.RegisteredClaims
}

// AuthenticationMiddleware validates the Bearer session JWT and stores the
// resolved identity in the request context for downstream handlers.
func AuthenticationMiddleware(secret string, logger *slog.Logger) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		tokenString := authHeader[len(bearerPrefix):]

		claims := &platformClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, apperrors.ErrUnauthorized
			}
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			logger.Debug("authentication failed: invalid session token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		id, err := resolveIdentity(claims)
		if err != nil {
			logger.Debug("authentication failed: malformed identity claims",
				slog.Any("error", err))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ctx := identity.WithIdentity(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func resolveIdentity(claims *platformClaims) (*identity.Identity, error) {
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperrors.Wrap(err, "invalid user id claim")
	}
	agencyID, err := uuid.Parse(claims.AgencyID)
	if err != nil {
		return nil, apperrors.Wrap(err, "invalid agency id claim")
	}

	id := &identity.Identity{
		UserID:        userID,
		AgencyID:      agencyID,
		IsSuperAdmin:  claims.IsSuperAdmin,
		IsAgencyAdmin: claims.IsAgencyAdmin,
	}
	if claims.SubaccountID != "" {
		subaccountID, err := uuid.Parse(claims.SubaccountID)
		if err != nil {
			return nil, apperrors.Wrap(err, "invalid subaccount id claim")
		}
		id.SubaccountID = &subaccountID
	}
	return id, nil
}

// CustomLoggerMiddleware logs HTTP requests with structured fields.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
