package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	auditHTTP "github.com/isohub/securitycore/internal/audit/http"
	"github.com/isohub/securitycore/internal/config"
	"github.com/isohub/securitycore/internal/metrics"
	stateHTTP "github.com/isohub/securitycore/internal/oauthstate/http"
	piiHTTP "github.com/isohub/securitycore/internal/pii/http"
	reauthHTTP "github.com/isohub/securitycore/internal/reauth/http"
	reauthUseCase "github.com/isohub/securitycore/internal/reauth/usecase"
	"github.com/isohub/securitycore/internal/tenant"
)

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// Handlers groups the route handlers the server exposes.
type Handlers struct {
	State  *stateHTTP.StateHandler
	Reauth *reauthHTTP.ReauthHandler
	PII    *piiHTTP.PIIHandler
	Audit  *auditHTTP.AuditHandler
	// ReauthUseCase backs the RequireReauth middleware on sensitive routes.
	ReauthUseCase reauthUseCase.ReauthUseCase
	// Tenant pins each request's database work to a connection carrying the
	// caller's tenant session variables.
	Tenant *tenant.Propagator
}

// NewServer creates the API server with all routes and middleware wired.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	metricsProvider *metrics.Provider,
	handlers Handlers,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	v1 := router.Group("/v1")
	v1.Use(AuthenticationMiddleware(cfg.JWTSecret, logger))
	v1.Use(TenantContextMiddleware(handlers.Tenant, logger))

	v1.POST("/oauth/state", handlers.State.GenerateHandler)
	v1.POST("/oauth/callback/validate", handlers.State.ValidateCallbackHandler)

	reauth := v1.Group("/reauth")
	if cfg.RateLimitEnabled {
		reauth.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}
	reauth.POST("/password", handlers.Reauth.VerifyPasswordHandler)
	reauth.POST("/totp", handlers.Reauth.VerifyTOTPHandler)

	pii := v1.Group("/pii")
	pii.POST("/encrypt", handlers.PII.EncryptHandler)
	pii.POST("/reveal", handlers.PII.RevealMaskedHandler)
	// Full plaintext reveal requires a fresh single-use step-up grant.
	pii.POST("/reveal/full",
		reauthHTTP.RequireReauth(handlers.ReauthUseCase, logger),
		handlers.PII.RevealFullHandler,
	)

	// The assessment exposes configuration weaknesses, so it sits behind a
	// fresh step-up grant in addition to the session token.
	v1.GET("/security/assessment",
		reauthHTTP.RequireReauth(handlers.ReauthUseCase, logger),
		handlers.Audit.AssessmentHandler,
	)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
