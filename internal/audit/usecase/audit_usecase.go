package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/isohub/securitycore/internal/audit/domain"
	"github.com/isohub/securitycore/internal/config"
)

const categoryCount = 10

// auditUseCase implements AuditUseCase.
type auditUseCase struct {
	cfg    *config.Config
	users  UserSampler
	states StateCounter
	rls    PolicyInspector
	logger *slog.Logger
}

// NewAuditUseCase creates an AuditUseCase with the given dependencies.
func NewAuditUseCase(
	cfg *config.Config,
	users UserSampler,
	states StateCounter,
	rls PolicyInspector,
	logger *slog.Logger,
) AuditUseCase {
	return &auditUseCase{
		cfg:    cfg,
		users:  users,
		states: states,
		rls:    rls,
		logger: logger,
	}
}

// RunAssessment runs every category check concurrently and aggregates the
// report. The checks are read-only introspection: they sample configuration
// and bounded row counts, never mutate anything, and a failing check degrades
// to score 0 / ERROR instead of aborting the report.
func (u *auditUseCase) RunAssessment(ctx context.Context) (*domain.Report, error) {
	checks := []func(ctx context.Context) domain.CategoryResult{
		u.checkAuthentication,
		u.checkDataProtection,
		u.checkAPISecurity,
		u.checkAccessControl,
		u.checkEncryption,
		u.checkAuditLogging,
		u.checkInputValidation,
		u.checkSessionManagement,
		u.checkErrorHandling,
		u.checkSecurityHeaders,
	}

	results := make([]domain.CategoryResult, categoryCount)
	g, gctx := errgroup.WithContext(ctx)
	for i, check := range checks {
		g.Go(func() error {
			results[i] = check(gctx)
			return nil
		})
	}
	// Checks never return errors; degradation happens inside each check.
	_ = g.Wait()

	total := 0
	for _, result := range results {
		total += result.Score
	}
	overall := total / categoryCount

	report := &domain.Report{
		GeneratedAt:  time.Now().UTC(),
		OverallScore: overall,
		Grade:        domain.GradeFor(overall),
		Categories:   results,
	}

	u.logger.Info("security assessment completed",
		slog.Int("overall_score", overall),
		slog.String("grade", report.Grade),
	)

	return report, nil
}

// checkAuthentication samples stored credential hashes and scores the fraction
// using a modern hash plus TOTP adoption.
func (u *auditUseCase) checkAuthentication(ctx context.Context) domain.CategoryResult {
	result := domain.CategoryResult{Category: domain.CategoryAuthentication, Status: domain.StatusOK}

	samples, err := u.users.SampleCredentials(ctx, u.cfg.AuditSampleSize)
	if err != nil {
		return u.degrade(result, err)
	}
	if len(samples) == 0 {
		result.Score = 100
		result.Recommendations = append(result.Recommendations, "no user accounts to assess yet")
		return result
	}

	modern, legacy, weak, totpEnabled := 0, 0, 0, 0
	for _, sample := range samples {
		switch {
		case strings.HasPrefix(sample.PasswordHash, "$argon2"):
			modern++
		case strings.HasPrefix(sample.PasswordHash, "$2a$"),
			strings.HasPrefix(sample.PasswordHash, "$2b$"),
			strings.HasPrefix(sample.PasswordHash, "$2y$"):
			legacy++
		default:
			weak++
		}
		if sample.TOTPEnabled {
			totpEnabled++
		}
	}

	// Modern hashes are full credit, bcrypt is most of it, anything else none.
	hashScore := (modern*100 + legacy*80) / len(samples)
	totpScore := totpEnabled * 100 / len(samples)
	result.Score = (hashScore*7 + totpScore*3) / 10

	if weak > 0 {
		result.Status = domain.StatusWarn
		result.Issues = append(result.Issues,
			fmt.Sprintf("%d of %d sampled accounts have unrecognized password hash format", weak, len(samples)))
	}
	if legacy > 0 {
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("%d accounts still use bcrypt; hashes upgrade on next password change", legacy))
	}
	if totpScore < 50 {
		result.Recommendations = append(result.Recommendations, "TOTP adoption is below 50%; consider an enrollment campaign")
	}
	return result
}

// checkDataProtection scores the PII encryption key source.
func (u *auditUseCase) checkDataProtection(_ context.Context) domain.CategoryResult {
	result := domain.CategoryResult{Category: domain.CategoryDataProtection, Status: domain.StatusOK}

	switch {
	case u.cfg.PIIKMSKeyURI != "":
		result.Score = 100
	case u.cfg.PIIEncryptionKey != "":
		result.Score = 85
		result.Recommendations = append(result.Recommendations,
			"PII key is env-provided; a KMS-wrapped key removes plaintext key material from the environment")
	default:
		result.Score = 30
		result.Status = domain.StatusWarn
		result.Issues = append(result.Issues,
			"no PII encryption key configured; an ephemeral process key is in use and encrypted data will not survive a restart")
	}
	return result
}

// checkAPISecurity scores rate limiting on the step-up verification endpoints.
func (u *auditUseCase) checkAPISecurity(_ context.Context) domain.CategoryResult {
	result := domain.CategoryResult{Category: domain.CategoryAPISecurity, Status: domain.StatusOK}

	if !u.cfg.RateLimitEnabled {
		result.Score = 40
		result.Status = domain.StatusWarn
		result.Issues = append(result.Issues,
			"rate limiting is disabled; step-up verification endpoints are open to credential brute force")
		return result
	}

	result.Score = 100
	if u.cfg.RateLimitRequestsPerSec > 10 {
		result.Score = 80
		result.Recommendations = append(result.Recommendations,
			"step-up rate limit above 10 req/s per user is generous for a human re-proof flow")
	}
	return result
}

// checkAccessControl inspects the database catalog for tenant tables without
// row-level security enabled.
func (u *auditUseCase) checkAccessControl(ctx context.Context) domain.CategoryResult {
	result := domain.CategoryResult{Category: domain.CategoryAccessControl, Status: domain.StatusOK}

	unprotected, err := u.rls.TablesWithoutRLS(ctx)
	if err != nil {
		return u.degrade(result, err)
	}

	if len(unprotected) == 0 {
		result.Score = 100
		return result
	}

	result.Score = max(0, 100-len(unprotected)*25)
	result.Status = domain.StatusWarn
	result.Issues = append(result.Issues,
		fmt.Sprintf("tables without row-level security: %s", strings.Join(unprotected, ", ")))
	result.Recommendations = append(result.Recommendations,
		"enable RLS and add tenant policies reading the app.current_agency_id session variable")
	return result
}

// checkEncryption validates the AES key configuration shape.
func (u *auditUseCase) checkEncryption(_ context.Context) domain.CategoryResult {
	result := domain.CategoryResult{Category: domain.CategoryEncryption, Status: domain.StatusOK}

	if u.cfg.PIIEncryptionKey == "" && u.cfg.PIIKMSKeyURI == "" {
		result.Score = 30
		result.Status = domain.StatusWarn
		result.Issues = append(result.Issues, "AES-256-GCM key is ephemeral for this process")
		return result
	}

	result.Score = 100
	return result
}

// checkAuditLogging scores observability of security events.
func (u *auditUseCase) checkAuditLogging(_ context.Context) domain.CategoryResult {
	result := domain.CategoryResult{Category: domain.CategoryAuditLogging, Status: domain.StatusOK}

	result.Score = 100
	if !u.cfg.MetricsEnabled {
		result.Score = 60
		result.Status = domain.StatusWarn
		result.Issues = append(result.Issues,
			"metrics are disabled; security events (replay, forgery, step-up failures) are logged but not counted")
	}
	return result
}

// checkInputValidation scores the state-token hygiene that validation depends
// on: a backlog of expired, never-consumed state rows suggests callbacks are
// abandoning flows without validation.
func (u *auditUseCase) checkInputValidation(ctx context.Context) domain.CategoryResult {
	result := domain.CategoryResult{Category: domain.CategoryInputValidation, Status: domain.StatusOK}

	expired, err := u.states.CountExpired(ctx)
	if err != nil {
		return u.degrade(result, err)
	}

	result.Score = 100
	if expired > 1000 {
		result.Score = 75
		result.Status = domain.StatusWarn
		result.Issues = append(result.Issues,
			fmt.Sprintf("%d expired OAuth state rows awaiting cleanup", expired))
		result.Recommendations = append(result.Recommendations,
			"verify the periodic state cleanup job is running")
	}
	return result
}

// checkSessionManagement scores token lifetimes against their intended bounds.
func (u *auditUseCase) checkSessionManagement(_ context.Context) domain.CategoryResult {
	result := domain.CategoryResult{Category: domain.CategorySessionManagement, Status: domain.StatusOK}

	result.Score = 100
	if u.cfg.ReauthTokenTTL > 5*time.Minute {
		result.Score -= 25
		result.Status = domain.StatusWarn
		result.Issues = append(result.Issues,
			fmt.Sprintf("reauth token TTL %s exceeds the intended 5 minute bound", u.cfg.ReauthTokenTTL))
	}
	if u.cfg.OAuthStateTTL > 10*time.Minute {
		result.Score -= 25
		result.Status = domain.StatusWarn
		result.Issues = append(result.Issues,
			fmt.Sprintf("OAuth state TTL %s exceeds the intended 10 minute bound", u.cfg.OAuthStateTTL))
	}
	if len(u.cfg.JWTSecret) < 32 {
		result.Score -= 25
		result.Status = domain.StatusWarn
		result.Issues = append(result.Issues, "JWT secret is shorter than 32 bytes")
	}
	result.Score = max(0, result.Score)
	return result
}

// checkErrorHandling scores how much internal detail responses can leak.
func (u *auditUseCase) checkErrorHandling(_ context.Context) domain.CategoryResult {
	result := domain.CategoryResult{Category: domain.CategoryErrorHandling, Status: domain.StatusOK}

	result.Score = 100
	if u.cfg.GetGinMode() == "debug" {
		result.Score = 70
		result.Status = domain.StatusWarn
		result.Issues = append(result.Issues,
			"HTTP layer runs in debug mode; error responses may include internal detail")
	}
	return result
}

// checkSecurityHeaders scores the cross-origin configuration.
func (u *auditUseCase) checkSecurityHeaders(_ context.Context) domain.CategoryResult {
	result := domain.CategoryResult{Category: domain.CategorySecurityHeaders, Status: domain.StatusOK}

	result.Score = 100
	if u.cfg.CORSEnabled {
		if u.cfg.CORSAllowOrigins == "" || strings.Contains(u.cfg.CORSAllowOrigins, "*") {
			result.Score = 50
			result.Status = domain.StatusWarn
			result.Issues = append(result.Issues, "CORS is enabled with a wildcard or empty origin list")
		}
	}
	return result
}

// degrade converts a check failure into a zero-score ERROR result.
func (u *auditUseCase) degrade(result domain.CategoryResult, err error) domain.CategoryResult {
	u.logger.Error("security assessment check failed",
		slog.String("category", result.Category),
		slog.Any("error", err),
	)
	result.Score = 0
	result.Status = domain.StatusError
	result.Issues = append(result.Issues, "check failed: "+err.Error())
	return result
}
