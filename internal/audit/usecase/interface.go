// Package usecase implements the read-only security assessment.
package usecase

import (
	"context"

	"github.com/isohub/securitycore/internal/audit/domain"
	userDomain "github.com/isohub/securitycore/internal/user/domain"
)

// UserSampler provides the bounded credential sample the assessment scores.
type UserSampler interface {
	SampleCredentials(ctx context.Context, limit int) ([]userDomain.CredentialSample, error)
}

// StateCounter reports OAuth state row counts for hygiene scoring.
type StateCounter interface {
	CountExpired(ctx context.Context) (int64, error)
}

// PolicyInspector reports row-level security coverage from the database catalog.
type PolicyInspector interface {
	TablesWithoutRLS(ctx context.Context) ([]string, error)
}

// AuditUseCase runs the point-in-time security assessment.
type AuditUseCase interface {
	// RunAssessment scores every category and aggregates the report. Category
	// check failures degrade that category to score 0 / status ERROR; the
	// report itself never fails on a check error.
	RunAssessment(ctx context.Context) (*domain.Report, error)
}
