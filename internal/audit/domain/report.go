// Package domain defines the security assessment report model.
package domain

import "time"

// Status is the outcome of one category check.
type Status string

const (
	// StatusOK means the check ran and found no critical issues.
	StatusOK Status = "OK"
	// StatusWarn means the check ran and found issues worth attention.
	StatusWarn Status = "WARN"
	// StatusError means the check itself failed; its score degrades to zero
	// rather than aborting the report.
	StatusError Status = "ERROR"
)

// Category names. Each contributes equally to the overall score.
const (
	CategoryAuthentication    = "authentication"
	CategoryDataProtection    = "data_protection"
	CategoryAPISecurity       = "api_security"
	CategoryAccessControl     = "access_control"
	CategoryEncryption        = "encryption"
	CategoryAuditLogging      = "audit_logging"
	CategoryInputValidation   = "input_validation"
	CategorySessionManagement = "session_management"
	CategoryErrorHandling     = "error_handling"
	CategorySecurityHeaders   = "security_headers"
)

// CategoryResult is one independently scored category.
type CategoryResult struct {
	Category        string   `json:"category"`
	Score           int      `json:"score"`
	Status          Status   `json:"status"`
	Issues          []string `json:"issues,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Report aggregates all category results. OverallScore is the unweighted mean
// of the category scores; Grade maps it through fixed thresholds.
type Report struct {
	GeneratedAt  time.Time        `json:"generated_at"`
	OverallScore int              `json:"overall_score"`
	Grade        string           `json:"grade"`
	Categories   []CategoryResult `json:"categories"`
}

// GradeFor maps a 0-100 score to a letter grade.
func GradeFor(score int) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 90:
		return "A"
	case score >= 85:
		return "A-"
	case score >= 80:
		return "B+"
	case score >= 75:
		return "B"
	case score >= 70:
		return "B-"
	case score >= 65:
		return "C+"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}
