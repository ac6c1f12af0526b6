package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	auditDomain "github.com/isohub/securitycore/internal/audit/domain"
	auditUseCase "github.com/isohub/securitycore/internal/audit/usecase"
)

// RunSecurityAssessment runs the read-only security assessment and prints the
// aggregated report.
func RunSecurityAssessment(
	ctx context.Context,
	useCase auditUseCase.AuditUseCase,
	logger *slog.Logger,
	w io.Writer,
	format string,
) error {
	logger.Info("running security assessment")

	report, err := useCase.RunAssessment(ctx)
	if err != nil {
		return fmt.Errorf("failed to run security assessment: %w", err)
	}

	if format == "json" {
		return outputAssessmentJSON(w, report)
	}
	outputAssessmentText(w, report)
	return nil
}

// outputAssessmentText outputs the report in human-readable text format.
func outputAssessmentText(w io.Writer, report *auditDomain.Report) {
	fmt.Fprintf(w, "Security Assessment (%s)\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Overall: %d/100 (grade %s)\n\n", report.OverallScore, report.Grade)

	for _, category := range report.Categories {
		fmt.Fprintf(w, "%-20s %3d/100  %s\n", category.Category, category.Score, category.Status)
		for _, issue := range category.Issues {
			fmt.Fprintf(w, "  ! %s\n", issue)
		}
		for _, recommendation := range category.Recommendations {
			fmt.Fprintf(w, "  - %s\n", recommendation)
		}
	}
	fmt.Fprintln(w, strings.Repeat("-", 40))
}

// outputAssessmentJSON outputs the report in JSON format for machine consumption.
func outputAssessmentJSON(w io.Writer, report *auditDomain.Report) error {
	jsonBytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(w, string(jsonBytes))
	return nil
}
