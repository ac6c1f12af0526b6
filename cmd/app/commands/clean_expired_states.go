package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	stateUseCase "github.com/isohub/securitycore/internal/oauthstate/usecase"
)

// RunCleanExpiredStates deletes OAuth state rows past their expiry.
// Supports dry-run mode to preview the deletion count and both text/JSON
// output formats. Idempotent and safe to run while the server is serving
// validations.
func RunCleanExpiredStates(
	ctx context.Context,
	useCase stateUseCase.StateUseCase,
	logger *slog.Logger,
	w io.Writer,
	dryRun bool,
	format string,
) error {
	logger.Info("cleaning expired oauth states", slog.Bool("dry_run", dryRun))

	var count int64
	var err error
	if dryRun {
		count, err = useCase.CountExpired(ctx)
	} else {
		count, err = useCase.CleanupExpired(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to cleanup expired oauth states: %w", err)
	}

	if format == "json" {
		if err := outputCleanStatesJSON(w, count, dryRun); err != nil {
			return err
		}
	} else {
		outputCleanStatesText(w, count, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputCleanStatesText outputs the result in human-readable text format.
func outputCleanStatesText(w io.Writer, count int64, dryRun bool) {
	if dryRun {
		fmt.Fprintf(w, "Dry-run mode: Would delete %d expired oauth state(s)\n", count)
	} else {
		fmt.Fprintf(w, "Successfully deleted %d expired oauth state(s)\n", count)
	}
}

// outputCleanStatesJSON outputs the result in JSON format for machine consumption.
func outputCleanStatesJSON(w io.Writer, count int64, dryRun bool) error {
	result := map[string]any{
		"count":   count,
		"dry_run": dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(w, string(jsonBytes))
	return nil
}
