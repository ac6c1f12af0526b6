package main

import (
	"context"
	"database/sql"

	"github.com/urfave/cli/v3"

	"github.com/isohub/securitycore/cmd/app/commands"
	"github.com/isohub/securitycore/internal/app"
	"github.com/isohub/securitycore/internal/config"
)

func getSecurityCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "clean-expired-states",
			Usage: "Delete expired OAuth state rows",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many states would be deleted without deleting",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				stateUseCase, err := container.StateUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanExpiredStates(
					ctx,
					stateUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "security-assessment",
			Usage: "Run the read-only security assessment and print the report",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				auditUseCase, err := container.AuditUseCase()
				if err != nil {
					return err
				}

				propagator, err := container.TenantPropagator()
				if err != nil {
					return err
				}

				// The assessment counts rows across every agency, so it runs
				// under the cross-tenant admin scope.
				return propagator.WithSuperAdminContext(ctx, func(ctx context.Context, _ *sql.Conn) error {
					return commands.RunSecurityAssessment(
						ctx,
						auditUseCase,
						container.Logger(),
						commands.DefaultIO().Writer,
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "generate-encryption-key",
			Usage: "Generate a random hex-encoded AES-256 key for PII encryption",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunGenerateEncryptionKey(commands.DefaultIO().Writer)
			},
		},
	}
}
