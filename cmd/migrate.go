package main

import (
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/pkg/errs"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			pool, cleanup, err := db.Connect(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer cleanup()

			m, err := db.NewMigrator(pool)
			if err != nil {
				return err
			}
			defer m.Close()

			return errs.Wrap(m.Up(cmd.Context()), "migrate")
		},
	}
}
