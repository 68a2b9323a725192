package main

import (
	"booking-orchestrator/cmd/bootstrap"

	"github.com/spf13/cobra"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run reminder, webhook retry and outbox relay processing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd.Context(), bootstrap.WorkerModule)
		},
	}
}
