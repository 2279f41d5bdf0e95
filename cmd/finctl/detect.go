package main

import (
	"fmt"

	"cashflow-sentinel/internal/bootstrap"

	"github.com/spf13/cobra"
)

func detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Проверить очередную пачку бизнесов",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(cmd.Context(), func(core *bootstrap.Core) error {
				n, err := core.Orchestrator.RunDetection(cmd.Context())
				if err != nil {
					return fmt.Errorf("detection failed: %w", err)
				}
				fmt.Printf("Anomaly detection completed, %d new alerts\n", n)
				return nil
			})
		},
	}
}

func detectBusinessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect-business [business-id]",
		Short: "Проверить один бизнес без учета троттлинга",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(cmd.Context(), func(core *bootstrap.Core) error {
				n, err := core.Orchestrator.RunDetectionForBusiness(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("detection failed: %w", err)
				}
				fmt.Printf("Business %s checked, %d new alerts\n", args[0], n)
				return nil
			})
		},
	}
}
