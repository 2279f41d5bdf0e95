package main

import (
	"fmt"

	"cashflow-sentinel/internal/bootstrap"
	"cashflow-sentinel/internal/config"
	"cashflow-sentinel/internal/generator"

	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	var (
		businesses int
		perBiz     int
		spikes     int
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Заполнить хранилище демо-бизнесами и транзакциями",
		Long: `Создает бизнесы с историей операций, в которую подмешаны крупные расходы.
Векторный индекс не трогается, после seed запустите reindex для нужных бизнесов.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := bootstrap.OpenStorage(config.Load())
			if err != nil {
				return err
			}
			defer repo.Close()

			created, err := generator.NewTransactionGenerator(seed).Seed(cmd.Context(), repo, businesses, perBiz, spikes)
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			for _, b := range created {
				fmt.Printf("business %s (user %s): %d transactions\n", b.ID, b.UserID, perBiz)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&businesses, "businesses", "b", 3, "number of businesses")
	cmd.Flags().IntVarP(&perBiz, "transactions", "n", 30, "transactions per business")
	cmd.Flags().IntVar(&spikes, "spikes", 1, "anomalous expenses per business")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 uses current time")
	return cmd
}
