package main

import (
	"fmt"

	"cashflow-sentinel/internal/bootstrap"
	"cashflow-sentinel/internal/retrieval"
	"cashflow-sentinel/internal/services"

	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search [owner-id] [query]",
		Short: "Семантический поиск по транзакциям пользователя",
		Example: `  finctl search user-1 "beli kopi"
  finctl search user-1 "gaji karyawan" --limit 10 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(cmd.Context(), func(core *bootstrap.Core) error {
				svc := retrieval.NewService(core.TransactionMemory, core.ChatMemory)
				hits, err := svc.SearchTransactions(cmd.Context(), args[0], args[1], limit)
				if err != nil {
					return fmt.Errorf("search failed: %w", err)
				}
				if asJSON {
					return printJSON(hits)
				}
				if len(hits) == 0 {
					fmt.Println("No results")
					return nil
				}
				for i, h := range hits {
					fmt.Printf("%d. [%.4f] %s\n", i+1, h.Distance, h.Text)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", retrieval.DefaultSearchLimit, "maximum results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [owner-id]",
		Short: "История чата пользователя в хронологическом порядке",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(cmd.Context(), func(core *bootstrap.Core) error {
				svc := retrieval.NewService(core.TransactionMemory, core.ChatMemory)
				turns, err := svc.History(cmd.Context(), args[0], limit)
				if err != nil {
					return fmt.Errorf("history failed: %w", err)
				}
				for _, t := range turns {
					fmt.Printf("%s %-9s %s\n", t.Timestamp.Format("2006-01-02 15:04:05"), t.Role, t.Content)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", retrieval.DefaultHistoryLimit, "maximum turns")
	return cmd
}

func reindexCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "reindex [business-id]",
		Short: "Заново проиндексировать последние транзакции бизнеса",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(cmd.Context(), func(core *bootstrap.Core) error {
				svc := services.NewTransactionService(core.Repo, serviceName, core.Log,
					services.WithVectorIndex(core.TransactionMemory))
				n, err := svc.Reindex(cmd.Context(), args[0], limit)
				if err != nil {
					return fmt.Errorf("reindex failed: %w", err)
				}
				fmt.Printf("Reindexed %d transactions\n", n)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 500, "transactions to reindex")
	return cmd
}
