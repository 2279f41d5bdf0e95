package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"cashflow-sentinel/internal/bootstrap"
	"cashflow-sentinel/internal/config"
	"cashflow-sentinel/internal/logger"

	"github.com/spf13/cobra"
)

const serviceName = "finctl"

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "finctl",
		Short:   "Операторские команды дашборда: детекция, память, демо-данные",
		Version: Version,
	}

	rootCmd.AddCommand(detectCmd())
	rootCmd.AddCommand(detectBusinessCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(reindexCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withCore открывает все зависимости на время одной команды
func withCore(ctx context.Context, fn func(core *bootstrap.Core) error) error {
	cfg := config.Load()
	log := logger.NewWithWriter(os.Stderr).With().Str("service", serviceName).Logger()

	core, err := bootstrap.NewCore(ctx, cfg, serviceName, log)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer core.Close()

	return fn(core)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
