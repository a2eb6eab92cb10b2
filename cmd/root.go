package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Vijay-48/LeadIntel/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "leadintel",
	Short: "Multi-source lead enrichment and search",
	Long:  "Loads Crunchbase, LinkedIn and Apollo exports into a document store, normalizes them into enriched lead records, and serves cross-source search.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
