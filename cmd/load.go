package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Vijay-48/LeadIntel/internal/ingest"
)

var (
	loadOnly  string
	loadForce bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load source exports into the document store",
	Long:  "Ingests the Crunchbase JSON dumps, LinkedIn CSV dumps and Apollo CSV exports from the data directory. Safe to re-run: every write is a keyed upsert.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("load"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		loader := ingest.NewLoader(st, cfg.Data.Dir, cfg.Data.BatchSize)

		switch loadOnly {
		case "":
			if loadForce {
				if err := loader.LoadCrunchbaseJSON(ctx); err != nil {
					return err
				}
				if err := loader.LoadLinkedInCSV(ctx); err != nil {
					return err
				}
			} else if err := loader.LoadAll(ctx); err != nil {
				return err
			}
			if err := loader.LoadApolloCSV(ctx); err != nil {
				return err
			}
		case "crunchbase":
			if err := loader.LoadCrunchbaseJSON(ctx); err != nil {
				return err
			}
		case "linkedin":
			if err := loader.LoadLinkedInCSV(ctx); err != nil {
				return err
			}
		case "apollo":
			if err := loader.LoadApolloCSV(ctx); err != nil {
				return err
			}
		default:
			return eris.Errorf("unknown source %q (want crunchbase, linkedin or apollo)", loadOnly)
		}

		zap.L().Info("load complete", zap.String("data_dir", cfg.Data.Dir))
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadOnly, "only", "", "load a single source: crunchbase, linkedin or apollo")
	loadCmd.Flags().BoolVar(&loadForce, "force", false, "reload even when the store already holds data")
	rootCmd.AddCommand(loadCmd)
}
