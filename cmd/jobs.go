package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/Vijay-48/LeadIntel/internal/search"
)

var (
	jobsCompanyID   string
	jobsCompanyName string
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Look up job postings for a company",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("search"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		jobs, err := search.NewAggregator(st).JobsFor(ctx, jobsCompanyID, jobsCompanyName)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"results": jobs, "count": len(jobs)})
	},
}

func init() {
	jobsCmd.Flags().StringVar(&jobsCompanyID, "company-id", "", "exact company id")
	jobsCmd.Flags().StringVar(&jobsCompanyName, "company-name", "", "company name substring")
	rootCmd.AddCommand(jobsCmd)
}
