package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Vijay-48/LeadIntel/internal/search"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-collection document counts",
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

		counts, err := search.NewAggregator(st).DataStatus(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "COLLECTION\tDOCUMENTS")
		for _, col := range []string{"crunchbase_companies", "linkedin_companies", "enriched_data", "linkedin_jobs"} {
			fmt.Fprintf(w, "%s\t%d\n", col, counts[col])
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
