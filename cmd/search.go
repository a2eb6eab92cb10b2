package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Vijay-48/LeadIntel/internal/model"
	"github.com/Vijay-48/LeadIntel/internal/search"
)

var searchFilter model.SearchFilter

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search companies across all loaded sources",
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

		res, err := search.NewAggregator(st).Search(ctx, searchFilter)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{
			"results": res.Records,
			"count":   len(res.Records),
			"sources": res.Sources,
		}); err != nil {
			return eris.Wrap(err, "encode results")
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchFilter.Query, "query", "", "free-text term matched against names, websites and prospects")
	searchCmd.Flags().StringVar(&searchFilter.Industry, "industry", "", "industry substring filter")
	searchCmd.Flags().StringVar(&searchFilter.Location, "location", "", "location substring filter")
	searchCmd.Flags().IntVar(&searchFilter.MinEmployees, "min-employees", 0, "minimum employee count")
	searchCmd.Flags().IntVar(&searchFilter.MaxEmployees, "max-employees", 0, "maximum employee count")
	searchCmd.Flags().IntVar(&searchFilter.Limit, "limit", model.DefaultSearchLimit, "maximum merged results")
	rootCmd.AddCommand(searchCmd)
}
