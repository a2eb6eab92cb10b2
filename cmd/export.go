package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Vijay-48/LeadIntel/internal/export"
	"github.com/Vijay-48/LeadIntel/internal/model"
	"github.com/Vijay-48/LeadIntel/internal/search"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run a search and write the results to a file",
	Long:  "Runs the cross-source search with the given filters and writes the merged results as CSV, TXT or XLSX, chosen by the output file extension.",
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

		// Exports operate on plain documents, same as the HTTP endpoints.
		docs := make([]model.Document, 0, len(res.Records))
		for _, rec := range res.Records {
			raw, err := json.Marshal(rec)
			if err != nil {
				return eris.Wrap(err, "flatten record")
			}
			var doc model.Document
			if err := json.Unmarshal(raw, &doc); err != nil {
				return eris.Wrap(err, "flatten record")
			}
			docs = append(docs, doc)
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return eris.Wrapf(err, "create %s", exportOut)
		}
		defer f.Close() //nolint:errcheck

		switch strings.ToLower(filepath.Ext(exportOut)) {
		case ".csv":
			err = export.WriteCSV(f, docs)
		case ".txt":
			err = export.WriteTXT(f, docs)
		case ".xlsx":
			err = export.WriteXLSX(f, docs)
		default:
			return eris.Errorf("unsupported export extension %q (want .csv, .txt or .xlsx)", filepath.Ext(exportOut))
		}
		if err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("file", exportOut),
			zap.Int("records", len(docs)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (required, extension selects the format)")
	_ = exportCmd.MarkFlagRequired("out")
	exportCmd.Flags().StringVar(&searchFilter.Query, "query", "", "free-text term")
	exportCmd.Flags().StringVar(&searchFilter.Industry, "industry", "", "industry substring filter")
	exportCmd.Flags().StringVar(&searchFilter.Location, "location", "", "location substring filter")
	exportCmd.Flags().IntVar(&searchFilter.Limit, "limit", model.DefaultSearchLimit, "maximum merged results")
	rootCmd.AddCommand(exportCmd)
}
