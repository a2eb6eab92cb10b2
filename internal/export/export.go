// Package export renders search results into downloadable CSV, plain-text
// and XLSX documents. Store-internal bookkeeping fields never appear in an
// export.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Vijay-48/LeadIntel/internal/model"
)

// internalFields are dropped from every export format.
var internalFields = map[string]struct{}{
	"id":         {},
	"created_at": {},
	"expires_at": {},
	"source":     {},
}

// Columns returns the union of exportable keys across all records, ordered
// by first appearance so the column layout tracks the input.
func Columns(records []model.Document) []string {
	var cols []string
	seen := map[string]struct{}{}
	for _, rec := range records {
		for _, k := range sortedKeys(rec) {
			if _, internal := internalFields[k]; internal {
				continue
			}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	return cols
}

// WriteCSV renders the records as a header-keyed CSV table.
func WriteCSV(w io.Writer, records []model.Document) error {
	cols := Columns(records)
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	row := make([]string, len(cols))
	for _, rec := range records {
		for i, col := range cols {
			row[i] = cellString(rec[col])
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteTXT renders the records as a human-readable report.
func WriteTXT(w io.Writer, records []model.Document) error {
	title := cases.Title(language.English)
	var b strings.Builder

	rule := strings.Repeat("=", 80)
	b.WriteString(rule + "\n")
	b.WriteString("LeadIntel Export\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n", time.Now().UTC().Format("2006-01-02 15:04:05 UTC")))
	b.WriteString(fmt.Sprintf("Total Records: %d\n", len(records)))
	b.WriteString(rule + "\n\n")

	for i, rec := range records {
		b.WriteString(fmt.Sprintf("Record #%d\n", i+1))
		b.WriteString(strings.Repeat("-", 40) + "\n")
		for _, k := range sortedKeys(rec) {
			if _, internal := internalFields[k]; internal {
				continue
			}
			label := title.String(strings.ReplaceAll(k, "_", " "))
			value := cellString(rec[k])
			if value == "" {
				value = "N/A"
			}
			b.WriteString(fmt.Sprintf("%s: %s\n", label, value))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "export: write txt")
}

// WriteXLSX renders the records as a single-sheet workbook.
func WriteXLSX(w io.Writer, records []model.Document) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	cols := Columns(records)
	header := sheet.AddRow()
	for _, col := range cols {
		header.AddCell().SetString(col)
	}
	for _, rec := range records {
		row := sheet.AddRow()
		for _, col := range cols {
			row.AddCell().SetString(cellString(rec[col]))
		}
	}
	return eris.Wrap(f.Write(w), "export: write xlsx")
}

// sortedKeys gives a stable field order within one record. Go maps iterate
// randomly, so exports would otherwise shuffle between runs.
func sortedKeys(doc model.Document) []string {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cellString flattens a document value for a flat export cell. Nested
// structures serialize as JSON rather than Go's fmt rendering.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case map[string]any, []any:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(raw)
	default:
		return fmt.Sprintf("%v", t)
	}
}
