// Package ingest loads the raw source exports (Crunchbase JSON dumps,
// LinkedIn CSV dumps, Apollo CSV exports) into the document store in
// idempotent, chunked batches.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Vijay-48/LeadIntel/internal/model"
)

// maxNDJSONLine bounds a single newline-delimited JSON record.
const maxNDJSONLine = 4 << 20

// StreamCSV reads a header-keyed CSV file and hands rows to fn in chunks of
// at most chunkSize. Empty cells become nil so downstream consumers see the
// same "missing" shape as absent JSON fields.
func StreamCSV(path string, chunkSize int, fn func(rows []model.Document) error) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return eris.Wrapf(err, "ingest: read csv header %s", path)
	}

	var chunk []model.Document
	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		if err := fn(chunk); err != nil {
			return err
		}
		chunk = nil
		return nil
	}

	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			zap.L().Warn("ingest: skipping malformed csv row",
				zap.String("file", path), zap.Int("line", line), zap.Error(err))
			continue
		}
		row := make(model.Document, len(header))
		for i, col := range header {
			if i >= len(record) || record[i] == "" {
				row[col] = nil
				continue
			}
			row[col] = record[i]
		}
		chunk = append(chunk, row)
		if len(chunk) >= chunkSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// ReadCSV loads an entire CSV file into memory. Meant for the small exports;
// the large ones go through StreamCSV.
func ReadCSV(path string) ([]model.Document, error) {
	var rows []model.Document
	err := StreamCSV(path, 1<<20, func(chunk []model.Document) error {
		rows = append(rows, chunk...)
		return nil
	})
	return rows, err
}

// ReadJSONRecords loads a file holding either a JSON array of objects or
// newline-delimited JSON. In NDJSON mode an invalid line is skipped with a
// warning rather than failing the load.
func ReadJSONRecords(path string) ([]model.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read %s", path)
	}

	var records []model.Document
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 64<<10), maxNDJSONLine)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		var doc model.Document
		if err := json.Unmarshal(text, &doc); err != nil {
			zap.L().Warn("ingest: skipping invalid json line",
				zap.String("file", path), zap.Int("line", line), zap.Error(err))
			continue
		}
		records = append(records, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "ingest: scan %s", path)
	}
	return records, nil
}
