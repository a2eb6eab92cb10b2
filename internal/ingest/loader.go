package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Vijay-48/LeadIntel/internal/model"
	"github.com/Vijay-48/LeadIntel/internal/store"
)

const (
	// defaultBatchSize chunks the large JSON and CSV company dumps.
	defaultBatchSize = 1000
	// jobsBatchSize chunks job_postings.csv, which is an order of magnitude
	// larger than the company files.
	jobsBatchSize = 10000
)

// Loader ingests the on-disk source exports into the document store. Every
// write is an idempotent keyed upsert, so re-running a load is safe.
type Loader struct {
	store     store.Store
	dataDir   string
	batchSize int
}

func NewLoader(st store.Store, dataDir string, batchSize int) *Loader {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Loader{store: st, dataDir: dataDir, batchSize: batchSize}
}

// LoadAll runs the full ingestion unless both raw collections already hold
// data, in which case it is a no-op. Searches may run concurrently against
// a partially loaded store and simply see fewer matches.
func (l *Loader) LoadAll(ctx context.Context) error {
	cbCount, err := l.store.Count(ctx, store.CollectionCrunchbase, nil)
	if err != nil {
		return eris.Wrap(err, "ingest: count crunchbase companies")
	}
	liCount, err := l.store.Count(ctx, store.CollectionLinkedIn, nil)
	if err != nil {
		return eris.Wrap(err, "ingest: count linkedin companies")
	}
	if cbCount > 0 && liCount > 0 {
		zap.L().Info("ingest: data already loaded, skipping",
			zap.Int64("crunchbase", cbCount), zap.Int64("linkedin", liCount))
		return nil
	}

	if err := l.LoadCrunchbaseJSON(ctx); err != nil {
		return err
	}
	if err := l.LoadLinkedInCSV(ctx); err != nil {
		return err
	}
	zap.L().Info("ingest: data load complete")
	return nil
}

// LoadCrunchbaseJSON loads the three Crunchbase exports, keyed by the
// company id. Records without an id are skipped. Missing files are skipped
// so a partial data directory still loads.
func (l *Loader) LoadCrunchbaseJSON(ctx context.Context) error {
	files := []struct {
		name   string
		source string
	}{
		{"crunchbase-keyword-results.json", "crunchbase_keywords"},
		{"crunchbase-company-profiles.json", "crunchbase_profiles"},
		{"companies.json", "crunchbase_companies"},
	}
	for _, f := range files {
		path := filepath.Join(l.dataDir, f.name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			zap.L().Debug("ingest: file absent, skipping", zap.String("file", path))
			continue
		}
		records, err := ReadJSONRecords(path)
		if err != nil {
			return err
		}
		loaded, err := l.upsertKeyed(ctx, store.CollectionCrunchbase, records, "id", f.source)
		if err != nil {
			return eris.Wrapf(err, "ingest: load %s", f.name)
		}
		zap.L().Info("ingest: loaded crunchbase file",
			zap.String("file", f.name), zap.Int("records", loaded))
	}
	return nil
}

// LoadLinkedInCSV loads the LinkedIn company dump plus its satellite files.
// companies.csv establishes the documents; the industry, speciality and
// employee-count files merge fields into documents that already exist and
// are no-ops for unknown company ids.
func (l *Loader) LoadLinkedInCSV(ctx context.Context) error {
	if err := l.loadLinkedInCompanies(ctx); err != nil {
		return err
	}
	if err := l.mergeGrouped(ctx, "company_industries.csv", "industry", "industries"); err != nil {
		return err
	}
	if err := l.mergeGrouped(ctx, "company_specialities.csv", "speciality", "specialities"); err != nil {
		return err
	}
	if err := l.mergeEmployeeCounts(ctx); err != nil {
		return err
	}
	return l.loadJobPostings(ctx)
}

func (l *Loader) loadLinkedInCompanies(ctx context.Context) error {
	path := filepath.Join(l.dataDir, "companies.csv")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	rows, err := ReadCSV(path)
	if err != nil {
		return err
	}
	loaded, err := l.upsertKeyed(ctx, store.CollectionLinkedIn, rows, "company_id", "linkedin_companies")
	if err != nil {
		return eris.Wrap(err, "ingest: load companies.csv")
	}
	zap.L().Info("ingest: loaded linkedin companies", zap.Int("records", loaded))
	return nil
}

// mergeGrouped aggregates a two-column satellite CSV (company_id plus one
// value column) into a list field on the matching company document.
func (l *Loader) mergeGrouped(ctx context.Context, file, valueCol, field string) error {
	path := filepath.Join(l.dataDir, file)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	rows, err := ReadCSV(path)
	if err != nil {
		return err
	}

	grouped := make(map[string][]any)
	var order []string
	for _, row := range rows {
		id := stringField(row, "company_id")
		if id == "" {
			continue
		}
		if _, seen := grouped[id]; !seen {
			order = append(order, id)
		}
		grouped[id] = append(grouped[id], row[valueCol])
	}

	for _, id := range order {
		err := l.store.MergeFields(ctx, store.CollectionLinkedIn, id, model.Document{field: grouped[id]})
		if err != nil {
			return eris.Wrapf(err, "ingest: merge %s", file)
		}
	}
	zap.L().Info("ingest: merged satellite file",
		zap.String("file", file), zap.Int("companies", len(order)))
	return nil
}

func (l *Loader) mergeEmployeeCounts(ctx context.Context) error {
	path := filepath.Join(l.dataDir, "employee_counts.csv")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	rows, err := ReadCSV(path)
	if err != nil {
		return err
	}
	merged := 0
	for _, row := range rows {
		id := stringField(row, "company_id")
		if id == "" {
			continue
		}
		err := l.store.MergeFields(ctx, store.CollectionLinkedIn, id, model.Document{
			"employee_count": row["employee_count"],
			"follower_count": row["follower_count"],
			"time_recorded":  row["time_recorded"],
		})
		if err != nil {
			return eris.Wrap(err, "ingest: merge employee_counts.csv")
		}
		merged++
	}
	zap.L().Info("ingest: merged employee counts", zap.Int("companies", merged))
	return nil
}

func (l *Loader) loadJobPostings(ctx context.Context) error {
	path := filepath.Join(l.dataDir, "job_postings.csv")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	total := 0
	err := StreamCSV(path, jobsBatchSize, func(rows []model.Document) error {
		loaded, err := l.upsertKeyed(ctx, store.CollectionJobs, rows, "job_id", "linkedin_jobs")
		if err != nil {
			return err
		}
		total += loaded
		zap.L().Info("ingest: loading job postings", zap.Int("loaded", total))
		return nil
	})
	if err != nil {
		return eris.Wrap(err, "ingest: load job_postings.csv")
	}
	zap.L().Info("ingest: finished loading job postings", zap.Int("records", total))
	return nil
}

// upsertKeyed stamps each record with its load provenance, keys it by the
// named field and writes it in chunks. Records missing the key are dropped.
func (l *Loader) upsertKeyed(ctx context.Context, collection string, records []model.Document, keyField, source string) (int, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	var batch []store.KeyedDocument
	total := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := l.store.UpsertBatch(ctx, collection, batch); err != nil {
			return err
		}
		total += len(batch)
		batch = nil
		return nil
	}

	for _, rec := range records {
		key := stringField(rec, keyField)
		if key == "" {
			continue
		}
		rec["_data_source"] = source
		rec["_loaded_at"] = now
		rec[keyField] = key
		batch = append(batch, store.KeyedDocument{Key: key, Doc: rec})
		if len(batch) >= l.batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	return total, flush()
}

// stringField renders a document field as its key form. Numeric ids in the
// CSV dumps arrive as strings already; JSON ids may decode as floats.
func stringField(doc model.Document, field string) string {
	switch v := doc[field].(type) {
	case nil:
		return ""
	case string:
		if v == "None" {
			return ""
		}
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
