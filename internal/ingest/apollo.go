package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Vijay-48/LeadIntel/internal/model"
	"github.com/Vijay-48/LeadIntel/internal/store"
)

// LoadApolloCSV loads both Apollo exports into the enriched collection.
// The rows are already canonical, so no normalization pass runs; they only
// need reshaping into the enriched record layout.
func (l *Loader) LoadApolloCSV(ctx context.Context) error {
	if err := l.loadApolloPeople(ctx); err != nil {
		return err
	}
	return l.loadApolloCompanies(ctx)
}

func (l *Loader) loadApolloPeople(ctx context.Context) error {
	path := filepath.Join(l.dataDir, "apollo_people_data.csv")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	rows, err := ReadCSV(path)
	if err != nil {
		return err
	}

	var batch []store.KeyedDocument
	for _, row := range rows {
		doc := apolloPersonRecord(row)
		batch = append(batch, store.KeyedDocument{Key: apolloKey(model.SourceApolloPeople, row), Doc: doc})
	}
	if err := l.upsertEnriched(ctx, batch); err != nil {
		return eris.Wrap(err, "ingest: load apollo people")
	}
	zap.L().Info("ingest: loaded apollo people", zap.Int("records", len(batch)))
	return nil
}

func (l *Loader) loadApolloCompanies(ctx context.Context) error {
	path := filepath.Join(l.dataDir, "apollo_companies_data.csv")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	rows, err := ReadCSV(path)
	if err != nil {
		return err
	}

	var batch []store.KeyedDocument
	for _, row := range rows {
		doc := apolloCompanyRecord(row)
		batch = append(batch, store.KeyedDocument{Key: apolloKey(model.SourceApolloCompanies, row), Doc: doc})
	}
	if err := l.upsertEnriched(ctx, batch); err != nil {
		return eris.Wrap(err, "ingest: load apollo companies")
	}
	zap.L().Info("ingest: loaded apollo companies", zap.Int("records", len(batch)))
	return nil
}

func (l *Loader) upsertEnriched(ctx context.Context, batch []store.KeyedDocument) error {
	for start := 0; start < len(batch); start += l.batchSize {
		end := start + l.batchSize
		if end > len(batch) {
			end = len(batch)
		}
		if _, err := l.store.UpsertBatch(ctx, store.CollectionEnriched, batch[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func apolloPersonRecord(row model.Document) model.Document {
	cell := func(col string) string { return stringField(row, col) }
	location := strings.Trim(strings.Join([]string{cell("City"), cell("State"), cell("Country")}, ", "), ", ")
	return model.Document{
		"data_source": string(model.SourceApolloPeople),
		"enrichment_fields": model.Document{
			"email":              cell("Email"),
			"linkedin":           cell("LinkedIn URL"),
			"contact_number":     cell("Company Phone Number"),
			"company_name":       cell("Company Name"),
			"prospect_full_name": cell("Full Name"),
		},
		"all_prospects": []any{model.Document{
			"name":         cell("Full Name"),
			"title":        cell("Job Title"),
			"first_name":   cell("First Name"),
			"last_name":    cell("Last Name"),
			"email":        cell("Email"),
			"email_status": cell("Email Status"),
			"linkedin_id":  cell("LinkedIn URL"),
			"twitter":      cell("Twitter URL"),
			"facebook":     cell("Facebook URL"),
			"city":         cell("City"),
			"state":        cell("State"),
			"country":      cell("Country"),
		}},
		"company_name":   cell("Company Name"),
		"website":        cell("Company Website"),
		"industry":       cell("Industry"),
		"location":       location,
		"employee_count": cell("Employees"),
		"description":    "",
		"company_details": model.Document{
			"logo_url":     cell("Company Logo URL"),
			"city":         cell("Company City"),
			"state":        cell("Company State"),
			"country":      cell("Company Country"),
			"linkedin_url": cell("Company LinkedIn URL"),
			"twitter_url":  cell("Company Twitter URL"),
			"facebook_url": cell("Company Facebook URL"),
			"phone_number": cell("Company Phone Number"),
			"keywords":     cell("Keywords"),
		},
	}
}

func apolloCompanyRecord(row model.Document) model.Document {
	cell := func(col string) string { return stringField(row, col) }
	return model.Document{
		"data_source": string(model.SourceApolloCompanies),
		"enrichment_fields": model.Document{
			"email":              "",
			"linkedin":           "",
			"contact_number":     "",
			"company_name":       cell("Company Name"),
			"prospect_full_name": cell("Name"),
		},
		"all_prospects": []any{model.Document{
			"name":  cell("Name"),
			"title": cell("Title"),
		}},
		"company_name":   cell("Company Name"),
		"website":        "",
		"industry":       cell("Industry"),
		"location":       cell("Company Location"),
		"employee_count": cell("Employees"),
		"description":    "",
	}
}

// apolloKey derives a stable upsert key so reloading an export overwrites
// rather than duplicates. Email identifies a person when present; otherwise
// the person-company pair has to do.
func apolloKey(source model.SourceTag, row model.Document) string {
	if email := stringField(row, "Email"); email != "" {
		return fmt.Sprintf("%s:%s", source, strings.ToLower(email))
	}
	name := stringField(row, "Full Name")
	if name == "" {
		name = stringField(row, "Name")
	}
	return fmt.Sprintf("%s:%s|%s", source, strings.ToLower(name), strings.ToLower(stringField(row, "Company Name")))
}
