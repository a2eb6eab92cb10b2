package enrich

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vijay-48/LeadIntel/internal/model"
)

func TestNormalize_CrunchbaseFullRecord(t *testing.T) {
	doc := model.Document{
		"name":          "Acme",
		"legal_name":    "Acme Incorporated",
		"website":       "https://www.acme.com/about",
		"contact_email": "info@acme.com",
		"contact_phone": "555-0100",
		"about":         "Makes everything",
		"address":       "Denver, CO",
		"founded_date":  "2001",
		"funding":       "$10M",
		"cb_rank":       float64(1234),
		"industries": []any{
			model.Document{"value": "Software"},
		},
		"social_media_links": []any{
			"https://www.linkedin.com/company/acme",
		},
		"contacts": []any{
			model.Document{"name": "Jane Doe", "job_title": "VP", "linkedin_id": "janedoe"},
		},
		"current_employees": []any{
			model.Document{"name": "John Smith", "title": "CEO"},
		},
	}

	rec := Normalize(doc, model.SourceCrunchbase)

	require.NotNil(t, rec.EnrichmentFields)
	assert.Equal(t, "info@acme.com", *rec.EnrichmentFields.Email)
	assert.Equal(t, "https://www.linkedin.com/company/acme", *rec.EnrichmentFields.LinkedIn)
	assert.Equal(t, "555-0100", *rec.EnrichmentFields.ContactNumber)
	assert.Equal(t, "Acme Incorporated", *rec.EnrichmentFields.CompanyName)
	assert.Equal(t, "Jane Doe", *rec.EnrichmentFields.ProspectFullName)

	assert.Equal(t, model.SourceCrunchbase, rec.DataSource)
	assert.Equal(t, "Acme Incorporated", *rec.CompanyName)
	assert.Equal(t, []string{"info@acme.com", "jane.doe@acme.com"}, rec.AllEmails)
	assert.Len(t, rec.AllProspects, 2)
	assert.Equal(t, "https://www.acme.com/about", rec.Website)
	assert.Equal(t, "Software", *rec.Industry)
	assert.Equal(t, "Denver, CO", *rec.Location)
	assert.Equal(t, "Makes everything", rec.Description)
	assert.Equal(t, "$10M", rec.Funding)
	assert.Equal(t, float64(1234), rec.CBRank)
	assert.Empty(t, rec.Error)
}

func TestNormalize_LinkedInRecord(t *testing.T) {
	doc := model.Document{
		"name":           "Beta Corp",
		"url":            "https://www.linkedin.com/company/beta",
		"description":    "Retail analytics",
		"industries":     []any{"Retail"},
		"city":           "Austin",
		"country":        "USA",
		"employee_count": float64(410),
		"company_size":   "201-500",
		"specialities":   []any{"Analytics"},
		"follower_count": float64(12000),
	}

	rec := Normalize(doc, model.SourceLinkedIn)

	require.NotNil(t, rec.EnrichmentFields)
	assert.Nil(t, rec.EnrichmentFields.Email)
	assert.Equal(t, "https://www.linkedin.com/company/beta", *rec.EnrichmentFields.LinkedIn)
	assert.Equal(t, "Beta Corp", *rec.EnrichmentFields.CompanyName)
	assert.Nil(t, rec.EnrichmentFields.ProspectFullName)

	assert.Equal(t, "https://www.linkedin.com/company/beta", rec.Website)
	assert.Equal(t, "Retail", *rec.Industry)
	assert.Equal(t, "Austin, USA", *rec.Location)
	assert.Equal(t, "410", rec.EmployeeCount)
	assert.Equal(t, "201-500", rec.CompanySize)
	assert.Equal(t, []any{"Analytics"}, rec.Specialities)
	assert.Equal(t, float64(12000), rec.FollowerCount)
}

func TestNormalize_EmptyRecordHasAllFieldsNull(t *testing.T) {
	for _, source := range []model.SourceTag{model.SourceCrunchbase, model.SourceLinkedIn} {
		rec := Normalize(model.Document{}, source)

		require.NotNil(t, rec.EnrichmentFields, source)
		assert.Nil(t, rec.EnrichmentFields.Email, source)
		assert.Nil(t, rec.EnrichmentFields.LinkedIn, source)
		assert.Nil(t, rec.EnrichmentFields.ContactNumber, source)
		assert.Nil(t, rec.EnrichmentFields.CompanyName, source)
		assert.Nil(t, rec.EnrichmentFields.ProspectFullName, source)
		assert.Empty(t, rec.AllEmails, source)
		assert.Empty(t, rec.AllLinkedInProfiles, source)
		assert.Empty(t, rec.AllContactNumbers, source)
		assert.Empty(t, rec.AllProspects, source)
		assert.Empty(t, rec.Error, source)
	}
}

func TestNormalize_NonFiniteFloatsBecomeNull(t *testing.T) {
	doc := model.Document{
		"name":          "Acme",
		"num_employees": math.NaN(),
		"cb_rank":       math.Inf(1),
		"funding":       math.Inf(-1),
		"founders": []any{
			model.Document{"name": "Jane", "net_worth": math.NaN()},
		},
	}

	rec := Normalize(doc, model.SourceCrunchbase)

	assert.Nil(t, rec.EmployeeCount)
	assert.Nil(t, rec.CBRank)
	assert.Nil(t, rec.Funding)
	founder := rec.Founders[0].(map[string]any)
	assert.Equal(t, "Jane", founder["name"])
	assert.Nil(t, founder["net_worth"])

	// The whole record must be JSON-serializable after sanitation.
	_, err := json.Marshal(rec)
	assert.NoError(t, err)
}

func TestNormalize_ContactNumbersNotDeduped(t *testing.T) {
	doc := model.Document{"contact_phone": "555-0100"}
	rec := Normalize(doc, model.SourceCrunchbase)
	assert.Equal(t, []string{"555-0100"}, rec.AllContactNumbers)
}

func TestNormalize_ErrorStubMarshalsToErrorOnly(t *testing.T) {
	rec := model.EnrichedRecord{Error: "normalize crunchbase record: boom"}
	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"normalize crunchbase record: boom"}`, string(raw))
}

func TestBestOf(t *testing.T) {
	assert.Nil(t, bestOf(nil))
	assert.Nil(t, bestOf([]string{"", ""}))
	got := bestOf([]string{"", "x", "y"})
	require.NotNil(t, got)
	assert.Equal(t, "x", *got)
}
