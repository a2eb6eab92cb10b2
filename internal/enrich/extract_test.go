package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Vijay-48/LeadIntel/internal/model"
)

func TestExtractDomain(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"https://www.Acme.com/about", "Acme.com"},
		{"https://acme.com", "acme.com"},
		{"http://www.acme.co.uk/contact/us", "acme.co.uk"},
		{"", ""},
		{"not a url", "not a url"},
		{"www.acme.com", "www.acme.com"},
	} {
		assert.Equal(t, tc.want, ExtractDomain(tc.in), tc.in)
	}
}

func TestEmailPolicy_ContactEmailWins(t *testing.T) {
	doc := model.Document{
		"contact_email": "info@acme.com",
		"website":       "https://acme.com",
		"contacts": []any{
			model.Document{"name": "Jane Doe"},
		},
	}
	p := emailPolicies[model.SourceCrunchbase]
	assert.Equal(t, "info@acme.com", p.best(view{doc}))
	assert.Equal(t, []string{"info@acme.com", "jane.doe@acme.com"}, p.candidates(view{doc}))
}

func TestEmailPolicy_DerivedFromContacts(t *testing.T) {
	doc := model.Document{
		"website": "https://www.acme.com/about",
		"contacts": []any{
			model.Document{"name": "Jane Doe"},
			model.Document{"name": "John Q Smith"},
			model.Document{"job_title": "nameless, skipped"},
		},
	}
	got := emailPolicies[model.SourceCrunchbase].candidates(view{doc})
	assert.Equal(t, []string{"jane.doe@acme.com", "john.q.smith@acme.com"}, got)
}

func TestEmailPolicy_NoWebsiteNoDerivedEmails(t *testing.T) {
	doc := model.Document{
		"contacts": []any{model.Document{"name": "Jane Doe"}},
	}
	assert.Empty(t, emailPolicies[model.SourceCrunchbase].candidates(view{doc}))
}

func TestLinkedInPolicy_Crunchbase(t *testing.T) {
	doc := model.Document{
		"social_media_links": []any{
			"https://twitter.com/acme",
			"https://www.linkedin.com/company/acme",
		},
		"contacts": []any{
			model.Document{"name": "Jane", "linkedin_id": "janedoe"},
		},
	}
	got := linkedInPolicies[model.SourceCrunchbase].candidates(view{doc})
	assert.Equal(t, []string{
		"https://www.linkedin.com/company/acme",
		"https://www.linkedin.com/in/janedoe",
	}, got)
}

func TestLinkedInPolicy_LinkedInOwnURL(t *testing.T) {
	doc := model.Document{"url": "https://www.linkedin.com/company/acme"}
	assert.Equal(t, "https://www.linkedin.com/company/acme",
		linkedInPolicies[model.SourceLinkedIn].best(view{doc}))
}

func TestCompanyNamePolicy_LegalNameBeforeDisplayName(t *testing.T) {
	doc := model.Document{"name": "Acme", "legal_name": "Acme Incorporated"}
	assert.Equal(t, "Acme Incorporated",
		companyNamePolicies[model.SourceCrunchbase].best(view{doc}))

	delete(doc, "legal_name")
	assert.Equal(t, "Acme",
		companyNamePolicies[model.SourceCrunchbase].best(view{doc}))
}

func TestExtractProspects_ContactsBeforeEmployees(t *testing.T) {
	doc := model.Document{
		"contacts": []any{
			model.Document{"name": "Jane Doe", "job_title": "VP", "linkedin_id": "janedoe"},
		},
		"current_employees": []any{
			model.Document{"name": "John Smith", "title": "CEO", "permalink": "john-smith"},
		},
	}
	got := extractProspects(view{doc}, model.SourceCrunchbase)
	assert.Equal(t, []model.Prospect{
		{Name: "Jane Doe", Title: "VP", LinkedInID: "janedoe"},
		{Name: "John Smith", Title: "CEO", Permalink: "john-smith"},
	}, got)
}

func TestExtractProspects_OnlyCrunchbase(t *testing.T) {
	doc := model.Document{
		"contacts": []any{model.Document{"name": "Jane"}},
	}
	assert.Nil(t, extractProspects(view{doc}, model.SourceLinkedIn))
}

func TestExtractIndustry(t *testing.T) {
	cb := model.Document{"industries": []any{
		model.Document{"value": "Software"},
		model.Document{"value": "SaaS"},
		model.Document{"other": "no value key"},
	}}
	assert.Equal(t, "Software, SaaS", extractIndustry(view{cb}, model.SourceCrunchbase))

	liScalar := model.Document{"industries": "Retail"}
	assert.Equal(t, "Retail", extractIndustry(view{liScalar}, model.SourceLinkedIn))

	liList := model.Document{"industries": []any{"Retail", "Logistics"}}
	assert.Equal(t, "Retail, Logistics", extractIndustry(view{liList}, model.SourceLinkedIn))

	assert.Empty(t, extractIndustry(view{model.Document{}}, model.SourceCrunchbase))
}

func TestExtractLocation(t *testing.T) {
	cb := model.Document{"address": "1 Main St, Denver, CO"}
	assert.Equal(t, "1 Main St, Denver, CO", extractLocation(view{cb}, model.SourceCrunchbase))

	li := model.Document{"city": "Denver", "country": "USA"}
	assert.Equal(t, "Denver, USA", extractLocation(view{li}, model.SourceLinkedIn))

	assert.Empty(t, extractLocation(view{model.Document{}}, model.SourceLinkedIn))
}

func TestExtractEmployeeCount(t *testing.T) {
	cb := model.Document{"num_employees": "101-250"}
	assert.Equal(t, "101-250", extractEmployeeCount(view{cb}, model.SourceCrunchbase))

	li := model.Document{"employee_count": float64(250), "company_size": "51-200"}
	assert.Equal(t, "250", extractEmployeeCount(view{li}, model.SourceLinkedIn))

	// Zero count falls back to the size bucket.
	liZero := model.Document{"employee_count": float64(0), "company_size": "51-200"}
	assert.Equal(t, "51-200", extractEmployeeCount(view{liZero}, model.SourceLinkedIn))
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, dedupe([]string{"a", "b", "a", "c", "b"}))
	assert.Nil(t, dedupe(nil))
}

func TestViewAccessors(t *testing.T) {
	v := view{model.Document{
		"s":    "text",
		"n":    float64(3),
		"zero": float64(0),
		"l":    []any{"x", model.Document{"k": "v"}},
	}}

	assert.Equal(t, "text", v.str("s"))
	assert.Empty(t, v.str("n"))
	assert.Empty(t, v.str("missing"))
	assert.Len(t, v.list("l"), 2)
	assert.Len(t, v.objects("l"), 1)
	assert.True(t, v.truthy("s"))
	assert.True(t, v.truthy("n"))
	assert.False(t, v.truthy("zero"))
	assert.False(t, v.truthy("missing"))

	var nilView view
	assert.Nil(t, nilView.raw("anything"))
}
