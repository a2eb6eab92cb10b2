package enrich

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Vijay-48/LeadIntel/internal/model"
)

// Normalize derives a canonical enriched record from a raw source record.
// Extraction rules never fail individually: a rule that cannot find data
// contributes nil or an empty collection. Any unexpected failure during
// assembly is recovered into an error-only stub record so a single bad
// document never aborts a batch.
func Normalize(doc model.Document, source model.SourceTag) (rec model.EnrichedRecord) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("enrich: normalize failed",
				zap.String("source", string(source)),
				zap.Any("panic", r),
			)
			rec = model.EnrichedRecord{Error: fmt.Sprintf("normalize %s record: %v", source, r)}
		}
	}()

	v := view{doc}
	rec = model.EnrichedRecord{
		DataSource:       source,
		EnrichmentFields: &model.EnrichmentFields{},
	}

	// 1. Email.
	emails := emailPolicies[source].candidates(v)
	rec.EnrichmentFields.Email = bestOf(emails)
	rec.AllEmails = dedupe(emails)

	// 2. LinkedIn profile.
	profiles := linkedInPolicies[source].candidates(v)
	rec.EnrichmentFields.LinkedIn = bestOf(profiles)
	rec.AllLinkedInProfiles = dedupe(profiles)

	// 3. Contact number.
	numbers := phonePolicies[source].candidates(v)
	rec.EnrichmentFields.ContactNumber = bestOf(numbers)
	rec.AllContactNumbers = numbers

	// 4. Company name, mirrored into the flat field for dedup and display.
	if name := companyNamePolicies[source].best(v); name != "" {
		rec.EnrichmentFields.CompanyName = &name
		rec.CompanyName = &name
	}

	// 5. Prospect full name, first entry wins.
	rec.AllProspects = extractProspects(v, source)
	if len(rec.AllProspects) > 0 {
		rec.EnrichmentFields.ProspectFullName = &rec.AllProspects[0].Name
	}

	rec.Website = firstNonNil(v, "website", "url")
	rec.Industry = strOrNil(extractIndustry(v, source))
	rec.Location = strOrNil(extractLocation(v, source))
	rec.EmployeeCount = extractEmployeeCount(v, source)
	rec.Description = firstNonNil(v, "about", "description")
	rec.FoundedDate = v.raw("founded_date")
	rec.SocialMedia = v.list("social_media_links")

	switch source {
	case model.SourceCrunchbase:
		rec.Funding = v.raw("funding")
		rec.CBRank = v.raw("cb_rank")
		rec.OperatingStatus = v.raw("operating_status")
		rec.Founders = v.list("founders")
	case model.SourceLinkedIn:
		rec.CompanySize = v.raw("company_size")
		rec.Specialities = v.list("specialities")
		rec.FollowerCount = v.raw("follower_count")
		rec.Address = v.raw("address")
		rec.ZipCode = v.raw("zip_code")
	}

	sanitizeRecord(&rec)
	return rec
}

// sanitizeRecord applies the non-finite float visitor to every dynamic
// value carried over from the raw record. Hard postcondition: no NaN or
// infinity leaves normalization.
func sanitizeRecord(rec *model.EnrichedRecord) {
	rec.Website = Sanitize(rec.Website)
	rec.EmployeeCount = Sanitize(rec.EmployeeCount)
	rec.Description = Sanitize(rec.Description)
	rec.FoundedDate = Sanitize(rec.FoundedDate)
	rec.SocialMedia = sanitizeSlice(rec.SocialMedia)
	rec.Funding = Sanitize(rec.Funding)
	rec.CBRank = Sanitize(rec.CBRank)
	rec.OperatingStatus = Sanitize(rec.OperatingStatus)
	rec.Founders = sanitizeSlice(rec.Founders)
	rec.CompanySize = Sanitize(rec.CompanySize)
	rec.Specialities = sanitizeSlice(rec.Specialities)
	rec.FollowerCount = Sanitize(rec.FollowerCount)
	rec.Address = Sanitize(rec.Address)
	rec.ZipCode = Sanitize(rec.ZipCode)
	for i := range rec.AllProspects {
		rec.AllProspects[i].Departments = sanitizeSlice(rec.AllProspects[i].Departments)
	}
	if rec.CompanyDetails != nil {
		details, _ := Sanitize(rec.CompanyDetails).(model.Document)
		rec.CompanyDetails = details
	}
}

// bestOf returns a pointer to the first non-empty candidate, or nil.
func bestOf(candidates []string) *string {
	for _, c := range candidates {
		if c != "" {
			return &c
		}
	}
	return nil
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
