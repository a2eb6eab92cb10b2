package model

// SourceTag identifies which logical data source a raw record came from.
// It drives which extraction rules apply during normalization.
type SourceTag string

const (
	// SourceCrunchbase covers the Crunchbase JSON exports (keyword results,
	// company profiles, and the bulk companies dump).
	SourceCrunchbase SourceTag = "crunchbase"
	// SourceLinkedIn covers the LinkedIn CSV dumps.
	SourceLinkedIn SourceTag = "linkedin"
	// SourceApolloPeople and SourceApolloCompanies cover the pre-normalized
	// Apollo CSV exports stored directly in canonical shape.
	SourceApolloPeople    SourceTag = "apollo_csv"
	SourceApolloCompanies SourceTag = "apollo_csv_companies"
)

// Document is a schemaless raw source record. Schemas vary per source;
// the only assumption is that upsertable records carry a natural key.
type Document = map[string]any

// EnrichmentFields holds the five canonical enrichment fields. Each carries
// the single best (first-found) value, or nil when no candidate was found.
type EnrichmentFields struct {
	Email            *string `json:"email"`
	LinkedIn         *string `json:"linkedin"`
	ContactNumber    *string `json:"contact_number"`
	CompanyName      *string `json:"company_name"`
	ProspectFullName *string `json:"prospect_full_name"`
}

// Prospect is one candidate contact discovered during extraction. Entries
// from Crunchbase contacts carry linkedin_id and departments; entries from
// current_employees carry a permalink. Pre-normalized Apollo prospects carry
// the remaining identifier fields.
type Prospect struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	LinkedInID  string `json:"linkedin_id,omitempty"`
	Departments []any  `json:"departments,omitempty"`
	Permalink   string `json:"permalink,omitempty"`

	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email,omitempty"`
	EmailStatus string `json:"email_status,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	Facebook    string `json:"facebook,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
}

// EnrichedRecord is the canonical shape produced by normalization,
// independent of originating source. It is created fresh per search hit
// and discarded after the response is assembled.
//
// Invariant: after normalization every float anywhere in the record is
// finite; NaN and infinities are coerced to nil so the record always
// JSON-serializes.
type EnrichedRecord struct {
	DataSource       SourceTag         `json:"data_source,omitempty"`
	EnrichmentFields *EnrichmentFields `json:"enrichment_fields,omitempty"`

	AllEmails           []string   `json:"all_emails,omitempty"`
	AllLinkedInProfiles []string   `json:"all_linkedin_profiles,omitempty"`
	AllContactNumbers   []string   `json:"all_contact_numbers,omitempty"`
	AllProspects        []Prospect `json:"all_prospects,omitempty"`

	CompanyName   *string `json:"company_name,omitempty"`
	Website       any     `json:"website,omitempty"`
	Industry      *string `json:"industry,omitempty"`
	Location      *string `json:"location,omitempty"`
	EmployeeCount any     `json:"employee_count,omitempty"`
	Description   any     `json:"description,omitempty"`
	FoundedDate   any     `json:"founded_date,omitempty"`
	SocialMedia   []any   `json:"social_media,omitempty"`

	// Crunchbase extras.
	Funding         any   `json:"funding,omitempty"`
	CBRank          any   `json:"cb_rank,omitempty"`
	OperatingStatus any   `json:"operating_status,omitempty"`
	Founders        []any `json:"founders,omitempty"`

	// LinkedIn extras.
	CompanySize   any   `json:"company_size,omitempty"`
	Specialities  []any `json:"specialities,omitempty"`
	FollowerCount any   `json:"follower_count,omitempty"`
	Address       any   `json:"address,omitempty"`
	ZipCode       any   `json:"zip_code,omitempty"`

	// CompanyDetails carries extra company attributes on pre-normalized
	// Apollo records.
	CompanyDetails Document `json:"company_details,omitempty"`

	// Error is set only on normalization failure stubs; such records
	// contribute zero usable fields and never abort a batch.
	Error string `json:"error,omitempty"`
}

// BestCompanyName returns the flat company name, or "" when absent.
func (r *EnrichedRecord) BestCompanyName() string {
	if r.CompanyName != nil {
		return *r.CompanyName
	}
	return ""
}
