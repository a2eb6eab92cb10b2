package model

// DefaultSearchLimit bounds the merged result count when no limit is given.
const DefaultSearchLimit = 50

// SearchFilter specifies criteria for a cross-source company search.
// No field is required. Limit bounds the final merged result count, not
// the per-source fetch count; zero or negative means DefaultSearchLimit.
type SearchFilter struct {
	Query        string `json:"query,omitempty"`
	Industry     string `json:"industry,omitempty"`
	Location     string `json:"location,omitempty"`
	MinEmployees int    `json:"min_employees,omitempty"`
	MaxEmployees int    `json:"max_employees,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

// EffectiveLimit returns the positive result bound for this filter.
func (f SearchFilter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return DefaultSearchLimit
	}
	return f.Limit
}
