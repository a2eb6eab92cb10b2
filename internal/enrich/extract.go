// Package enrich implements the multi-source field extraction and record
// normalization pipeline: source-specific rules map schemaless raw records
// into the canonical enriched shape.
package enrich

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Vijay-48/LeadIntel/internal/model"
)

// policy is an ordered list of candidate-producing steps for one enrichment
// field. Steps are evaluated in declared order; the first candidate overall
// is the field's best value and the full ordered set feeds the all_* lists.
type policy []func(view) []string

// candidates evaluates every step in order and concatenates the results.
func (p policy) candidates(v view) []string {
	var out []string
	for _, step := range p {
		out = append(out, step(v)...)
	}
	return out
}

// best returns the first non-empty candidate, or "".
func (p policy) best(v view) string {
	for _, step := range p {
		for _, c := range step(v) {
			if c != "" {
				return c
			}
		}
	}
	return ""
}

var protocolPrefix = regexp.MustCompile(`https?://(www\.)?`)

// ExtractDomain pulls the bare domain out of a website URL: the scheme and
// a leading www. are stripped, and everything after the first slash is
// dropped. Case is preserved. Non-URL input passes through unchanged.
func ExtractDomain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	domain := protocolPrefix.ReplaceAllString(rawURL, "")
	if i := strings.Index(domain, "/"); i >= 0 {
		domain = domain[:i]
	}
	return domain
}

// Email candidate steps.

func contactEmailField(v view) []string {
	if e := v.str("contact_email"); e != "" {
		return []string{e}
	}
	return nil
}

// contactDerivedEmails synthesizes first.last@domain for each named contact
// using the domain parsed from the record's website field.
func contactDerivedEmails(v view) []string {
	domain := ExtractDomain(v.str("website"))
	if domain == "" {
		return nil
	}
	var out []string
	for _, c := range v.objects("contacts") {
		name := c.str("name")
		if name == "" {
			continue
		}
		local := strings.ReplaceAll(strings.ToLower(name), " ", ".")
		out = append(out, fmt.Sprintf("%s@%s", local, domain))
	}
	return out
}

var emailPolicies = map[model.SourceTag]policy{
	model.SourceCrunchbase: {contactEmailField, contactDerivedEmails},
	// LinkedIn exposes no email data; absence maps to nil.
}

// LinkedIn profile candidate steps.

func socialLinkedInLinks(v view) []string {
	var out []string
	for _, item := range v.list("social_media_links") {
		if link, ok := item.(string); ok && strings.Contains(link, "linkedin.com") {
			out = append(out, link)
		}
	}
	return out
}

func contactLinkedInProfiles(v view) []string {
	var out []string
	for _, c := range v.objects("contacts") {
		if id := c.str("linkedin_id"); id != "" {
			out = append(out, "https://www.linkedin.com/in/"+id)
		}
	}
	return out
}

func ownProfileURL(v view) []string {
	if u := v.str("url"); u != "" {
		return []string{u}
	}
	return nil
}

var linkedInPolicies = map[model.SourceTag]policy{
	model.SourceCrunchbase: {socialLinkedInLinks, contactLinkedInProfiles},
	model.SourceLinkedIn:   {ownProfileURL},
}

// Phone candidate steps.

func contactPhoneField(v view) []string {
	if p := v.str("contact_phone"); p != "" {
		return []string{p}
	}
	return nil
}

var phonePolicies = map[model.SourceTag]policy{
	model.SourceCrunchbase: {contactPhoneField},
}

// Company name candidate steps.

func legalNameField(v view) []string {
	if n := v.str("legal_name"); n != "" {
		return []string{n}
	}
	return nil
}

func nameField(v view) []string {
	if n := v.str("name"); n != "" {
		return []string{n}
	}
	return nil
}

var companyNamePolicies = map[model.SourceTag]policy{
	model.SourceCrunchbase: {legalNameField, nameField},
	model.SourceLinkedIn:   {nameField},
}

// extractProspects collects candidate contacts: the contacts list first,
// then current_employees, so contacts entries take naming priority.
func extractProspects(v view, source model.SourceTag) []model.Prospect {
	if source != model.SourceCrunchbase {
		return nil
	}
	var out []model.Prospect
	for _, c := range v.objects("contacts") {
		if c.str("name") == "" {
			continue
		}
		out = append(out, model.Prospect{
			Name:        c.str("name"),
			Title:       c.str("job_title"),
			LinkedInID:  c.str("linkedin_id"),
			Departments: c.list("departments"),
		})
	}
	for _, e := range v.objects("current_employees") {
		if e.str("name") == "" {
			continue
		}
		out = append(out, model.Prospect{
			Name:      e.str("name"),
			Title:     e.str("title"),
			Permalink: e.str("permalink"),
		})
	}
	return out
}

// extractIndustry joins the source's industry representation with ", ".
// Crunchbase industries are tagged {value} objects; LinkedIn industries are
// a plain list or scalar.
func extractIndustry(v view, source model.SourceTag) string {
	switch source {
	case model.SourceCrunchbase:
		var parts []string
		for _, ind := range v.objects("industries") {
			if val := ind.str("value"); val != "" {
				parts = append(parts, val)
			}
		}
		return strings.Join(parts, ", ")
	case model.SourceLinkedIn:
		switch t := v.raw("industries").(type) {
		case string:
			return t
		case []any:
			parts := make([]string, 0, len(t))
			for _, item := range t {
				parts = append(parts, fmt.Sprint(item))
			}
			return strings.Join(parts, ", ")
		}
	}
	return ""
}

// extractLocation returns the raw address for Crunchbase and the joined
// non-empty city/state/country for LinkedIn.
func extractLocation(v view, source model.SourceTag) string {
	switch source {
	case model.SourceCrunchbase:
		return v.str("address")
	case model.SourceLinkedIn:
		var parts []string
		for _, key := range []string{"city", "state", "country"} {
			if p := v.str(key); p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// extractEmployeeCount returns the Crunchbase numeric field as-is, or the
// LinkedIn employee count stringified with the company-size bucket label as
// fallback.
func extractEmployeeCount(v view, source model.SourceTag) any {
	switch source {
	case model.SourceCrunchbase:
		return v.raw("num_employees")
	case model.SourceLinkedIn:
		if v.truthy("employee_count") {
			return fmt.Sprint(v.raw("employee_count"))
		}
		return v.raw("company_size")
	}
	return nil
}

// firstNonNil returns the first truthy value among the given keys, mirroring
// the loose "a or b" fallbacks used across extraction rules.
func firstNonNil(v view, keys ...string) any {
	for _, key := range keys {
		if v.truthy(key) {
			return v.raw(key)
		}
	}
	return nil
}

// dedupe removes repeated candidates while preserving discovery order.
func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, val := range values {
		if seen[val] {
			continue
		}
		seen[val] = true
		out = append(out, val)
	}
	return out
}
