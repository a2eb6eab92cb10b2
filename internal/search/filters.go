package search

import (
	"github.com/Vijay-48/LeadIntel/internal/model"
	"github.com/Vijay-48/LeadIntel/internal/store"
)

// crunchbaseQuery translates a SearchFilter into the clause shape the
// crunchbase collection understands. The free-text query and the location
// term share one OR clause so either alone is enough to match a record.
func crunchbaseQuery(f model.SearchFilter) store.Query {
	var q store.Query

	var text store.Clause
	if f.Query != "" {
		text = append(text,
			store.Contains(f.Query, "name"),
			store.Contains(f.Query, "about"),
			store.Contains(f.Query, "website"),
		)
	}
	if f.Location != "" {
		text = append(text,
			store.Contains(f.Location, "region"),
			store.Contains(f.Location, "address"),
			store.Contains(f.Location, "country_code"),
		)
	}
	q = q.And(text)

	if f.Industry != "" {
		// industries is an array of {value: ...} objects; match per element.
		q = q.And(store.AnyOf(store.ElemContains(f.Industry, []string{"industries"}, "value")))
	}
	return q
}

func linkedInQuery(f model.SearchFilter) store.Query {
	var q store.Query

	var text store.Clause
	if f.Query != "" {
		text = append(text,
			store.Contains(f.Query, "name"),
			store.Contains(f.Query, "description"),
			store.Contains(f.Query, "url"),
		)
	}
	if f.Location != "" {
		text = append(text,
			store.Contains(f.Location, "city"),
			store.Contains(f.Location, "state"),
			store.Contains(f.Location, "country"),
		)
	}
	q = q.And(text)

	if f.Industry != "" {
		q = q.And(store.AnyOf(store.Contains(f.Industry, "industries")))
	}
	return q
}

// enrichedQuery targets the pre-normalized collection, which holds canonical
// records loaded from CSV exports. Only the CSV source tags are eligible.
func enrichedQuery(f model.SearchFilter) store.Query {
	q := store.Query{}.And(store.AnyOf(
		store.In([]string{string(model.SourceApolloPeople), string(model.SourceApolloCompanies)}, "data_source"),
	))

	var text store.Clause
	if f.Query != "" {
		text = append(text,
			store.Contains(f.Query, "company_name"),
			store.Contains(f.Query, "website"),
			store.Contains(f.Query, "enrichment_fields", "company_name"),
			store.ElemContains(f.Query, []string{"all_prospects"}, "name"),
		)
	}
	if f.Location != "" {
		text = append(text, store.Contains(f.Location, "location"))
	}
	q = q.And(text)

	if f.Industry != "" {
		q = q.And(store.AnyOf(store.Contains(f.Industry, "industry")))
	}
	return q
}
