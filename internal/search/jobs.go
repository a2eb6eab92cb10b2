package search

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/Vijay-48/LeadIntel/internal/model"
	"github.com/Vijay-48/LeadIntel/internal/store"
)

// maxJobResults bounds a job-postings lookup regardless of how broad the
// company name match is.
const maxJobResults = 100

// JobsFor returns job postings for one company, matched exactly by id when
// given and by case-insensitive name substring otherwise. Store bookkeeping
// fields are stripped before the records leave this layer.
func (a *Aggregator) JobsFor(ctx context.Context, companyID, companyName string) ([]model.Document, error) {
	var q store.Query
	switch {
	case companyID != "":
		q = q.And(store.AnyOf(store.Equals(companyID, "company_id")))
	case companyName != "":
		q = q.And(store.AnyOf(store.Contains(companyName, "company_name")))
	default:
		return nil, eris.New("search: job lookup needs a company id or name")
	}

	docs, err := a.store.Find(ctx, store.CollectionJobs, q, maxJobResults)
	if err != nil {
		return nil, eris.Wrap(err, "search: fetch job postings")
	}
	out := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, stripBookkeeping(doc))
	}
	return out, nil
}

func stripBookkeeping(doc model.Document) model.Document {
	clean := make(model.Document, len(doc))
	for k, v := range doc {
		if strings.HasPrefix(k, "_") {
			continue
		}
		clean[k] = v
	}
	return clean
}

// DataStatus reports per-collection document counts, used by the serving
// layer's status endpoint and by the loader's skip-if-loaded check.
func (a *Aggregator) DataStatus(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, 4)
	for _, col := range []string{
		store.CollectionCrunchbase,
		store.CollectionLinkedIn,
		store.CollectionEnriched,
		store.CollectionJobs,
	} {
		n, err := a.store.Count(ctx, col, nil)
		if err != nil {
			return nil, eris.Wrapf(err, "search: count %s", col)
		}
		counts[col] = n
	}
	return counts, nil
}
