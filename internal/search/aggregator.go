// Package search implements the cross-source search aggregator: concurrent
// per-source fetches joined into one deduplicated list of canonical enriched
// records, plus the secondary company-to-job-postings lookup.
package search

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"github.com/Vijay-48/LeadIntel/internal/enrich"
	"github.com/Vijay-48/LeadIntel/internal/model"
	"github.com/Vijay-48/LeadIntel/internal/store"
)

// SourceStatus reports how one source fared during a search fan-out. A
// failed source contributes zero hits but never fails the whole search.
type SourceStatus struct {
	Hits int  `json:"hits"`
	OK   bool `json:"ok"`
}

// Result is the joined output of one search request.
type Result struct {
	Records []model.EnrichedRecord  `json:"results"`
	Sources map[string]SourceStatus `json:"sources"`
}

// Aggregator fans a search filter out across the three source collections
// and merges the hits. The store handle is injected at construction and
// owned by the caller.
type Aggregator struct {
	store store.Store
}

func NewAggregator(st store.Store) *Aggregator {
	return &Aggregator{store: st}
}

// Search runs the best-effort union across all sources. Each source gets an
// equal share of the limit so no source can starve the others; a source that
// errors is logged and counted as zero hits.
func (a *Aggregator) Search(ctx context.Context, f model.SearchFilter) (Result, error) {
	limit := f.EffectiveLimit()
	perSource := limit / 3
	if perSource < 1 {
		perSource = limit
	}

	var (
		enriched, crunchbase, linkedin []model.EnrichedRecord
		enrichedErr, cbErr, liErr      error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		enriched, enrichedErr = a.fetchEnriched(gctx, f, perSource)
		return nil
	})
	g.Go(func() error {
		crunchbase, cbErr = a.fetchRaw(gctx, store.CollectionCrunchbase, model.SourceCrunchbase, crunchbaseQuery(f), perSource)
		return nil
	})
	g.Go(func() error {
		linkedin, liErr = a.fetchRaw(gctx, store.CollectionLinkedIn, model.SourceLinkedIn, linkedInQuery(f), perSource)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, eris.Wrap(err, "search: fan-out")
	}

	status := map[string]SourceStatus{}
	reportSource(status, "enriched", len(enriched), enrichedErr)
	reportSource(status, string(model.SourceCrunchbase), len(crunchbase), cbErr)
	reportSource(status, string(model.SourceLinkedIn), len(linkedin), liErr)

	merged := make([]model.EnrichedRecord, 0, len(enriched)+len(crunchbase)+len(linkedin))
	merged = append(merged, enriched...)
	merged = append(merged, crunchbase...)
	merged = append(merged, linkedin...)

	merged = filterByEmployees(merged, f.MinEmployees, f.MaxEmployees)
	merged = dedupByCompanyName(merged)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return Result{Records: merged, Sources: status}, nil
}

func (a *Aggregator) fetchEnriched(ctx context.Context, f model.SearchFilter, limit int) ([]model.EnrichedRecord, error) {
	docs, err := a.store.Find(ctx, store.CollectionEnriched, enrichedQuery(f), limit)
	if err != nil {
		return nil, eris.Wrap(err, "search: fetch enriched")
	}
	recs := make([]model.EnrichedRecord, 0, len(docs))
	for _, doc := range docs {
		recs = append(recs, decodeEnriched(doc))
	}
	return recs, nil
}

func (a *Aggregator) fetchRaw(ctx context.Context, collection string, source model.SourceTag, q store.Query, limit int) ([]model.EnrichedRecord, error) {
	docs, err := a.store.Find(ctx, collection, q, limit)
	if err != nil {
		return nil, eris.Wrapf(err, "search: fetch %s", collection)
	}
	recs := make([]model.EnrichedRecord, 0, len(docs))
	for _, doc := range docs {
		recs = append(recs, enrich.Normalize(doc, source))
	}
	return recs, nil
}

// decodeEnriched passes an already-canonical document through, dropping the
// store bookkeeping fields and coercing non-finite floats before decoding.
func decodeEnriched(doc model.Document) model.EnrichedRecord {
	clean := stripBookkeeping(doc)
	var rec model.EnrichedRecord
	raw, err := json.Marshal(enrich.Sanitize(clean))
	if err == nil {
		err = json.Unmarshal(raw, &rec)
	}
	if err != nil {
		zap.L().Warn("search: undecodable enriched record", zap.Error(err))
		return model.EnrichedRecord{Error: eris.ToString(eris.Wrap(err, "decode enriched record"), false)}
	}
	return rec
}

func reportSource(status map[string]SourceStatus, name string, hits int, err error) {
	if err != nil {
		zap.L().Warn("search: source fetch failed, treating as zero hits",
			zap.String("source", name), zap.Error(err))
		status[name] = SourceStatus{}
		return
	}
	status[name] = SourceStatus{Hits: hits, OK: true}
}

// filterByEmployees drops records outside the requested headcount range.
// Records whose employee count cannot be parsed are retained.
func filterByEmployees(recs []model.EnrichedRecord, min, max int) []model.EnrichedRecord {
	if min <= 0 && max <= 0 {
		return recs
	}
	kept := recs[:0]
	for _, r := range recs {
		n, ok := parseEmployeeCount(r.EmployeeCount)
		if ok {
			if min > 0 && n < min {
				continue
			}
			if max > 0 && n > max {
				continue
			}
		}
		kept = append(kept, r)
	}
	return kept
}

func parseEmployeeCount(v any) (int, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		s = strings.TrimSuffix(s, "+")
		i, err := strconv.Atoi(s)
		return i, err == nil
	default:
		return 0, false
	}
}

// dedupByCompanyName keeps the first record seen for each case-folded
// non-empty company name. Records with no usable name never collide, so
// each one is kept.
func dedupByCompanyName(recs []model.EnrichedRecord) []model.EnrichedRecord {
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(recs))
	kept := recs[:0]
	for _, r := range recs {
		name := r.BestCompanyName()
		if name == "" {
			kept = append(kept, r)
			continue
		}
		key := fold.String(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, r)
	}
	return kept
}
