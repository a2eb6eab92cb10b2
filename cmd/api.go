package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vijay-48/LeadIntel/internal/export"
	"github.com/Vijay-48/LeadIntel/internal/ingest"
	"github.com/Vijay-48/LeadIntel/internal/model"
	"github.com/Vijay-48/LeadIntel/internal/search"
	"github.com/Vijay-48/LeadIntel/internal/store"
	"github.com/Vijay-48/LeadIntel/pkg/apollo"
)

// apiDeps bundles everything the HTTP handlers need. The store lifecycle is
// owned by the serve command, not by the handlers.
type apiDeps struct {
	store  store.Store
	agg    *search.Aggregator
	loader *ingest.Loader
	apollo apollo.Client
}

func newAPIRouter(deps apiDeps, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/data/status", deps.handleDataStatus)
		r.Post("/data/load", deps.handleDataLoad)
		r.Post("/enrichment/search", deps.handleSearch)
		r.Post("/enrichment/jobs", deps.handleJobs)
		r.Post("/export/csv", deps.handleExportCSV)
		r.Post("/export/txt", deps.handleExportTXT)
		r.Post("/export/xlsx", deps.handleExportXLSX)
		r.Get("/leads/cached", deps.handleCachedLeads)
		if deps.apollo != nil {
			r.Post("/apollo/search", deps.handleApolloSearch)
			r.Post("/apollo/bulk_match", deps.handleApolloBulkMatch)
		}
	})

	return r
}

func (d apiDeps) handleDataStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	counts, err := d.agg.DataStatus(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	apolloQuery := store.Query{}.And(store.AnyOf(store.In(
		[]string{string(model.SourceApolloPeople), string(model.SourceApolloCompanies)}, "data_source")))
	apolloCount, err := d.store.Count(ctx, store.CollectionEnriched, apolloQuery)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	status := "empty"
	if counts[store.CollectionCrunchbase] > 0 || counts[store.CollectionLinkedIn] > 0 || apolloCount > 0 {
		status = "loaded"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":               status,
		"crunchbase_companies": counts[store.CollectionCrunchbase],
		"linkedin_companies":   counts[store.CollectionLinkedIn],
		"apollo_csv_people":    apolloCount,
		"job_postings":         counts[store.CollectionJobs],
	})
}

func (d apiDeps) handleDataLoad(w http.ResponseWriter, r *http.Request) {
	// Detach from the request context so the load survives the response.
	go func() {
		if err := d.loader.LoadAll(contextWithoutCancel(r)); err != nil {
			zap.L().Error("background data load failed", zap.Error(err))
		}
	}()
	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Data load started"})
}

func (d apiDeps) handleSearch(w http.ResponseWriter, r *http.Request) {
	var filter model.SearchFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := d.agg.Search(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": res.Records,
		"count":   len(res.Records),
		"sources": res.Sources,
		"filters": map[string]any{
			"query":    filter.Query,
			"industry": filter.Industry,
			"location": filter.Location,
		},
	})
}

func (d apiDeps) handleJobs(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyID   string `json:"company_id"`
		CompanyName string `json:"company_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.CompanyID == "" && req.CompanyName == "" {
		writeError(w, http.StatusBadRequest, errMissingCompany)
		return
	}

	jobs, err := d.agg.JobsFor(r.Context(), req.CompanyID, req.CompanyName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": jobs, "count": len(jobs)})
}

type exportRequest struct {
	Data []model.Document `json:"data"`
}

func (d apiDeps) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=leadintel_export.csv")
	if err := export.WriteCSV(w, req.Data); err != nil {
		zap.L().Error("csv export failed", zap.Error(err))
	}
}

func (d apiDeps) handleExportTXT(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Disposition", "attachment; filename=leadintel_export.txt")
	if err := export.WriteTXT(w, req.Data); err != nil {
		zap.L().Error("txt export failed", zap.Error(err))
	}
}

func (d apiDeps) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=leadintel_export.xlsx")
	if err := export.WriteXLSX(w, req.Data); err != nil {
		zap.L().Error("xlsx export failed", zap.Error(err))
	}
}

// leadCacheTTL bounds how long a live Apollo hit is served from the leads
// collection.
const leadCacheTTL = time.Hour

func (d apiDeps) handleApolloSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query      string `json:"query"`
		SearchType string `json:"search_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, errMissingQuery)
		return
	}

	results := []model.Document{}
	if req.SearchType == "" || req.SearchType == "company" {
		// The enrichment endpoint needs a domain, so guess one from the query.
		domain := strings.ToLower(strings.ReplaceAll(req.Query, " ", "")) + ".com"
		org, err := d.apollo.EnrichOrganization(r.Context(), domain)
		if err != nil {
			zap.L().Warn("apollo company search failed", zap.String("domain", domain), zap.Error(err))
		} else {
			lead := apolloLead(req.Query, org)
			results = append(results, lead)
			d.cacheLead(r.Context(), lead)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"count":   len(results),
		"source":  "apollo",
	})
}

func (d apiDeps) cacheLead(ctx context.Context, lead model.Document) {
	id, _ := lead["id"].(string)
	if err := d.store.Upsert(ctx, store.CollectionLeads, id, lead); err != nil {
		zap.L().Warn("lead cache write failed", zap.String("id", id), zap.Error(err))
	}
}

// maxCachedLeads caps the cached-leads response, as the original API did.
const maxCachedLeads = 1000

func (d apiDeps) handleCachedLeads(w http.ResponseWriter, r *http.Request) {
	docs, err := d.store.Find(r.Context(), store.CollectionLeads, nil, maxCachedLeads)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	now := time.Now().UTC()
	fresh := []model.Document{}
	for _, doc := range docs {
		raw, _ := doc["expires_at"].(string)
		exp, err := time.Parse(time.RFC3339, raw)
		if err != nil || !exp.After(now) {
			continue
		}
		fresh = append(fresh, doc)
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": fresh, "count": len(fresh)})
}

// apolloLead flattens an Apollo organization into the lead shape the search
// results and the leads cache use.
func apolloLead(query string, org *apollo.Organization) model.Document {
	name := org.Name
	if name == "" {
		name = query
	}
	var locParts []string
	for _, p := range []string{org.City, org.State, org.Country} {
		if p != "" {
			locParts = append(locParts, p)
		}
	}
	now := time.Now().UTC()
	lead := model.Document{
		"id":             uuid.NewString(),
		"source":         "apollo",
		"company_name":   name,
		"industry":       org.Industry,
		"website":        org.WebsiteURL,
		"location":       strings.Join(locParts, ", "),
		"employee_count": strconv.Itoa(org.EstimatedNumEmployees),
		"company_domain": org.PrimaryDomain,
		"created_at":     now.Format(time.RFC3339),
		"expires_at":     now.Add(leadCacheTTL).Format(time.RFC3339),
	}
	if org.TotalFunding > 0 {
		lead["funding"] = "$" + humanize.Comma(org.TotalFunding)
	}
	return lead
}

func (d apiDeps) handleApolloBulkMatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Details []apollo.PersonDetail `json:"details"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	people, err := d.apollo.BulkMatchPeople(r.Context(), req.Details)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"people": people,
		"count":  len(people),
		"source": "apollo",
	})
}

// requestIDMiddleware tags every request with a UUID carried on the response
// and in the request logs.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), id)))
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
